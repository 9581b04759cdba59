package bot

import (
	"context"
	"errors"
	"html"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

var ErrNoChannel = errors.New("telegram channel not configured")

// Sender is the subset of *tele.Bot used for channel posts.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type PostReceipt struct {
	MessageID int   `json:"messageId"`
	ChatID    int64 `json:"chatId"`
}

// Publisher posts captions to one Telegram channel.
type Publisher struct {
	tracer  trace.Tracer
	sender  Sender
	channel tele.Recipient
}

// NewPublisher accepts a numeric chat id or an @channel username.
func NewPublisher(tracer trace.Tracer, sender Sender, channelID string) *Publisher {
	return &Publisher{tracer: tracer, sender: sender, channel: parseChannel(channelID)}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.sender != nil && p.channel != nil
}

func (p *Publisher) Publish(ctx context.Context, text string) (*PostReceipt, error) {
	if !p.Enabled() {
		return nil, ErrNoChannel
	}
	_, span := p.tracer.Start(ctx, "telegram.publish",
		trace.WithAttributes(attribute.String("telegram.channel", p.channel.Recipient())))
	defer span.End()

	msg, err := p.sender.Send(p.channel, html.EscapeString(text), &tele.SendOptions{ParseMode: tele.ModeHTML})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	receipt := &PostReceipt{MessageID: msg.ID}
	if msg.Chat != nil {
		receipt.ChatID = msg.Chat.ID
	}
	return receipt, nil
}

type channelUsername string

func (c channelUsername) Recipient() string { return string(c) }

func parseChannel(id string) tele.Recipient {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return tele.ChatID(n)
	}
	if !strings.HasPrefix(id, "@") {
		id = "@" + id
	}
	return channelUsername(id)
}

var _ Sender = (*tele.Bot)(nil)
