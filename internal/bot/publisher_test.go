package bot

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

type stubSender struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
	err  error
}

func (s *stubSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.to, s.what, s.opts = to, what, opts
	if s.err != nil {
		return nil, s.err
	}
	return &tele.Message{ID: 42, Chat: &tele.Chat{ID: -100123}}, nil
}

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestPublisherSendsToNumericChannel(t *testing.T) {
	sender := &stubSender{}
	pub := NewPublisher(testTracer, sender, "-100123")

	receipt, err := pub.Publish(context.Background(), "🚨 $BONK <BUY>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.MessageID != 42 || receipt.ChatID != -100123 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if sender.to.Recipient() != "-100123" {
		t.Fatalf("unexpected recipient %s", sender.to.Recipient())
	}
	if sender.what != "🚨 $BONK &lt;BUY&gt;" {
		t.Fatalf("text should be html escaped, got %v", sender.what)
	}
}

func TestPublisherUsernameChannel(t *testing.T) {
	sender := &stubSender{}
	pub := NewPublisher(testTracer, sender, "clickshift_alpha")
	if _, err := pub.Publish(context.Background(), "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.to.Recipient() != "@clickshift_alpha" {
		t.Fatalf("unexpected recipient %s", sender.to.Recipient())
	}
}

func TestPublisherDisabled(t *testing.T) {
	if _, err := NewPublisher(testTracer, &stubSender{}, "").Publish(context.Background(), "x"); !errors.Is(err, ErrNoChannel) {
		t.Fatalf("expected ErrNoChannel, got %v", err)
	}
	var nilPub *Publisher
	if nilPub.Enabled() {
		t.Fatal("nil publisher cannot be enabled")
	}
}

func TestPublisherSendError(t *testing.T) {
	pub := NewPublisher(testTracer, &stubSender{err: errors.New("forbidden")}, "-1")
	if _, err := pub.Publish(context.Background(), "x"); err == nil {
		t.Fatal("expected send error")
	}
}
