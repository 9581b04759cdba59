package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/signal"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 20 * time.Second

type Analyzer interface {
	Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error)
}

// StartTelegramBot connects with long polling and registers the commands.
// It returns nil without error when token is empty.
func StartTelegramBot(token string, analyzer Analyzer) (*tele.Bot, error) {
	if strings.TrimSpace(token) == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("telegram handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/analyze", handleAnalyze(analyzer))

	log.Info().Str("bot", b.Me.Username).Msg("telegram bot started")
	go b.Start()
	return b, nil
}

func handleAnalyze(analyzer Analyzer) tele.HandlerFunc {
	return func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /analyze <token mint address>")
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		result, err := analyzer.Analyze(ctx, args[0])
		if err != nil {
			var verr *signal.ValidationError
			if errors.As(err, &verr) {
				return c.Send(fmt.Sprintf("Invalid address: %s %s", verr.Field, verr.Reason))
			}
			log.Error().Err(err).Str("address", args[0]).Msg("telegram analysis failed")
			return c.Send("Analysis failed, please try again later.")
		}
		return c.Send(FormatAnalysis(result), &tele.SendOptions{ParseMode: tele.ModeHTML})
	}
}
