package service

import (
	"context"

	"clickshift-alpha/internal/bot"
	"clickshift-alpha/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Analyzer interface {
	Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error)
}

type CaptionGenerator interface {
	Generate(ctx context.Context, result *domain.AnalysisResult) string
}

type ChannelPublisher interface {
	Enabled() bool
	Publish(ctx context.Context, text string) (*bot.PostReceipt, error)
}

type PostRecorder interface {
	ObservePost(ok bool)
}

type TelegramPost struct {
	Success   bool   `json:"success"`
	MessageID int    `json:"messageId,omitempty"`
	ChatID    int64  `json:"chatId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type PostResult struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Telegram TelegramPost           `json:"telegram"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

// AnalysisService ties the engine to the caption generator and the channel.
type AnalysisService struct {
	tracer    trace.Tracer
	analyzer  Analyzer
	captions  CaptionGenerator
	publisher ChannelPublisher
	recorder  PostRecorder
}

func NewAnalysisService(
	tracer trace.Tracer,
	analyzer Analyzer,
	captions CaptionGenerator,
	publisher ChannelPublisher,
	recorder PostRecorder,
) *AnalysisService {
	if recorder == nil {
		recorder = nopPostRecorder{}
	}
	return &AnalysisService{
		tracer:    tracer,
		analyzer:  analyzer,
		captions:  captions,
		publisher: publisher,
		recorder:  recorder,
	}
}

func (s *AnalysisService) Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error) {
	return s.analyzer.Analyze(ctx, address)
}

// PostAnalysis analyzes address, captions the result and posts it to the
// channel. A failed post is reported in the result rather than as an error.
func (s *AnalysisService) PostAnalysis(ctx context.Context, address string) (*PostResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.post-analysis")
	defer span.End()

	result, err := s.analyzer.Analyze(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.Post(ctx, result), nil
}

// Post captions an existing result and sends it.
func (s *AnalysisService) Post(ctx context.Context, result *domain.AnalysisResult) *PostResult {
	message := s.captions.Generate(ctx, result)
	out := &PostResult{Message: message, Analysis: result}

	if s.publisher == nil || !s.publisher.Enabled() {
		out.Telegram.Error = bot.ErrNoChannel.Error()
		s.observe(false)
		return out
	}

	receipt, err := s.publisher.Publish(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("address", result.ContractAddress).Msg("telegram post failed")
		out.Telegram.Error = err.Error()
		s.observe(false)
		return out
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("telegram.message_id", receipt.MessageID))
	out.Success = true
	out.Telegram = TelegramPost{Success: true, MessageID: receipt.MessageID, ChatID: receipt.ChatID}
	s.observe(true)
	log.Info().
		Str("address", result.ContractAddress).
		Str("signal", string(result.Signal)).
		Int("message_id", receipt.MessageID).
		Msg("analysis posted")
	return out
}

func (s *AnalysisService) observe(ok bool) {
	s.recorder.ObservePost(ok)
}

type nopPostRecorder struct{}

func (nopPostRecorder) ObservePost(bool) {}
