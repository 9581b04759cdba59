package handler

import (
	"context"

	"clickshift-alpha/internal/domain"
	"clickshift-alpha/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type AnalysisService interface {
	Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error)
	PostAnalysis(ctx context.Context, address string) (*service.PostResult, error)
}

type Handler struct {
	tracer   trace.Tracer
	analysis AnalysisService
}

func New(tracer trace.Tracer, analysis AnalysisService) *Handler {
	return &Handler{
		tracer:   tracer,
		analysis: analysis,
	}
}

// RegisterRoutes mounts the public API. apiKey guards the posting route and
// an empty key disables the check.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.POST("/api/analyze", h.Analyze)
	r.POST("/api/post-analysis", APIKeyAuth(apiKey), h.PostAnalysis)
}
