package handler

import (
	"context"
	"errors"
	"net/http"

	"clickshift-alpha/internal/signal"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// statusClientClosedRequest is the nginx convention for a caller that went away.
const statusClientClosedRequest = 499

type AnalyzeRequest struct {
	ContractAddress string `json:"contractAddress" example:"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"`
}

// Analyze godoc
// @Summary      Analyze a Solana token
// @Description  Gathers market, holder and indicator data and returns a BUY/WAIT/AVOID signal with risk, confidence and price levels
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  AnalyzeRequest  true  "Token mint address"
// @Success      200  {object}  domain.AnalysisResult
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze")
	defer span.End()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	span.SetAttributes(attribute.String("token.address", req.ContractAddress))

	result, err := h.analysis.Analyze(ctx, req.ContractAddress)
	if err != nil {
		writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostAnalysis godoc
// @Summary      Analyze a token and post it to Telegram
// @Description  Runs an analysis, generates a caption and posts it to the configured channel
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string          false  "API key when auth is enabled"
// @Param        request    body    AnalyzeRequest  true   "Token mint address"
// @Success      200  {object}  service.PostResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/post-analysis [post]
func (h *Handler) PostAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-analysis")
	defer span.End()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	span.SetAttributes(attribute.String("token.address", req.ContractAddress))

	res, err := h.analysis.PostAnalysis(ctx, req.ContractAddress)
	if err != nil {
		writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeError(c *gin.Context, span trace.Span, err error) {
	var verr *signal.ValidationError
	var defect *signal.ComputationDefect
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	case errors.Is(err, context.Canceled):
		c.JSON(statusClientClosedRequest, gin.H{"error": "request cancelled"})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "analysis timed out"})
		return
	case errors.As(err, &defect):
		log.Error().Err(err).Str("stage", defect.Stage).Msg("analysis defect")
	default:
		log.Error().Err(err).Msg("analysis failed")
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
}
