package mcptool

import (
	"context"
	"net/http"

	"clickshift-alpha/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const ToolName = "analyze_token"

type Analyzer interface {
	Analyze(ctx context.Context, address string) (*domain.AnalysisResult, error)
}

type AnalyzeInput struct {
	ContractAddress string `json:"contract_address" jsonschema:"base58 mint address of the Solana token to analyze"`
}

// NewServer returns an MCP server exposing the analyze_token tool.
func NewServer(tracer trace.Tracer, analyzer Analyzer, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "clickshift-alpha", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Analyze a Solana token and return a BUY, WAIT or AVOID signal with risk score, confidence, price levels and the normalized inputs used.",
	}, analyzeHandler(tracer, analyzer))
	return server
}

// The output is left untyped so the result keeps its own JSON encoding
// (decimal prices as strings) instead of a reflected schema.
func analyzeHandler(tracer trace.Tracer, analyzer Analyzer) mcp.ToolHandlerFor[AnalyzeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, any, error) {
		ctx, span := tracer.Start(ctx, "mcp.analyze-token", trace.WithAttributes(attribute.String("token.address", in.ContractAddress)))
		defer span.End()

		result, err := analyzer.Analyze(ctx, in.ContractAddress)
		if err != nil {
			log.Warn().Err(err).Str("address", in.ContractAddress).Msg("mcp analysis failed")
			return nil, nil, err
		}
		return nil, result, nil
	}
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}
