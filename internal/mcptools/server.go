package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewAgreementMCPServer creates an MCP server with the agreement tools registered:
// strict_agreement, near_agreement, derive_gold and window_size.
func NewAgreementMCPServer(svc *AgreementService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "segagree",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "strict_agreement",
		Description: "Compute chance-corrected agreement on exact boundary positions (multi-pi, multi-kappa, agreement on positive judgments, or annotator bias) per document and overall, with variance and error margin.",
	}, svc.StrictAgreement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "near_agreement",
		Description: "Compute windowed agreement on boundary counts (window-pi or window-alpha) per document and overall. Coders agree when they count the same number of boundaries inside a sliding window.",
	}, svc.NearAgreement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "derive_gold",
		Description: "Derive a consensus segmentation per document from boundaries that at least one pair of coders agrees on, exactly or within the window size.",
	}, svc.DeriveGold)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "window_size",
		Description: "Return the canonical window size (half the mean segment mass), per document or corpus-wide from a reference coder.",
	}, svc.WindowSize)

	return server
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking
// until stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
