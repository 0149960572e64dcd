package mcptools

import "github.com/dusk-indust/segagree/internal/segment"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// StrictAgreementInput is the input for the strict_agreement MCP tool.
type StrictAgreementInput struct {
	Items  segment.Corpus `json:"items" jsonschema:"documents mapped to coder segmentations, each a list of segment masses"`
	Method string         `json:"method,omitempty" jsonschema:"multi-pi (default), multi-kappa, positive-pi or bias"`
	Coders []string       `json:"coders,omitempty" jsonschema:"only include these coders"`
}

// NearAgreementInput is the input for the near_agreement MCP tool.
type NearAgreementInput struct {
	Items      segment.Corpus `json:"items" jsonschema:"documents mapped to coder segmentations, each a list of segment masses"`
	Method     string         `json:"method,omitempty" jsonschema:"window-pi (default) or window-alpha"`
	WindowSize int            `json:"windowSize,omitempty" jsonschema:"window size; derived from the segmentations when omitted"`
	Reference  string         `json:"reference,omitempty" jsonschema:"coder whose segmentations fix one window size for every document"`
	Coders     []string       `json:"coders,omitempty" jsonschema:"only include these coders"`
}

// AgreementOutput is the result of the agreement MCP tools.
type AgreementOutput struct {
	Method      string           `json:"method"`
	WindowSize  int              `json:"windowSize,omitempty"`
	PerDocument map[string]Score `json:"perDocument"`
	Overall     Score            `json:"overall"`
}

// Score is a coefficient as reported over MCP. JSON has no NaN, so an
// undefined coefficient is flagged instead.
type Score struct {
	Coefficient float64 `json:"coefficient"`
	Variance    float64 `json:"variance,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	Undefined   bool    `json:"undefined,omitempty"`
}

// DeriveGoldInput is the input for the derive_gold MCP tool.
type DeriveGoldInput struct {
	Items segment.Corpus `json:"items" jsonschema:"documents mapped to coder segmentations, each a list of segment masses"`
	Mode  string         `json:"mode,omitempty" jsonschema:"exact (default) or near"`
}

// DeriveGoldOutput is the result of the derive_gold MCP tool.
type DeriveGoldOutput struct {
	SegmentationType string         `json:"segmentation_type"`
	ID               string         `json:"id"`
	Items            segment.Corpus `json:"items"`
}

// WindowSizeInput is the input for the window_size MCP tool.
type WindowSizeInput struct {
	Items     segment.Corpus `json:"items" jsonschema:"documents mapped to coder segmentations, each a list of segment masses"`
	Reference string         `json:"reference,omitempty" jsonschema:"coder to derive the size from; all coders of each document when omitted"`
}

// WindowSizeOutput is the result of the window_size MCP tool.
type WindowSizeOutput struct {
	// WindowSize is set when a reference coder was given.
	WindowSize int `json:"windowSize,omitempty"`
	// PerDocument holds per-document sizes when no reference was given.
	PerDocument map[string]int `json:"perDocument,omitempty"`
}
