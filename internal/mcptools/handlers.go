package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dusk-indust/segagree/internal/agreement"
	"github.com/dusk-indust/segagree/internal/gold"
	"github.com/dusk-indust/segagree/internal/segfile"
	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/dusk-indust/segagree/internal/window"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// AgreementService holds the settings used by the MCP tool handlers.
type AgreementService struct {
	log      *zap.Logger
	workers  int
	interval float64
}

// NewAgreementService creates an AgreementService. workers bounds per-document
// parallelism (0 means unbounded) and interval is the confidence interval of
// reported margins.
func NewAgreementService(log *zap.Logger, workers int, interval float64) *AgreementService {
	if log == nil {
		log = zap.NewNop()
	}
	if interval == 0 {
		interval = 0.95
	}
	return &AgreementService{log: log, workers: workers, interval: interval}
}

// StrictAgreement computes exact-position agreement per document and overall.
func (s *AgreementService) StrictAgreement(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StrictAgreementInput,
) (*mcp.CallToolResult, AgreementOutput, error) {
	method := agreement.MultiPi
	if input.Method != "" {
		m, err := agreement.ParseMethod(input.Method)
		if err != nil {
			return nil, AgreementOutput{}, err
		}
		if m.Windowed() {
			return nil, AgreementOutput{}, fmt.Errorf("method %s is windowed; use near_agreement", m)
		}
		method = m
	}
	out, err := s.run(ctx, filtered(input.Items, input.Coders), method, 0)
	return nil, out, err
}

// NearAgreement computes windowed agreement per document and overall.
func (s *AgreementService) NearAgreement(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NearAgreementInput,
) (*mcp.CallToolResult, AgreementOutput, error) {
	method := agreement.WindowPi
	if input.Method != "" {
		m, err := agreement.ParseMethod(input.Method)
		if err != nil {
			return nil, AgreementOutput{}, err
		}
		if !m.Windowed() {
			return nil, AgreementOutput{}, fmt.Errorf("method %s is not windowed; use strict_agreement", m)
		}
		method = m
	}

	k := input.WindowSize
	if k == 0 && input.Reference != "" {
		var err error
		if k, err = window.ReferenceSize(input.Items, input.Reference); err != nil {
			return nil, AgreementOutput{}, err
		}
	}
	out, err := s.run(ctx, filtered(input.Items, input.Coders), method, k)
	return nil, out, err
}

// DeriveGold derives a gold segmentation for every document.
func (s *AgreementService) DeriveGold(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DeriveGoldInput,
) (*mcp.CallToolResult, DeriveGoldOutput, error) {
	mode := gold.Exact
	if input.Mode != "" {
		m, err := gold.ParseMode(input.Mode)
		if err != nil {
			return nil, DeriveGoldOutput{}, err
		}
		mode = m
	}
	items, err := gold.DeriveCorpus(input.Items, mode)
	if err != nil {
		return nil, DeriveGoldOutput{}, err
	}
	s.log.Debug("derived gold", zap.Stringer("mode", mode), zap.Int("documents", len(items)))
	return nil, DeriveGoldOutput{
		SegmentationType: segfile.Linear,
		ID:               gold.Coder,
		Items:            items,
	}, nil
}

// WindowSize reports the canonical window size, either corpus-wide from a
// reference coder or per document.
func (s *AgreementService) WindowSize(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input WindowSizeInput,
) (*mcp.CallToolResult, WindowSizeOutput, error) {
	if input.Reference != "" {
		k, err := window.ReferenceSize(input.Items, input.Reference)
		if err != nil {
			return nil, WindowSizeOutput{}, err
		}
		return nil, WindowSizeOutput{WindowSize: k}, nil
	}
	sizes := make(map[string]int, len(input.Items))
	for _, id := range input.Items.DocumentIDs() {
		k, err := window.Size(input.Items[id].Ordered())
		if err != nil {
			return nil, WindowSizeOutput{}, fmt.Errorf("document %s: %w", id, err)
		}
		sizes[id] = k
	}
	return nil, WindowSizeOutput{PerDocument: sizes}, nil
}

func (s *AgreementService) run(ctx context.Context, items segment.Corpus, method agreement.Method, k int) (AgreementOutput, error) {
	if len(items) == 0 {
		return AgreementOutput{}, fmt.Errorf("items is required")
	}
	f, err := agreement.Coefficient(method, k)
	if err != nil {
		return AgreementOutput{}, err
	}

	perDoc, err := agreement.PerDocument(ctx, items, f, s.workers)
	if err != nil && !errors.Is(err, agreement.ErrDegenerate) {
		return AgreementOutput{}, err
	}
	if err != nil {
		s.log.Warn("undefined coefficients", zap.Stringer("method", method), zap.Error(err))
	}

	overall, err := agreement.Overall(items, f)
	if err != nil && !errors.Is(err, agreement.ErrDegenerate) {
		return AgreementOutput{}, err
	}

	out := AgreementOutput{
		Method:      method.String(),
		WindowSize:  k,
		PerDocument: make(map[string]Score, len(perDoc)),
		Overall:     s.score(overall),
	}
	for id, r := range perDoc {
		out.PerDocument[id] = s.score(r)
	}
	return out, nil
}

func (s *AgreementService) score(r agreement.Result) Score {
	if r.Undefined() {
		return Score{Undefined: true}
	}
	sc := Score{Coefficient: r.Coefficient}
	if r.HasVariance() {
		sc.Variance = r.Variance
		sc.Margin, _ = agreement.ErrorMargin(r.Variance, s.interval)
	}
	return sc
}

func filtered(items segment.Corpus, coders []string) segment.Corpus {
	if len(coders) == 0 {
		return items
	}
	return segment.FilterCoders(items, coders)
}
