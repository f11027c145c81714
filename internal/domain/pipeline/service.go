// Package pipeline orchestrates the extraction flow for one source
// document: page classification, targeted table re-extraction, parsing, and
// batch consolidation. The core components stay pure; every I/O-bearing
// step lives behind a collaborator interface.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/statement-extractor/internal/domain/classification"
	"github.com/FACorreiaa/statement-extractor/internal/domain/consolidation"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/tableparse"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
)

// ErrMissingSource is returned when a consolidation batch references a
// source statement that was never produced. Consolidation never partially
// fails mid-merge; inputs are validated up front.
var ErrMissingSource = errors.New("pipeline: consolidation source not found")

// PageTextExtractor supplies page-indexed plain text for a source document.
type PageTextExtractor interface {
	ExtractPages(ctx context.Context, doc statement.SourceDocument) ([]string, error)
}

// HeaderRegionRenderer supplies the text of the bounded header region of a
// page, clipped to roughly the top 120 units of its coordinate space.
type HeaderRegionRenderer interface {
	HeaderText(ctx context.Context, doc statement.SourceDocument, pageIndex int) (string, error)
}

// TableTextExtractor re-extracts the identified pages as delimiter-separated
// table text after classification.
type TableTextExtractor interface {
	ExtractTable(ctx context.Context, doc statement.SourceDocument, pages []int) (string, error)
}

// DocumentResult is the outcome of processing one source document.
type DocumentResult struct {
	Document   statement.SourceDocument
	Pages      map[statement.Type][]int
	Statements map[statement.Type]statement.ParsedStatement
	Classified []statement.ClassifiedPage
}

// Service wires the classifier and parser to the extraction collaborators.
type Service struct {
	extractor PageTextExtractor
	renderer  HeaderRegionRenderer
	tables    TableTextExtractor
	parser    *tableparse.Parser
	rules     classification.RuleTable
	cal       config.Calibration
	logger    *slog.Logger
}

// NewService builds the orchestration service. renderer may be nil; the
// classifier then falls back to the leading lines of each page for the
// header-boost check.
func NewService(
	extractor PageTextExtractor,
	renderer HeaderRegionRenderer,
	tables TableTextExtractor,
	cal config.Calibration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		renderer:  renderer,
		tables:    tables,
		parser:    tableparse.NewParser(),
		rules:     classification.DefaultRules(),
		cal:       cal,
		logger:    logger,
	}
}

// headerAdapter narrows the context-aware renderer to the classifier's
// synchronous HeaderProvider contract for a single document.
type headerAdapter struct {
	ctx      context.Context
	doc      statement.SourceDocument
	renderer HeaderRegionRenderer
}

func (h *headerAdapter) HeaderText(pageIndex int) (string, error) {
	return h.renderer.HeaderText(h.ctx, h.doc, pageIndex)
}

// ProcessDocument runs classification and parsing for one document. Pages
// under the quality gate are logged and carried through; callers decide
// whether to proceed, flag for review, or fall back to another extractor.
func (s *Service) ProcessDocument(ctx context.Context, doc statement.SourceDocument) (*DocumentResult, error) {
	pages, err := s.extractor.ExtractPages(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract pages for %s: %w", doc.Label, err)
	}

	var headers classification.HeaderProvider
	if s.renderer != nil {
		headers = &headerAdapter{ctx: ctx, doc: doc, renderer: s.renderer}
	}
	classifier := classification.NewClassifier(s.rules, s.cal, headers)

	classified := classifier.ClassifyPages(pages)
	for _, page := range classified {
		if page.Type == statement.Unknown {
			continue
		}
		if page.Confidence < s.cal.QualityGate {
			s.logger.Warn("classification below quality gate",
				"document", doc.Label,
				"page", page.PageIndex,
				"type", page.Type,
				"confidence", page.Confidence,
			)
		}
	}

	result := &DocumentResult{
		Document:   doc,
		Pages:      classifier.Classify(pages),
		Statements: make(map[statement.Type]statement.ParsedStatement),
		Classified: classified,
	}

	for t, pageIndices := range result.Pages {
		tableText, err := s.tables.ExtractTable(ctx, doc, pageIndices)
		if err != nil {
			return nil, fmt.Errorf("extract table for %s %s: %w", doc.Label, t, err)
		}

		parsed, err := s.parser.Parse(tableText)
		if err != nil {
			var parseErr *tableparse.ParseError
			if errors.As(err, &parseErr) {
				// Nothing tabular on the identified pages; record the miss
				// and keep the rest of the document's results.
				s.logger.Warn("table parse failed",
					"document", doc.Label,
					"type", t,
					"error", err,
				)
				continue
			}
			return nil, err
		}

		s.logger.Info("statement parsed",
			"document", doc.Label,
			"type", t,
			"periods", len(parsed.Periods),
			"line_items", len(parsed.LineItems),
		)
		result.Statements[t] = parsed
	}

	return result, nil
}

// Consolidate merges the named statement type across the given document
// results, in input order. A result missing that statement type is a setup
// error surfaced before any merging starts.
func (s *Service) Consolidate(t statement.Type, results []*DocumentResult) (statement.ConsolidatedStatement, error) {
	sources := make([]consolidation.Source, 0, len(results))
	for _, res := range results {
		parsed, ok := res.Statements[t]
		if !ok {
			return statement.ConsolidatedStatement{},
				fmt.Errorf("%w: %s has no %s", ErrMissingSource, res.Document.Label, t)
		}
		sources = append(sources, consolidation.Source{
			Document:  res.Document,
			Statement: parsed,
		})
	}

	consolidator := consolidation.NewConsolidator(t, nil, s.cal.FuzzyThreshold)
	merged := consolidator.Consolidate(sources)

	s.logger.Info("statements consolidated",
		"type", t,
		"sources", len(sources),
		"accounts", len(merged.Accounts),
		"years", len(merged.Years),
	)
	return merged, nil
}
