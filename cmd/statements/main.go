package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-extractor/internal/domain/classification"
	"github.com/FACorreiaa/statement-extractor/internal/domain/consolidation"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/tableparse"
	"github.com/FACorreiaa/statement-extractor/pkg/config"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "statements",
		Short: "Financial statement extraction toolkit",
		Long: `Statements classifies pages of extracted document text by financial
statement type, parses classified table text into typed line items, and
consolidates statements from multiple documents into one multi-period view.

All input is plain text produced by an upstream extraction step; this tool
never reads PDF bytes.`,
		Version: version,
	}

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(consolidateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <page.txt>...",
		Short: "Classify page text files by statement type",
		Long: `Classify reads one text file per page, in page order, and reports
which pages carry which financial statement, with confidence scores.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pages := make([]string, 0, len(args))
			for _, path := range args {
				text, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read page %s: %w", path, err)
				}
				pages = append(pages, string(text))
			}

			classifier := classification.NewClassifier(classification.DefaultRules(), cfg.Calibration, nil)
			out := struct {
				Pages      map[statement.Type][]int   `json:"pages"`
				Classified []statement.ClassifiedPage `json:"classified"`
			}{
				Pages:      classifier.Classify(pages),
				Classified: classifier.ClassifyPages(pages),
			}
			return printJSON(cmd, out)
		},
	}
}

func parseCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "parse <table.txt>",
		Short: "Parse delimiter-separated table text into line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read table %s: %w", args[0], err)
			}

			parsed, err := tableparse.NewParserWithDelimiter(delimiter).Parse(string(text))
			if err != nil {
				return err
			}
			return printJSON(cmd, parsed)
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", "|", "field delimiter in the table text")
	return cmd
}

func consolidateCmd() *cobra.Command {
	var (
		statementType string
		delimiter     string
	)

	cmd := &cobra.Command{
		Use:   "consolidate <table.txt>...",
		Short: "Consolidate parsed statements from multiple documents",
		Long: `Consolidate parses each table text file as one source statement and
merges them into a single multi-period statement. Sources are processed in
argument order; the merge summary records every decision.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			t := resolveType(statementType)
			if t == statement.Unknown {
				return fmt.Errorf("unknown statement type %q", statementType)
			}

			parser := tableparse.NewParserWithDelimiter(delimiter)
			sources := make([]consolidation.Source, 0, len(args))
			for _, path := range args {
				text, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read table %s: %w", path, err)
				}
				parsed, err := parser.Parse(string(text))
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				sources = append(sources, consolidation.Source{
					Document: statement.SourceDocument{
						ID:    uuid.New(),
						Label: filepath.Base(path),
					},
					Statement: parsed,
				})
			}

			consolidator := consolidation.NewConsolidator(t, nil, cfg.Calibration.FuzzyThreshold)
			return printJSON(cmd, consolidator.Consolidate(sources))
		},
	}

	cmd.Flags().StringVar(&statementType, "type", string(statement.IncomeStatement), "statement type being consolidated")
	cmd.Flags().StringVar(&delimiter, "delimiter", "|", "field delimiter in the table text")
	return cmd
}

// resolveType accepts both the enum value and a loose human spelling.
func resolveType(s string) statement.Type {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, t := range statement.AllTypes() {
		if normalized == string(t) {
			return t
		}
	}
	return statement.Unknown
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
