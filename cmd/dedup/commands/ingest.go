// ABOUTME: CLI command to ingest a batch of scraped candidates
// ABOUTME: Runs the dedup pipeline over a JSON file of candidates
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pressroom/dedup/internal/core"
)

var (
	ingestThreshold float64
	ingestLookback  int
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <domain> <candidates.json>",
		Short: "Ingest a batch of candidates",
		Long: `Ingest scraped candidates from a JSON file, deduplicating as they arrive.

The file holds an array of candidates:
  [{"source_url": "...", "title": "...", "excerpt": "...", "body": "..."}]

Candidates whose source URL was already processed are skipped. Duplicates
bump the matched item's publication count instead of being stored. The
rest are stored with their embeddings and become visible to later checks
in the same run.

Examples:
  dedup ingest article scraped/articles.json
  dedup ingest job --lookback-days -1 scraped/jobs.json`,
		Args: cobra.ExactArgs(2),
		RunE: runIngest,
	}

	cmd.Flags().Float64Var(&ingestThreshold, "threshold", 0, "Similarity threshold override (0-1)")
	cmd.Flags().IntVar(&ingestLookback, "lookback-days", 0, "Lookback window in days, -1 for whole corpus")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(args[0])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading candidates file: %w", err)
	}

	var candidates []core.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return fmt.Errorf("parsing candidates file: %w", err)
	}

	if len(candidates) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No candidates to ingest")
		}
		return nil
	}

	eng, err := openEngine(true)
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.pipeline.Run(context.Background(), domain, candidates, core.CheckOptions{
		Threshold:    ingestThreshold,
		LookbackDays: ingestLookback,
	})
	if err != nil {
		return fmt.Errorf("ingesting candidates: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s (%s)\n", report.RunID, report.Domain)
	fmt.Fprintf(cmd.OutOrStdout(), "  processed:  %d\n", report.Processed)
	fmt.Fprintf(cmd.OutOrStdout(), "  accepted:   %d\n", report.Accepted)
	fmt.Fprintf(cmd.OutOrStdout(), "  duplicates: %d\n", report.Duplicates)
	fmt.Fprintf(cmd.OutOrStdout(), "  skipped:    %d\n", report.Skipped)
	fmt.Fprintf(cmd.OutOrStdout(), "  failed:     %d\n", report.Failed)

	return nil
}
