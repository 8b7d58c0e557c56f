// ABOUTME: CLI command to display corpus and index statistics
// ABOUTME: Shows item counts, embedding coverage, and index size per domain
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pressroom/dedup/internal/models"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [domain]",
		Short: "Show corpus and index statistics",
		Long: `Display item counts, embedding coverage, and index size.

With no argument, statistics for all domains are shown.

Examples:
  dedup stats
  dedup stats article
  dedup stats --format json job`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	domains := []models.Domain{models.DomainArticle, models.DomainJob}
	if len(args) == 1 {
		domain, err := parseDomain(args[0])
		if err != nil {
			return err
		}
		domains = []models.Domain{domain}
	}

	eng, err := openEngine(false)
	if err != nil {
		return err
	}
	defer eng.Close()

	var stats []*models.IndexStats
	for _, domain := range domains {
		s, err := eng.checker.Stats(domain)
		if err != nil {
			return fmt.Errorf("collecting stats for %s: %w", domain, err)
		}
		stats = append(stats, s)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DOMAIN\tITEMS\tEMBEDDED\tINDEXED\tMISSING\tDIM\tTHRESHOLD\n")
	fmt.Fprintf(w, "------\t-----\t--------\t-------\t-------\t---\t---------\n")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f\n",
			s.Domain, s.TotalItems, s.WithEmbeddings, s.Indexed, s.Missing, s.Dimension, s.Threshold)
	}
	w.Flush()

	return nil
}
