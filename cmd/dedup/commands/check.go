// ABOUTME: CLI command to check candidate text for near-duplicates
// ABOUTME: Embeds the text and searches the domain's similarity index
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
	checkThreshold float64
	checkLookback  int
	checkFile      string
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <domain> [text]",
		Short: "Check text for near-duplicates",
		Long: `Check whether candidate text is a near-duplicate of existing content.

The text is embedded and compared against published items in the given
domain within the lookback window. Pass --lookback-days -1 to search the
whole corpus.

Examples:
  dedup check article "Storm warning issued for the coast"
  dedup check job --file posting.txt
  dedup check article --threshold 0.9 --lookback-days 7 "..."`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCheck,
	}

	cmd.Flags().Float64Var(&checkThreshold, "threshold", 0, "Similarity threshold override (0-1)")
	cmd.Flags().IntVar(&checkLookback, "lookback-days", 0, "Lookback window in days, -1 for whole corpus")
	cmd.Flags().StringVar(&checkFile, "file", "", "Read candidate text from file instead of argument")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(args[0])
	if err != nil {
		return err
	}

	var text string
	switch {
	case checkFile != "":
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return fmt.Errorf("reading candidate file: %w", err)
		}
		text = string(data)
	case len(args) == 2:
		text = args[1]
	default:
		return fmt.Errorf("candidate text required: pass it as an argument or via --file")
	}

	eng, err := openEngine(true)
	if err != nil {
		return err
	}
	defer eng.Close()

	verdict, err := eng.checker.Check(context.Background(), domain, text, core.CheckOptions{
		Threshold:    checkThreshold,
		LookbackDays: checkLookback,
	})
	if err != nil {
		return fmt.Errorf("checking candidate: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if verdict.IsDuplicate {
		fmt.Fprintf(cmd.OutOrStdout(), "DUPLICATE (score %.4f)\n", verdict.Score)
		fmt.Fprintf(cmd.OutOrStdout(), "Matched item %d: %s\n", verdict.MatchedID, truncate(verdict.MatchedTitle, 70))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "UNIQUE (best score %.4f)\n", verdict.Score)
	}

	return nil
}
