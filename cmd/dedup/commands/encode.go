// ABOUTME: CLI command to backfill embeddings for stored items
// ABOUTME: Encodes items that have no vector yet and rebuilds the index
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewEncodeCmd creates the encode command
func NewEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <domain>",
		Short: "Backfill missing embeddings",
		Long: `Embed stored items that have no vector yet and rebuild the index.

Items whose embedding fails are logged and skipped; the run continues.
Useful after importing legacy content or after an interrupted ingest.`,
		Args: cobra.ExactArgs(1),
		RunE: runEncode,
	}

	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(args[0])
	if err != nil {
		return err
	}

	eng, err := openEngine(true)
	if err != nil {
		return err
	}
	defer eng.Close()

	encoded, err := eng.checker.EncodeMissing(context.Background(), domain)
	if err != nil {
		return fmt.Errorf("encoding missing embeddings: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Encoded %d item(s) in domain %s\n", encoded, domain)
	}

	return nil
}
