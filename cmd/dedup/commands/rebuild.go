// ABOUTME: CLI command to rebuild a domain's similarity index
// ABOUTME: Drops the cached index and rebuilds it from stored embeddings
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRebuildCmd creates the rebuild command
func NewRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild <domain>",
		Short: "Rebuild the similarity index",
		Long: `Drop the cached index for a domain and rebuild it from stored embeddings.

No embedding calls are made; this only reloads vectors already in the
database. Run it after manual database edits.`,
		Args: cobra.ExactArgs(1),
		RunE: runRebuild,
	}

	return cmd
}

func runRebuild(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(args[0])
	if err != nil {
		return err
	}

	eng, err := openEngine(false)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.checker.Rebuild(domain); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt index for domain %s\n", domain)
	}

	return nil
}
