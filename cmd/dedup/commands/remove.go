// ABOUTME: CLI command to remove an item's embedding from the index
// ABOUTME: Deletes the stored vector and rebuilds the domain index
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <domain> <item-id>",
		Short: "Remove an item from the index",
		Long: `Delete an item's embedding and rebuild the domain index without it.

The content row itself is kept; the item simply stops matching future
candidates. Use this for retracted or unpublished items.`,
		Args: cobra.ExactArgs(2),
		RunE: runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	domain, err := parseDomain(args[0])
	if err != nil {
		return err
	}

	itemID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || itemID <= 0 {
		return fmt.Errorf("invalid item id %q", args[1])
	}

	eng, err := openEngine(false)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.checker.Remove(itemID, domain); err != nil {
		return fmt.Errorf("removing item: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d from domain %s\n", itemID, domain)
	}

	return nil
}
