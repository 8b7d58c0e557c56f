// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose/quiet/format flags shared by all subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗██████╗ ██╗   ██╗██████╗
██╔══██╗██╔════╝██╔══██╗██║   ██║██╔══██╗
██║  ██║█████╗  ██║  ██║██║   ██║██████╔╝
██║  ██║██╔══╝  ██║  ██║██║   ██║██╔═══╝
██████╔╝███████╗██████╔╝╚██████╔╝██║
╚═════╝ ╚══════╝╚═════╝  ╚═════╝ ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Semantic deduplication for published content",
		Long: banner + `
Dedup detects near-duplicate articles and job postings before they are
published. Candidate text is embedded with OpenAI embedding models and
compared against the existing corpus by cosine similarity.

Content and embeddings live in a local SQLite database. The similarity
index over recent items is rebuilt on demand and cached per domain.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewEncodeCmd())
	cmd.AddCommand(NewRebuildCmd())
	cmd.AddCommand(NewRemoveCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
