// Command pgfast is the CLI front end over the search engine: run a
// pattern against SQL text, a single file, or a glob of files, optionally
// highlighting or persisting the run. It uses cobra for its command tree
// and pflag-backed flags, the same framework the teacher's own CLI binary
// is built on.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/pgfast/internal/config"
)

func main() {
	cfg := config.Load()
	root := newRootCommand(cfg)
	if err := root.Execute(); err != nil {
		printFatal(err)
		os.Exit(2)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "pgfast",
		Short: "Structural pattern matching for PostgreSQL SQL",
		Long:  "pgfast searches PostgreSQL SQL ASTs with a compact s-expression pattern language, inspired by Ruby's fast gem.",
	}

	root.AddCommand(
		newSearchCommand(cfg),
		newMatchCommand(cfg),
		newHighlightCommand(cfg),
		newHistoryCommand(cfg),
	)
	return root
}

// printFatal mirrors the teacher's config.PrintFatal: it writes the error
// to stderr as plain text. It has no JSON form; --json does not change it.
func printFatal(err error) {
	fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
}
