package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxhq/pgfast/internal/config"
	"github.com/oxhq/pgfast/internal/store"
	"github.com/oxhq/pgfast/internal/textutil"
)

// newHistoryCommand shows how a saved pattern's recorded match counts have
// changed across the runs the store has on file, diffing the two most
// recent summaries the way the teacher's CLI diffs a file's before/after
// content.
func newHistoryCommand(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <pattern>",
		Short: "Show recorded runs for a pattern and diff the two most recent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreDSN == "" {
				return fmt.Errorf("history requires PGFAST_STORE_DSN to be set")
			}
			st, err := store.Open(cfg.StoreDSN, cfg.StoreDebug)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer st.Close()

			runs, err := st.RunsByPattern(args[0], limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs for this pattern")
				return nil
			}

			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  matches=%d embedded=%d source=%q\n",
					r.CreatedAt.Format("2006-01-02T15:04:05"), r.ID, r.MatchCount, r.EmbeddedCount, r.SourcePath)
			}

			if len(runs) < 2 {
				return nil
			}
			latest, previous := runs[0], runs[1]
			diff, err := textutil.UnifiedDiff(
				previous.CreatedAt.Format(time.RFC3339),
				latest.CreatedAt.Format(time.RFC3339),
				textutil.Summarize([]string{fmt.Sprintf("matches=%d embedded=%d", previous.MatchCount, previous.EmbeddedCount)}),
				textutil.Summarize([]string{fmt.Sprintf("matches=%d embedded=%d", latest.MatchCount, latest.EmbeddedCount)}),
				3,
			)
			if err != nil {
				return err
			}
			if diff != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "\n"+diff)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to show, newest first")
	return cmd
}
