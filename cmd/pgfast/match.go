package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/pgfast/internal/config"
	"github.com/oxhq/pgfast/internal/search"
)

// newMatchCommand reports only whether at least one node matches, with a
// process exit code a shell script can branch on (0 = matched, 1 = no
// match, 2 = error), the boolean-shaped sibling of "search".
func newMatchCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <pattern> [file]",
		Short: "Report whether a pattern matches anywhere in SQL text",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sql string
			if len(args) == 2 {
				data, err := os.ReadFile(args[1])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[1], err)
				}
				sql = string(data)
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				sql = string(data)
			}

			matches, err := search.Search(context.Background(), sql, args[0], nil)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "false")
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "true")
			return nil
		},
	}
	return cmd
}
