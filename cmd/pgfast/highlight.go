package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/pgfast/internal/config"
	"github.com/oxhq/pgfast/internal/highlight"
	"github.com/oxhq/pgfast/internal/locate"
	"github.com/oxhq/pgfast/internal/search"
)

func newHighlightCommand(cfg *config.Config) *cobra.Command {
	var (
		style      string
		contextual bool
		before     int
		after      int
	)

	cmd := &cobra.Command{
		Use:   "highlight <pattern> [file]",
		Short: "Search SQL text and print it back with matches highlighted",
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

			hs, err := parseStyle(style)
			if err != nil {
				return err
			}

			var ranges []locate.Range
			for _, m := range matches {
				if r, ok := locate.NodeRange(m.Node, m.Source); ok {
					ranges = append(ranges, r)
				}
			}

			if contextual {
				fmt.Fprintln(cmd.OutOrStdout(), highlight.WithContext(sql, ranges, highlight.ContextOptions{
					Style:  hs,
					Before: before,
					After:  after,
				}))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlight.Highlight(sql, ranges, hs))
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", cfg.HighlightStyle, "highlight style: ansi, html, or markdown")
	cmd.Flags().BoolVar(&contextual, "context", false, "print only the lines touching a match, with surrounding context")
	cmd.Flags().IntVar(&before, "before", 2, "lines of context before each match window (with --context)")
	cmd.Flags().IntVar(&after, "after", 2, "lines of context after each match window (with --context)")
	return cmd
}

func parseStyle(s string) (highlight.Style, error) {
	switch s {
	case "ansi":
		return highlight.ANSI, nil
	case "html":
		return highlight.HTML, nil
	case "markdown":
		return highlight.Markdown, nil
	default:
		return 0, fmt.Errorf("unknown highlight style %q (want ansi, html, or markdown)", s)
	}
}
