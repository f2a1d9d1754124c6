package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/oxhq/pgfast/internal/astview"
	"github.com/oxhq/pgfast/internal/cache"
	"github.com/oxhq/pgfast/internal/config"
	"github.com/oxhq/pgfast/internal/locate"
	"github.com/oxhq/pgfast/internal/search"
	"github.com/oxhq/pgfast/internal/store"
)

// fileMatch pairs a single file's search results with the path they came
// from, the unit the glob-driven multi-file mode reports in.
type fileMatch struct {
	Path    string      `json:"path"`
	Matches []jsonMatch `json:"matches"`
}

// jsonMatch is the wire shape of one search.Match for --json output. Byte
// offsets are omitted when the node carries no usable location.
type jsonMatch struct {
	Type      string `json:"type"`
	Statement int    `json:"statement"`
	Embedded  bool   `json:"embedded"`
	StartByte *int   `json:"start_byte,omitempty"`
	EndByte   *int   `json:"end_byte,omitempty"`
}

func newSearchCommand(cfg *config.Config) *cobra.Command {
	var (
		glob      string
		jsonOut   bool
		useCache  bool
		recordRun bool
	)

	cmd := &cobra.Command{
		Use:   "search <pattern> [file]",
		Short: "Search SQL text or files for nodes matching a pattern",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patternSrc := args[0]

			var c *cache.Cache
			if useCache {
				c = cache.New(cfg.CacheCapacity)
			}

			var st *store.Store
			if recordRun && cfg.StoreDSN != "" {
				s, err := store.Open(cfg.StoreDSN, cfg.StoreDebug)
				if err != nil {
					return fmt.Errorf("open run store: %w", err)
				}
				defer s.Close()
				st = s
			}

			if glob != "" {
				return runGlobSearch(cmd, patternSrc, glob, c, st, jsonOut)
			}

			var (
				sql  string
				path string
			)
			if len(args) == 2 {
				path = args[1]
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					return fmt.Errorf("read %s: %w", path, readErr)
				}
				sql = string(data)
			} else {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				sql = string(data)
			}

			matches, err := search.Search(context.Background(), sql, patternSrc, c)
			if err != nil {
				return err
			}

			if st != nil {
				grouped := search.GroupCaptures(matches)
				if _, err := st.RecordRun(patternSrc, sql, path, matches, grouped.Keys); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ could not record run: %v\n", err)
				}
			}

			return printMatches(cmd, matches, jsonOut)
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "search every file matching this doublestar pattern instead of a single file/stdin")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "output results as JSON")
	cmd.Flags().BoolVar(&useCache, "cache", true, "use the bounded expression cache")
	cmd.Flags().BoolVar(&recordRun, "record", false, "persist this run to the configured store (PGFAST_STORE_DSN)")
	return cmd
}

func runGlobSearch(cmd *cobra.Command, patternSrc, glob string, c *cache.Cache, st *store.Store, jsonOut bool) error {
	paths, err := doublestar.FilepathGlob(glob)
	if err != nil {
		return fmt.Errorf("expand glob %q: %w", glob, err)
	}

	var out []fileMatch
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", p, err)
			continue
		}
		matches, err := search.Search(context.Background(), string(data), patternSrc, c)
		if err != nil {
			return fmt.Errorf("compile pattern: %w", err)
		}
		if st != nil {
			grouped := search.GroupCaptures(matches)
			if _, err := st.RecordRun(patternSrc, string(data), p, matches, grouped.Keys); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ could not record run for %s: %v\n", p, err)
			}
		}
		if len(matches) == 0 {
			continue
		}
		out = append(out, fileMatch{Path: p, Matches: toJSONMatches(matches)})
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, fm := range out {
		fmt.Fprintf(cmd.OutOrStdout(), "%s — %d match(es)\n", fm.Path, len(fm.Matches))
		for _, m := range fm.Matches {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (statement %d)\n", m.Type, m.Statement)
		}
	}
	if len(out) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
	}
	return nil
}

func toJSONMatches(matches []search.Match) []jsonMatch {
	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		jm := jsonMatch{
			Type:      astview.TypeName(m.Node),
			Statement: m.Statement,
			Embedded:  m.Embedded,
		}
		if r, ok := locate.NodeRange(m.Node, m.Source); ok {
			start, end := r.Start, r.End
			jm.StartByte, jm.EndByte = &start, &end
		}
		out = append(out, jm)
	}
	return out
}

func printMatches(cmd *cobra.Command, matches []search.Match, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toJSONMatches(matches))
	}
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
		return nil
	}
	for i, m := range matches {
		tag := ""
		if m.Embedded {
			tag = " [embedded]"
		}
		loc := ""
		if r, ok := locate.NodeRange(m.Node, m.Source); ok {
			loc = fmt.Sprintf(" @%d-%d", r.Start, r.End)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s (statement %d)%s%s\n", i, astview.TypeName(m.Node), m.Statement, loc, tag)
	}
	return nil
}
