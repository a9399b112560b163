package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/gamegraph/merge"
	"github.com/spf13/cobra"
)

func mergeCmd(a *app) *cobra.Command {
	var (
		dir     string
		pattern string
		output  string
	)

	cmd := &cobra.Command{
		Use:       "merge agents|games",
		Short:     "Combine link batch files into one Turtle document",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(linkAgents), string(linkGames)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := linkKind(args[0])
			if dir == "" {
				dir = a.cfg.AgentBatch().Dir
				if kind == linkGames {
					dir = a.cfg.GameBatch().Dir
				}
			}
			if output == "" {
				output = filepath.Join(a.cfg.Output.Dir, fmt.Sprintf("links_%s_merged_final.ttl", kind))
			}

			stats, err := mergeInto(dir, pattern, output)
			if err != nil {
				return err
			}
			a.logger.Info("Merged batch files",
				"dir", dir,
				"files", stats.Files,
				"prefixes", stats.Prefixes,
				"lines", stats.Lines)
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files (%d links) into %s\n", stats.Files, stats.Lines, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Batch file directory (default from config)")
	cmd.Flags().StringVar(&pattern, "pattern", merge.DefaultPattern, "Batch file name pattern")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Merged file (default <output.dir>/links_<kind>_merged_final.ttl)")

	return cmd
}

// mergeInto writes the merge to a temporary file next to output and renames
// it into place once complete.
func mergeInto(dir, pattern, output string) (merge.Stats, error) {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return merge.Stats{}, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return merge.Stats{}, fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	buf := bufio.NewWriter(tmp)
	stats, err := merge.Dir(dir, pattern, buf)
	if err != nil {
		return stats, err
	}
	if err := buf.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return stats, fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return stats, fmt.Errorf("replace output: %w", err)
	}
	return stats, nil
}
