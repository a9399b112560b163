// Package merge concatenates link batch files into one Turtle document with
// a single prefix header.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches the batch files written by the link commands.
const DefaultPattern = "links_*.ttl"

// ErrNoInput is returned when there is nothing to merge.
var ErrNoInput = errors.New("no batch files to merge")

// Stats reports what a merge wrote.
type Stats struct {
	Files    int
	Prefixes int
	Lines    int
}

// Dir merges the files in dir matching pattern, in file name order. The
// pattern may use ** to include subdirectories.
func Dir(dir, pattern string, w io.Writer) (Stats, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return Stats{}, fmt.Errorf("glob error: %w", err)
	}

	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("%w: no %s in %s", ErrNoInput, pattern, dir)
	}

	sort.Strings(files)
	return Files(files, w)
}

// Files merges paths in the given order. Blank lines are dropped. Prefix
// lines are copied from the first file only, up to its first data line. One
// blank line separates the header from the data.
func Files(paths []string, w io.Writer) (Stats, error) {
	if len(paths) == 0 {
		return Stats{}, ErrNoInput
	}

	var stats Stats
	bw := bufio.NewWriter(w)
	headerDone := false

	for i, path := range paths {
		slog.Debug("Merging batch file", "file", path)
		if err := mergeFile(path, bw, i == 0, &headerDone, &stats); err != nil {
			return stats, err
		}
		stats.Files++
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write merged output: %w", err)
	}
	return stats, nil
}

func mergeFile(path string, w *bufio.Writer, first bool, headerDone *bool, stats *Stats) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "@prefix") {
			if !first || *headerDone {
				continue
			}
			stats.Prefixes++
		} else {
			if !*headerDone {
				w.WriteString("\n")
				*headerDone = true
			}
			stats.Lines++
		}

		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write merged output: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
