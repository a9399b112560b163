package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/gamegraph/reconcile"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrologue = []string{
	"@prefix owl: <http://www.w3.org/2002/07/owl#> .",
	"@prefix agent: <http://example.org/agent/> .",
	"",
}

func testConfig(dir string) Config {
	return Config{
		Dir:         dir,
		FilePattern: "links_%02d.ttl",
		Prologue:    testPrologue,
		Size:        500,
	}
}

func worklist(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Key:     strconv.Itoa(i),
			Label:   fmt.Sprintf("Agent %d", i),
			Subject: fmt.Sprintf("agent:A%d", i),
			Weight:  n - i,
		}
	}
	return items
}

// recordingResolver resolves every item and remembers the keys it saw.
type recordingResolver struct {
	keys []int
	miss func(key int) bool
}

func (r *recordingResolver) Resolve(_ context.Context, item reconcile.Item) reconcile.Result {
	k, _ := strconv.Atoi(item.Key)
	r.keys = append(r.keys, k)
	if r.miss != nil && r.miss(k) {
		return reconcile.Result{}
	}
	return reconcile.Result{URI: "http://www.wikidata.org/entity/Q" + item.Key, Strategy: reconcile.ByLabel}
}

func readLines(t *testing.T, path string) (prefixes, links []string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "@prefix"):
			prefixes = append(prefixes, line)
		case strings.Contains(line, "owl:sameAs"):
			links = append(links, line)
		}
	}
	return prefixes, links
}

func TestRunner_RotatesFiles(t *testing.T) {
	dir := t.TempDir()
	resolver := &recordingResolver{}
	runner, err := NewRunner(testConfig(dir), resolver)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), worklist(1200))
	require.NoError(t, err)

	assert.Equal(t, 1200, summary.Processed)
	assert.Equal(t, 1200, summary.Found)
	assert.Equal(t, 3, summary.FilesOpened)
	assert.NotEmpty(t, summary.RunID)

	for name, want := range map[string]int{"links_01.ttl": 500, "links_02.ttl": 500, "links_03.ttl": 200} {
		prefixes, links := readLines(t, filepath.Join(dir, name))
		assert.Len(t, links, want, name)
		assert.Len(t, prefixes, 2, name)
	}

	_, links := readLines(t, filepath.Join(dir, "links_01.ttl"))
	assert.Equal(t, "agent:A0 owl:sameAs <http://www.wikidata.org/entity/Q0> .", links[0])

	data, err := os.ReadFile(filepath.Join(dir, "links_03.ttl"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data),
		"@prefix owl: <http://www.w3.org/2002/07/owl#> .\n@prefix agent: <http://example.org/agent/> .\n\nagent:A1000 "))
}

func TestRunner_ResumeMidBatchAppends(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	// First run dies after position 699: emulate with a worklist cut short.
	first, err := NewRunner(cfg, &recordingResolver{})
	require.NoError(t, err)
	_, err = first.Run(context.Background(), worklist(700))
	require.NoError(t, err)

	// Stale content in a later batch is replaced on the boundary.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links_03.ttl"), []byte("stale\n"), 0o644))

	cfg.StartFrom = 700
	resolver := &recordingResolver{}
	second, err := NewRunner(cfg, resolver)
	require.NoError(t, err)
	summary, err := second.Run(context.Background(), worklist(1200))
	require.NoError(t, err)

	require.NotEmpty(t, resolver.keys)
	assert.Equal(t, 700, resolver.keys[0], "positions below the offset are never queried")
	assert.Len(t, resolver.keys, 500)
	assert.Equal(t, 2, summary.FilesOpened)
	assert.Equal(t, 1200, summary.Next)

	prefixes, links := readLines(t, filepath.Join(dir, "links_02.ttl"))
	assert.Len(t, prefixes, 2, "prologue is not repeated on append")
	assert.Len(t, links, 500)

	data, err := os.ReadFile(filepath.Join(dir, "links_03.ttl"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	_, links = readLines(t, filepath.Join(dir, "links_03.ttl"))
	assert.Len(t, links, 200)
}

func TestRunner_ResumeOnBoundaryTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "links_02.ttl")
	require.NoError(t, os.WriteFile(path, []byte("agent:Old owl:sameAs <http://x/> .\n"), 0o644))

	cfg := testConfig(dir)
	cfg.StartFrom = 500
	runner, err := NewRunner(cfg, &recordingResolver{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), worklist(600))
	require.NoError(t, err)

	prefixes, links := readLines(t, path)
	assert.Len(t, prefixes, 2)
	assert.Len(t, links, 100)
	assert.NotContains(t, strings.Join(links, "\n"), "agent:Old")
}

func TestRunner_ResumeIntoEmptyFileWritesPrologue(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Size = 10
	cfg.StartFrom = 5
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links_01.ttl"), nil, 0o644))

	runner, err := NewRunner(cfg, &recordingResolver{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), worklist(10))
	require.NoError(t, err)

	prefixes, links := readLines(t, filepath.Join(dir, "links_01.ttl"))
	assert.Len(t, prefixes, 2)
	assert.Len(t, links, 5)
}

func TestRunner_MissesAndSkips(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Size = 4

	items := worklist(6)
	items[2].Subject = ""
	resolver := &recordingResolver{miss: func(k int) bool { return k%2 == 1 }}

	runner, err := NewRunner(cfg, resolver)
	require.NoError(t, err)
	summary, err := runner.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3, 4, 5}, resolver.keys)
	assert.Equal(t, Summary{
		RunID:       summary.RunID,
		Next:        6,
		Processed:   5,
		Found:       2,
		Skipped:     1,
		FilesOpened: 2,
		Duration:    summary.Duration,
	}, summary)

	m := runner.Metrics()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("found", "label")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.lookups.WithLabelValues("miss", "none")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesOpened))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	textfile := filepath.Join(t.TempDir(), "gamegraph.prom")
	require.NoError(t, m.WriteTextfile(textfile))
	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gamegraph_reconcile_lookups_total{outcome="found",strategy="label"} 2`)
	assert.Contains(t, string(data), "gamegraph_batch_files_opened_total 2")
}

func TestRunner_FailedLookupOutcomes(t *testing.T) {
	failures := []reconcile.FailureKind{reconcile.Transient, reconcile.Fatal, "", reconcile.Fatal}
	resolver := ResolverFunc(func(_ context.Context, item reconcile.Item) reconcile.Result {
		k, _ := strconv.Atoi(item.Key)
		return reconcile.Result{Failure: failures[k]}
	})

	runner, err := NewRunner(testConfig(t.TempDir()), resolver)
	require.NoError(t, err)
	summary, err := runner.Run(context.Background(), worklist(4))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Failed)
	assert.Zero(t, summary.Found)

	m := runner.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("error_transient", "none")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("error_fatal", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("miss", "none")))
}

func TestRunner_CancellationClosesFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	resolver := ResolverFunc(func(ctx context.Context, item reconcile.Item) reconcile.Result {
		calls++
		if calls == 3 {
			cancel()
		}
		return reconcile.Result{URI: "http://www.wikidata.org/entity/Q" + item.Key, Strategy: reconcile.ByID}
	})

	runner, err := NewRunner(testConfig(dir), resolver)
	require.NoError(t, err)
	summary, err := runner.Run(ctx, worklist(10))
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, summary.Found, "the interrupted lookup is not recorded")
	assert.Equal(t, 2, summary.Next, "resume retries the interrupted item")

	_, links := readLines(t, filepath.Join(dir, "links_01.ttl"))
	assert.Len(t, links, 2, "every completed link is on disk")

	// The runner released the file, so it can be removed and recreated.
	require.NoError(t, os.Remove(filepath.Join(dir, "links_01.ttl")))
}

func TestRunner_DelayIsInterruptible(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Delay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runner, err := NewRunner(cfg, &recordingResolver{})
	require.NoError(t, err)

	start := time.Now()
	summary, err := runner.Run(ctx, worklist(3))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Next)
}

func TestRunner_StartBeyondEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.StartFrom = 50

	resolver := &recordingResolver{}
	runner, err := NewRunner(cfg, resolver)
	require.NoError(t, err)
	summary, err := runner.Run(context.Background(), worklist(10))
	require.NoError(t, err)

	assert.Empty(t, resolver.keys)
	assert.Zero(t, summary.FilesOpened)
	assert.Equal(t, 10, summary.Next)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	_, err := NewRunner(Config{}, &recordingResolver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dir is required")

	_, err = NewRunner(testConfig(t.TempDir()), nil)
	assert.Error(t, err)
}

func TestRunner_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	runner, err := NewRunner(testConfig(blocker), &recordingResolver{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), worklist(1))
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
