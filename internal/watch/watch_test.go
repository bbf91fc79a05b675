package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
	"submerge/internal/logging"
	"submerge/internal/pipeline"
)

const fragmentsKo = "1\n00:00:00,000 --> 00:00:00,500\n안녕\n\n2\n00:00:00,520 --> 00:00:00,900\n하세요\n"

const mergedKo = "1\n00:00:00,000 --> 00:00:00,900\n안녕하세요\n"

func testConfig(dir string) Config {
	opts := merge.DefaultOptions()
	opts.EnableBasicMerge = true
	return Config{Dir: dir, Suffix: ".merged", Debounce: 50 * time.Millisecond, Options: opts}
}

func runWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		<-done
	})
}

func waitForFile(t *testing.T, path string) string {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond, "expected %s to appear", path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestWatcherProcessesNewFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(testConfig(dir), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.NoError(t, err)
	runWatcher(t, w)

	input := filepath.Join(dir, "episode.srt")
	require.NoError(t, os.WriteFile(input, []byte(fragmentsKo), 0o644))

	got := waitForFile(t, filepath.Join(dir, "episode.merged.srt"))
	assert.Equal(t, mergedKo, got)

	// The output's own create event must not trigger another run.
	time.Sleep(300 * time.Millisecond)
	_, err = os.Stat(filepath.Join(dir, "episode.merged.merged.srt"))
	assert.True(t, os.IsNotExist(err))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcherDebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	buf := &syncBuffer{}
	logger := logging.New(logging.Config{Writer: buf, Format: "json"})

	cfg := testConfig(dir)
	cfg.Debounce = 150 * time.Millisecond
	w, err := New(cfg, pipeline.DefaultDeps(logging.Discard()), logger)
	require.NoError(t, err)
	runWatcher(t, w)

	input := filepath.Join(dir, "burst.srt")
	f, err := os.OpenFile(input, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	chunks := []string{
		"1\n00:00:00,000 --> 00:00:00,500\n안녕\n",
		"\n2\n00:00:00,520 --> 00:00:00,900\n하세",
		"요\n",
	}
	for _, chunk := range chunks {
		_, err = f.WriteString(chunk)
		require.NoError(t, err)
		time.Sleep(30 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	got := waitForFile(t, filepath.Join(dir, "burst.merged.srt"))
	assert.Equal(t, mergedKo, got)

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"processed subtitle file"`),
		"write burst should collapse into one run")
}

func TestWatcherSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(testConfig(dir), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.NoError(t, err)
	runWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(fragmentsKo), 0o644))
	time.Sleep(300 * time.Millisecond)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".merged", "no output expected for %s", e.Name())
	}
}

func TestWatcherSurvivesBrokenFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(testConfig(dir), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.NoError(t, err)
	runWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.srt"), []byte("???"), 0o644))
	time.Sleep(300 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.srt"), []byte(fragmentsKo), 0o644))
	got := waitForFile(t, filepath.Join(dir, "good.merged.srt"))
	assert.Equal(t, mergedKo, got)

	_, err = os.Stat(filepath.Join(dir, "broken.merged.srt"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatcherLocksDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(testConfig(dir), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.NoError(t, err)
	runWatcher(t, w)

	_, err = New(testConfig(dir), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "another watcher")
}

func TestWatcherRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := New(testConfig(filepath.Join(dir, "missing")), pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))

	cfg := testConfig(dir)
	cfg.Options.MaxMergeCount = -1
	_, err = New(cfg, pipeline.DefaultDeps(logging.Discard()), logging.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestWants(t *testing.T) {
	w := &Watcher{cfg: Config{Suffix: ".merged"}}

	assert.True(t, w.wants("/tmp/a.srt"))
	assert.True(t, w.wants("/tmp/A.SRT"))
	assert.False(t, w.wants("/tmp/a.merged.srt"))
	assert.False(t, w.wants("/tmp/a.txt"))
	assert.False(t, w.wants("/tmp/.submerge.lock"))

	assert.Equal(t, "/tmp/a.merged.srt", w.outputPath("/tmp/a.srt"))
}
