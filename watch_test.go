package folio

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestContentWatcherDebouncesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))

	var calls atomic.Int32
	w, err := NewContentWatcher(root, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	path := filepath.Join(root, "posts", "kiln.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("title: Kiln\n"), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load(), "one burst, one invalidation")
}

func TestContentWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	var calls atomic.Int32
	w, err := NewContentWatcher(root, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 0, calls.Load())
}

func TestContentWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, err := NewContentWatcher(t.TempDir(), func() {}, nil)
	require.NoError(t, err)
	w.Stop()
}
