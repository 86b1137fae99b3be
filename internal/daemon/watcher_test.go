package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDataWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var triggers atomic.Int32
	w, err := NewDataWatcher([]string{dir}, 100*time.Millisecond, func(string) { triggers.Add(1) })
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte{byte('0' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return triggers.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	require.Equal(t, int32(1), triggers.Load())
}

func TestDataWatcher_NoDirectories(t *testing.T) {
	w, err := NewDataWatcher([]string{filepath.Join(t.TempDir(), "missing")}, time.Second, func(string) {})
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	require.Error(t, w.Start(context.Background()))
}

func TestDataWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewDataWatcher([]string{t.TempDir()}, time.Second, func(string) {})
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}
