package launch

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
)

func TestExecLauncher_Missing(t *testing.T) {
	err := ExecLauncher{}.Launch(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryLaunch))
}

func TestExecLauncher_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	err := ExecLauncher{}.Launch(path, filepath.Dir(path))
	require.Error(t, err)
}

func TestExecLauncher_StartsInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script launcher")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "prog")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\npwd > started\n"), 0o755))

	require.NoError(t, ExecLauncher{}.Launch(path, dir))
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "started"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}
