// Package launch starts a detached program build, used to relaunch after an
// update or a repository relocation.
package launch

import (
	"log/slog"
	"os"
	"os/exec"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
)

// Launcher starts the program at path with dir as its working directory.
type Launcher interface {
	Launch(path, dir string, args ...string) error
}

// ExecLauncher starts processes with os/exec and does not wait for them.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(path, dir string, args ...string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ferrors.LaunchError("program not found").WithCause(err).WithContext("path", path).Build()
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return ferrors.LaunchError("program is not executable").WithContext("path", path).Build()
	}

	cmd := exec.Command(path, args...)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return ferrors.LaunchError("start program").WithCause(err).WithContext("path", path).Build()
	}
	slog.Info("Program launched", logfields.Path(path), slog.Int("pid", cmd.Process.Pid))
	return cmd.Process.Release()
}

// Func adapts a function to Launcher.
type Func func(path, dir string, args ...string) error

// Launch calls f.
func (f Func) Launch(path, dir string, args ...string) error { return f(path, dir, args...) }
