package version

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
)

// DataSource reports whether the on-disk catalog differs from the live snapshot.
// An unreadable catalog is an error, not an unchanged one.
type DataSource interface {
	Path() string
	CheckNewData() (bool, error)
}

// RepositoryProbe derives State from the local repository the transport keeps in sync.
type RepositoryProbe struct {
	Source  DataSource
	Running string // version of the running build; defaults to Version
}

// Probe implements Probe.
func (p RepositoryProbe) Probe(_ context.Context) (State, error) {
	update, err := ReadUpdateManifest(filepath.Join(p.Source.Path(), repository.UpdateManifest))
	if err != nil {
		return State{}, err
	}
	changed, err := p.Source.CheckNewData()
	if err != nil {
		return State{}, err
	}
	running := p.Running
	if running == "" {
		running = Version
	}
	if update != nil && update.Version == running {
		update = nil
	}
	return State{
		DataChanged:   changed,
		ProgramUpdate: update,
		ProbedAt:      time.Now(),
	}, nil
}

// ReadUpdateManifest reads a staged update descriptor. A missing file means no update.
// A relative launch path is resolved against the manifest's directory.
func ReadUpdateManifest(path string) (*ProgramUpdate, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.ProbeError("read update manifest").WithCause(err).WithContext("path", path).Build()
	}
	var u ProgramUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, ferrors.NewError(ferrors.CategoryProbe, "decode update manifest").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if u.Version == "" || u.LaunchPath == "" {
		return nil, ferrors.NewError(ferrors.CategoryProbe, "update manifest requires version and launch_path").
			WithContext("path", path).
			Build()
	}
	if !filepath.IsAbs(u.LaunchPath) {
		u.LaunchPath = filepath.Join(filepath.Dir(path), u.LaunchPath)
	}
	return &u, nil
}
