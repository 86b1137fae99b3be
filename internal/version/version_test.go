package version

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/repository"
	"git.home.luguber.info/inful/catalogmirror/internal/retry"
)

func TestBuildInfo(t *testing.T) {
	require.NotEmpty(t, Version)
	require.NotEmpty(t, BuildTime)
	require.NotEmpty(t, GitCommit)
}

func fastPolicy(retries int) retry.Policy {
	return retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, retries)
}

func TestChecker_MostRecentProbeWins(t *testing.T) {
	states := []State{
		{DataChanged: true, ProgramUpdate: &ProgramUpdate{Version: "2.0", LaunchPath: "/x"}},
		{DataChanged: false},
	}
	i := 0
	c := NewChecker(ProbeFunc(func(context.Context) (State, error) {
		s := states[i]
		i++
		return s, nil
	}), fastPolicy(0))

	s, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, s.HasProgramUpdate())

	s, err = c.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, s.DataChanged)
	require.False(t, c.State().HasProgramUpdate())
	require.False(t, c.State().ProbedAt.IsZero())
}

func TestChecker_FailureKeepsPreviousState(t *testing.T) {
	fail := false
	c := NewChecker(ProbeFunc(func(context.Context) (State, error) {
		if fail {
			return State{}, errors.New("boom")
		}
		return State{DataChanged: true}, nil
	}), fastPolicy(0))

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	s, err := c.Refresh(context.Background())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryProbe))
	require.True(t, s.DataChanged)
	require.True(t, c.State().DataChanged)
}

func TestChecker_RetriesTransientFailures(t *testing.T) {
	calls := 0
	c := NewChecker(ProbeFunc(func(context.Context) (State, error) {
		calls++
		if calls < 3 {
			return State{}, ferrors.ProbeError("transient").Build()
		}
		return State{DataChanged: true}, nil
	}), fastPolicy(2))

	s, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, s.DataChanged)
	require.Equal(t, 3, calls)
}

type fakeSource struct {
	root    string
	changed bool
	err     error
}

func (f fakeSource) Path() string                { return f.root }
func (f fakeSource) CheckNewData() (bool, error) { return f.changed, f.err }

func writeManifest(t *testing.T, root, content string) {
	t.Helper()
	path := filepath.Join(root, repository.UpdateManifest)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRepositoryProbe(t *testing.T) {
	root := t.TempDir()
	probe := RepositoryProbe{Source: fakeSource{root: root, changed: true}, Running: "1.0"}

	s, err := probe.Probe(context.Background())
	require.NoError(t, err)
	require.True(t, s.DataChanged)
	require.Nil(t, s.ProgramUpdate)

	writeManifest(t, root, `{"version":"1.1","launch_path":"1/catalogmirror"}`)
	s, err = probe.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.ProgramUpdate)
	require.Equal(t, "1.1", s.ProgramUpdate.Version)
	require.Equal(t, filepath.Join(root, "run", "1", "catalogmirror"), s.ProgramUpdate.LaunchPath)

	writeManifest(t, root, `{"version":"1.0","launch_path":"1/catalogmirror"}`)
	s, err = probe.Probe(context.Background())
	require.NoError(t, err)
	require.Nil(t, s.ProgramUpdate, "staged build equal to the running one is not an update")
}

func TestReadUpdateManifest_Invalid(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{"version":""}`)
	_, err := ReadUpdateManifest(filepath.Join(root, repository.UpdateManifest))
	require.Error(t, err)
	require.False(t, ferrors.IsRetryable(err))
}

func TestRepositorySource_CorruptCatalogIsAnError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, repository.DataDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, repository.CatalogFile), []byte("{"), 0o644))
	repo, err := repository.OpenStateDir(t.TempDir(), root)
	require.NoError(t, err)

	_, err = RepositoryProbe{Source: repo, Running: "1.0"}.Probe(context.Background())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCatalog))
	require.False(t, ferrors.IsRetryable(err))
}

func TestChecker_CorruptCatalogKeepsPreviousState(t *testing.T) {
	src := &fakeSource{root: t.TempDir(), changed: true}
	c := NewChecker(RepositoryProbe{Source: src, Running: "1.0"}, fastPolicy(0))
	s, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, s.DataChanged)

	src.err = ferrors.NewError(ferrors.CategoryCatalog, "parse catalog generation").Build()
	_, err = c.Refresh(context.Background())
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCatalog))
	require.True(t, c.State().DataChanged)
}
