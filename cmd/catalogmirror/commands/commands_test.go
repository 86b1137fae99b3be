package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/catalogmirror/internal/config"
	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/catalogmirror/internal/testutil/testutils"
)

func writeConfig(t *testing.T, repoRoot string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		StateDir:   filepath.Join(dir, "state"),
		Repository: config.RepositoryConfig{DefaultPath: repoRoot},
		Poll:       config.PollConfig{Interval: "1h"},
	}
	data, err := yaml.Marshal(&cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "catalogmirror.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("catalogmirror"), kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = ctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogmirror.yaml")

	out, err := run(t, "-c", path, "init")
	require.NoError(t, err)
	require.Contains(t, out, "initialized successfully")
	require.FileExists(t, path)

	_, err = run(t, "-c", path, "init")
	require.Error(t, err)

	_, err = run(t, "-c", path, "init", "--force")
	require.NoError(t, err)
}

func TestReloadAndStatus(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(4,
		helpers.RepoRecord{ID: "alpha", Name: "Alpha"},
		helpers.RepoRecord{ID: "beta", Name: "Beta"})
	cfgPath := writeConfig(t, repo.Root)

	out, err := run(t, "-c", cfgPath, "reload")
	require.NoError(t, err)
	require.Contains(t, out, "generation 4, 2 records")

	out, err = run(t, "-c", cfgPath, "status")
	require.NoError(t, err)
	require.Contains(t, out, `"records": 2`)
	require.NotContains(t, out, "relocated_from")
}

func TestPoll(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(1, helpers.RepoRecord{ID: "alpha", Name: "Alpha"})
	cfgPath := writeConfig(t, repo.Root)

	out, err := run(t, "-c", cfgPath, "poll")
	require.NoError(t, err)
	require.Contains(t, out, "action: silent_reload")
}

func TestNews(t *testing.T) {
	repo := helpers.NewRepo(t).Catalog(1, helpers.RepoRecord{ID: "alpha", Name: "Alpha"}).News(
		helpers.RepoNewsItem{ID: "n1", Date: 1700000000, Subject: "Welcome", Body: "hi"},
		helpers.RepoNewsItem{ID: "n2", Date: 1700086400, Subject: "Patch notes", Body: "fixes"},
	)
	cfgPath := writeConfig(t, repo.Root)

	out, err := run(t, "-c", cfgPath, "news", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Welcome")
	require.Contains(t, out, "2 unread of 2")

	out, err = run(t, "-c", cfgPath, "news", "read", "1")
	require.NoError(t, err)
	require.Contains(t, out, "1 unread of 2")

	out, err = run(t, "-c", cfgPath, "news", "list", "--unread")
	require.NoError(t, err)
	require.NotContains(t, out, "Patch notes")

	_, err = run(t, "-c", cfgPath, "news", "read", "7")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRelocateRejectsUnwritableTarget(t *testing.T) {
	repo := helpers.NewRepo(t).Full()
	cfgPath := writeConfig(t, repo.Root)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	out, err := run(t, "-c", cfgPath, "relocate", filepath.Join(blocker, "nested"))
	require.Error(t, err)
	require.Contains(t, out, "relocation: preflight_rejected")
}
