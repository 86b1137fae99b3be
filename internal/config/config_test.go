package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("repository:\n  default_path: /srv/repo\n"))
	require.NoError(t, err)

	require.Equal(t, DefaultAppName, cfg.AppName)
	require.Equal(t, DefaultExecutable, cfg.Repository.Executable)
	require.Equal(t, DefaultRunDir, cfg.Repository.RunDir)
	require.Equal(t, RetryBackoffExponential, cfg.Probe.Retry.Mode)
	require.Equal(t, DefaultPollInterval, cfg.PollInterval())
	require.Equal(t, DefaultPollDebounce, cfg.PollDebounce())
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("CATALOG_REPO", "/mnt/games")
	cfg, err := Parse([]byte("repository:\n  default_path: ${CATALOG_REPO}\n"))
	require.NoError(t, err)
	require.Equal(t, "/mnt/games", cfg.Repository.DefaultPath)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad interval", "poll:\n  interval: soon\n"},
		{"negative interval", "poll:\n  interval: -5m\n"},
		{"bad cron", "poll:\n  schedule: \"every hour\"\n"},
		{"unknown retry mode", "probe:\n  retry:\n    mode: random\n"},
		{"absolute run dir", "repository:\n  run_dir: /opt/run\n"},
		{"escaping run dir", "repository:\n  run_dir: ../run\n"},
		{"executable with path", "repository:\n  executable: bin/app\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParse_NotifySubjectDefault(t *testing.T) {
	cfg, err := Parse([]byte("notify:\n  nats_url: nats://127.0.0.1:4222\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultNATSSubject, cfg.Notify.Subject)
}

func TestRetryDurations(t *testing.T) {
	initial, maxDelay := RetryConfig{Initial: "2s", Max: "1m"}.RetryDurations()
	require.Equal(t, 2*time.Second, initial)
	require.Equal(t, time.Minute, maxDelay)

	initial, maxDelay = RetryConfig{}.RetryDurations()
	require.Zero(t, initial)
	require.Zero(t, maxDelay)
}

func TestInitAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "second init without force must fail")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "state"), cfg.StateDir)
	require.True(t, cfg.Poll.Watch)
	require.Equal(t, 15*time.Minute, cfg.PollInterval())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadDisplay(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadDisplay(filepath.Join(dir, DisplayFileName))
	require.NoError(t, err)
	require.Equal(t, DefaultDisplay(), cfg)

	path := filepath.Join(dir, DisplayFileName)
	require.NoError(t, os.WriteFile(path, []byte("show_demos: false\n"), 0o644))
	cfg, err = LoadDisplay(path)
	require.NoError(t, err)
	require.False(t, cfg.ShowDemos)
	require.True(t, cfg.ShowRatings)

	require.NoError(t, os.WriteFile(path, []byte("show_demos: [\n"), 0o644))
	_, err = LoadDisplay(path)
	require.Error(t, err)
}

func TestNormalizeRetryBackoff(t *testing.T) {
	require.Equal(t, RetryBackoffLinear, NormalizeRetryBackoff(" Linear "))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("zigzag"))
}
