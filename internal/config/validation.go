package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

func validateConfig(cfg *Config) error {
	if cfg.Poll.Interval != "" {
		d, err := time.ParseDuration(cfg.Poll.Interval)
		if err != nil {
			return fmt.Errorf("invalid poll.interval %q: %w", cfg.Poll.Interval, err)
		}
		if d <= 0 {
			return fmt.Errorf("poll.interval must be positive, got %s", cfg.Poll.Interval)
		}
	}
	if s := cfg.Poll.Schedule; s != "" {
		if len(strings.Fields(s)) != 5 {
			return fmt.Errorf("invalid poll.schedule %q: expected 5 cron fields", s)
		}
	}
	if cfg.Probe.Retry.Mode == "" {
		return fmt.Errorf("invalid probe.retry.mode")
	}
	if cfg.Probe.Retry.MaxRetries < 0 {
		return fmt.Errorf("probe.retry.max_retries cannot be negative")
	}
	if filepath.IsAbs(cfg.Repository.RunDir) || strings.HasPrefix(filepath.Clean(cfg.Repository.RunDir), "..") {
		return fmt.Errorf("repository.run_dir must be relative to the repository root, got %q", cfg.Repository.RunDir)
	}
	if strings.ContainsRune(cfg.Repository.Executable, filepath.Separator) {
		return fmt.Errorf("repository.executable must be a file name, got %q", cfg.Repository.Executable)
	}
	return nil
}
