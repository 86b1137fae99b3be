package config

import "time"

const (
	DefaultAppName      = "catalogmirror"
	DefaultStateDir     = "./state"
	DefaultExecutable   = "catalogmirror"
	DefaultRunDir       = "run/1"
	DefaultPollInterval = 15 * time.Minute
	DefaultPollDebounce = 2 * time.Second
	DefaultNATSSubject  = "catalogmirror.display"
)

func applyDefaults(cfg *Config) {
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir
	}
	if cfg.Repository.Executable == "" {
		cfg.Repository.Executable = DefaultExecutable
	}
	if cfg.Repository.RunDir == "" {
		cfg.Repository.RunDir = DefaultRunDir
	}
	if cfg.Probe.Retry.Mode == "" {
		cfg.Probe.Retry.Mode = RetryBackoffExponential
	} else {
		cfg.Probe.Retry.Mode = NormalizeRetryBackoff(string(cfg.Probe.Retry.Mode))
	}
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNATSSubject
	}
}
