package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	AppName    string           `yaml:"app_name"`
	StateDir   string           `yaml:"state_dir"`
	Repository RepositoryConfig `yaml:"repository"`
	Poll       PollConfig       `yaml:"poll"`
	Probe      ProbeConfig      `yaml:"probe"`
	Admin      AdminConfig      `yaml:"admin"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// RepositoryConfig describes where the local mirror lives and how to relaunch from it.
type RepositoryConfig struct {
	// DefaultPath is used until a stored location exists in the state directory.
	DefaultPath string `yaml:"default_path"`
	// Executable is the program file name inside RunDir.
	Executable string `yaml:"executable"`
	// RunDir is the runtime payload directory relative to the repository root.
	RunDir string `yaml:"run_dir"`
}

// PollConfig controls how often the coordinator reacts to update signals.
type PollConfig struct {
	Interval string `yaml:"interval"`           // Go duration, e.g. "15m"
	Schedule string `yaml:"schedule,omitempty"` // Cron expression, overrides Interval
	Watch    bool   `yaml:"watch"`              // Poll early when repository data changes on disk
	Debounce string `yaml:"debounce,omitempty"`
}

// ProbeConfig controls the version probe.
type ProbeConfig struct {
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig holds the raw retry settings for transient probe failures.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode"`
	Initial    string           `yaml:"initial"`
	Max        string           `yaml:"max"`
	MaxRetries int              `yaml:"max_retries"`
}

// AdminConfig configures the optional admin HTTP endpoint (status, metrics, actions).
type AdminConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// NotifyConfig configures forwarding of display notifications to NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Missing .env files are normal.
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.StateDir) {
		cfg.StateDir = filepath.Join(filepath.Dir(configPath), cfg.StateDir)
	}
	return cfg, nil
}

// Parse decodes YAML content with environment expansion, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PollInterval returns the parsed poll interval.
func (c *Config) PollInterval() time.Duration {
	return parseDurationOr(c.Poll.Interval, DefaultPollInterval)
}

// PollDebounce returns the parsed watch debounce delay.
func (c *Config) PollDebounce() time.Duration {
	return parseDurationOr(c.Poll.Debounce, DefaultPollDebounce)
}

// RetryDurations returns the parsed initial and max retry delays (zero when unset).
func (r RetryConfig) RetryDurations() (initial, maxDelay time.Duration) {
	return parseDurationOr(r.Initial, 0), parseDurationOr(r.Max, 0)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		AppName:  DefaultAppName,
		StateDir: DefaultStateDir,
		Repository: RepositoryConfig{
			DefaultPath: "./repository",
			Executable:  DefaultExecutable,
			RunDir:      DefaultRunDir,
		},
		Poll: PollConfig{Interval: "15m", Watch: true},
		Probe: ProbeConfig{Retry: RetryConfig{
			Mode: RetryBackoffExponential, Initial: "1s", Max: "30s", MaxRetries: 2,
		}},
		Admin: AdminConfig{Listen: "127.0.0.1:7788"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
