package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/github"
	"github.com/Cloudsky01/gh-runwatch/internal/poller"
	"github.com/Cloudsky01/gh-runwatch/internal/snapshot"
)

// Config keys, also used as flag binding targets
const (
	KeyRepository            = "repository"
	KeyTokenPath             = "token_path"
	KeyHost                  = "host"
	KeyWorkflow              = "workflow"
	KeyRequestTimeout        = "request_timeout"
	KeyPollInterval          = "poll.interval"
	KeyPollMultiplier        = "poll.multiplier"
	KeyPollMaxInterval       = "poll.max_interval"
	KeyPollMaxAttempts       = "poll.max_attempts"
	KeyPollTimeout           = "poll.timeout"
	KeySnapshotPath          = "snapshot.path"
	KeySnapshotKeepOnFailure = "snapshot.keep_on_failure"
	KeySnapshotDisabled      = "snapshot.disabled"
)

type Config struct {
	Repository     string         `mapstructure:"repository"`
	TokenPath      string         `mapstructure:"token_path"`
	Host           string         `mapstructure:"host"`
	Workflow       string         `mapstructure:"workflow"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Poll           PollConfig     `mapstructure:"poll"`
	Snapshot       SnapshotConfig `mapstructure:"snapshot"`
}

type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Multiplier  float64       `mapstructure:"multiplier"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`

	// Timeout bounds a whole session; 0 means no limit
	Timeout time.Duration `mapstructure:"timeout"`
}

type SnapshotConfig struct {
	Path          string `mapstructure:"path"`
	KeepOnFailure bool   `mapstructure:"keep_on_failure"`
	Disabled      bool   `mapstructure:"disabled"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Host:           github.DefaultHost,
		RequestTimeout: github.DefaultTimeout,
		Poll: PollConfig{
			Interval:    poller.DefaultInterval,
			Multiplier:  poller.DefaultMultiplier,
			MaxInterval: poller.DefaultMaxInterval,
		},
		Snapshot: SnapshotConfig{
			Path:          snapshot.DefaultFileName,
			KeepOnFailure: true,
		},
	}
}

// Backoff returns the poll interval policy. An interval above
// poll.max_interval raises the cap to the interval.
func (c *Config) Backoff() poller.Backoff {
	return poller.Backoff{
		Interval:    c.Poll.Interval,
		Multiplier:  c.Poll.Multiplier,
		MaxInterval: max(c.Poll.MaxInterval, c.Poll.Interval),
	}
}

// SnapshotPath returns where responses are kept, or "" when disabled
func (c *Config) SnapshotPath() string {
	if c.Snapshot.Disabled {
		return ""
	}
	return c.Snapshot.Path
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return &runerr.ConfigError{Op: "validate configuration", Err: fmt.Errorf(format, args...)}
	}

	if c.Repository != "" {
		if err := git.ValidateRepositoryFormat(c.Repository); err != nil {
			return &runerr.ConfigError{Op: "validate configuration", Err: err}
		}
	}
	if c.Host == "" {
		return invalid("%s must not be empty", KeyHost)
	}
	if c.RequestTimeout <= 0 {
		return invalid("%s must be positive, got %s", KeyRequestTimeout, c.RequestTimeout)
	}
	if c.Poll.Interval <= 0 {
		return invalid("%s must be positive, got %s", KeyPollInterval, c.Poll.Interval)
	}
	if c.Poll.Multiplier < 1 {
		return invalid("%s must be at least 1, got %g", KeyPollMultiplier, c.Poll.Multiplier)
	}
	if c.Poll.MaxInterval <= 0 {
		return invalid("%s must be positive, got %s", KeyPollMaxInterval, c.Poll.MaxInterval)
	}
	if c.Poll.MaxAttempts < 0 {
		return invalid("%s must not be negative", KeyPollMaxAttempts)
	}
	if c.Poll.Timeout < 0 {
		return invalid("%s must not be negative", KeyPollTimeout)
	}
	if !c.Snapshot.Disabled && c.Snapshot.Path == "" {
		return invalid("%s must not be empty unless %s is set", KeySnapshotPath, KeySnapshotDisabled)
	}

	return nil
}

// fileConfig is the on-disk shape; durations are written as strings like "20s"
type fileConfig struct {
	Repository     string       `yaml:"repository,omitempty" toml:"repository,omitempty"`
	TokenPath      string       `yaml:"token_path,omitempty" toml:"token_path,omitempty"`
	Host           string       `yaml:"host" toml:"host"`
	Workflow       string       `yaml:"workflow,omitempty" toml:"workflow,omitempty"`
	RequestTimeout string       `yaml:"request_timeout" toml:"request_timeout"`
	Poll           filePoll     `yaml:"poll" toml:"poll"`
	Snapshot       fileSnapshot `yaml:"snapshot" toml:"snapshot"`
}

type filePoll struct {
	Interval    string  `yaml:"interval" toml:"interval"`
	Multiplier  float64 `yaml:"multiplier" toml:"multiplier"`
	MaxInterval string  `yaml:"max_interval" toml:"max_interval"`
	MaxAttempts int     `yaml:"max_attempts" toml:"max_attempts"`
	Timeout     string  `yaml:"timeout" toml:"timeout"`
}

type fileSnapshot struct {
	Path          string `yaml:"path" toml:"path"`
	KeepOnFailure bool   `yaml:"keep_on_failure" toml:"keep_on_failure"`
	Disabled      bool   `yaml:"disabled" toml:"disabled"`
}

func (c *Config) toFile() fileConfig {
	return fileConfig{
		Repository:     c.Repository,
		TokenPath:      c.TokenPath,
		Host:           c.Host,
		Workflow:       c.Workflow,
		RequestTimeout: c.RequestTimeout.String(),
		Poll: filePoll{
			Interval:    c.Poll.Interval.String(),
			Multiplier:  c.Poll.Multiplier,
			MaxInterval: c.Poll.MaxInterval.String(),
			MaxAttempts: c.Poll.MaxAttempts,
			Timeout:     c.Poll.Timeout.String(),
		},
		Snapshot: fileSnapshot{
			Path:          c.Snapshot.Path,
			KeepOnFailure: c.Snapshot.KeepOnFailure,
			Disabled:      c.Snapshot.Disabled,
		},
	}
}

// Render encodes the configuration as "yaml" or "toml"
func (c *Config) Render(format string) ([]byte, error) {
	fc := c.toFile()

	switch format {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fc); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return buf.Bytes(), nil
	case "toml":
		data, err := toml.Marshal(fc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	default:
		return nil, &runerr.UsageError{Err: fmt.Errorf("unsupported format %q (want yaml or toml)", format)}
	}
}

const fileHeader = `# runwatch configuration
#
# Settings are merged from, lowest to highest precedence:
#   .github/.runwatch.yaml          shared repository defaults
#   ~/.config/runwatch/config.yaml  user config
#   .git/runwatch/config.yaml       per-project user config
#   RUNWATCH_* environment variables (e.g. RUNWATCH_POLL_INTERVAL=30s)
#   command line flags
#
# - repository: owner/repo to watch; detected from git when empty
# - token_path: file holding a GitHub token (default: $GITHUB_TOKEN_PATH)
# - workflow: only watch runs whose name matches this filter
# - poll.interval: wait between checks; poll.multiplier > 1 backs off up to poll.max_interval
# - poll.timeout: give up after this long (0 = never)
# - snapshot.path: last raw API response, kept on failure when snapshot.keep_on_failure is true
#
# Run 'runwatch --help' for more information

`

// Save writes the configuration as commented yaml
func (c *Config) Save(path string) error {
	data, err := c.Render("yaml")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(fileHeader+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
