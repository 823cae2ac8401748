package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Cloudsky01/gh-runwatch/internal/credential"
	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/internal/paths"
)

// EnvPrefix prefixes environment overrides, e.g. RUNWATCH_POLL_INTERVAL
const EnvPrefix = "RUNWATCH"

// Loader merges the config layers into one Config
type Loader struct {
	paths  *paths.Paths
	logger *log.Logger

	// explicit is an extra file given on the command line; it wins over every other file
	explicit string

	flags map[string]*pflag.Flag
	files []string
	v     *viper.Viper
}

func NewLoader(p *paths.Paths, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		paths:  p,
		logger: logger,
		flags:  make(map[string]*pflag.Flag),
	}
}

// SetExplicitFile adds path as the highest precedence config file
func (l *Loader) SetExplicitFile(path string) {
	l.explicit = path
}

// BindFlag lets a command line flag override key
func (l *Loader) BindFlag(key string, flag *pflag.Flag) {
	if flag != nil {
		l.flags[key] = flag
	}
}

// Files returns the config files merged by the last Load
func (l *Loader) Files() []string {
	return l.files
}

func (l *Loader) newViper() (*viper.Viper, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyRepository, def.Repository)
	v.SetDefault(KeyTokenPath, def.TokenPath)
	v.SetDefault(KeyHost, def.Host)
	v.SetDefault(KeyWorkflow, def.Workflow)
	v.SetDefault(KeyRequestTimeout, def.RequestTimeout)
	v.SetDefault(KeyPollInterval, def.Poll.Interval)
	v.SetDefault(KeyPollMultiplier, def.Poll.Multiplier)
	v.SetDefault(KeyPollMaxInterval, def.Poll.MaxInterval)
	v.SetDefault(KeyPollMaxAttempts, def.Poll.MaxAttempts)
	v.SetDefault(KeyPollTimeout, def.Poll.Timeout)
	v.SetDefault(KeySnapshotPath, def.Snapshot.Path)
	v.SetDefault(KeySnapshotKeepOnFailure, def.Snapshot.KeepOnFailure)
	v.SetDefault(KeySnapshotDisabled, def.Snapshot.Disabled)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyTokenPath, EnvPrefix+"_TOKEN_PATH", credential.EnvTokenPath); err != nil {
		return nil, err
	}

	for key, flag := range l.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	return v, nil
}

func (l *Loader) layerFiles() []string {
	var files []string
	if l.paths != nil {
		files = append(files, l.paths.GetConfigPaths()...)
	}
	if l.explicit != "" {
		files = append(files, l.explicit)
	}
	return files
}

// Load merges defaults, config files, environment and flags
func (l *Loader) Load() (*Config, error) {
	v, err := l.newViper()
	if err != nil {
		return nil, &runerr.ConfigError{Op: "load configuration", Err: err}
	}

	var merged []string
	for _, path := range l.layerFiles() {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, &runerr.ConfigError{Op: "read config file " + path, Err: err}
		}
		l.logger.Debug("config file merged", "path", path, "source", l.sourceOf(path))
		merged = append(merged, path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &runerr.ConfigError{Op: "parse configuration", Err: err}
	}

	l.v = v
	l.files = merged
	return &cfg, nil
}

func (l *Loader) sourceOf(path string) paths.ConfigSource {
	if l.paths == nil {
		return paths.SourceUnknown
	}
	return l.paths.GetConfigSource(path)
}

// Watch calls onChange with the fully re-merged configuration whenever the
// highest precedence config file changes. It needs a prior Load that found
// at least one file and reports whether watching started.
func (l *Loader) Watch(onChange func(*Config)) bool {
	if l.v == nil || len(l.files) == 0 {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		reloader := &Loader{paths: l.paths, logger: l.logger, explicit: l.explicit, flags: l.flags}
		cfg, err := reloader.Load()
		if err != nil {
			l.logger.Warn("error reloading config", "err", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			l.logger.Warn("ignoring invalid config change", "err", err)
			return
		}

		l.logger.Debug("config reloaded", "path", e.Name)
		onChange(cfg)
	})
	l.v.WatchConfig()

	return true
}
