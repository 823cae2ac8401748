package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	AppName = "runwatch"

	// ConfigFileName is the name of the user and project config files
	ConfigFileName = "config.yaml"

	// RepoConfigFileName is the committed, shared config under .github
	RepoConfigFileName = ".runwatch.yaml"
)

// ConfigSource indicates which layer a config file belongs to
type ConfigSource int

const (
	SourceRepoDefault ConfigSource = iota
	SourceUserConfig
	SourceProjectConfig
	SourceUnknown
)

func (s ConfigSource) String() string {
	switch s {
	case SourceUserConfig:
		return "user config"
	case SourceProjectConfig:
		return "project config"
	case SourceRepoDefault:
		return "repository default"
	default:
		return "unknown"
	}
}

// Paths locates config files following the XDG Base Directory layout
type Paths struct {
	// UserConfigDir is the user's config directory (~/.config/runwatch)
	UserConfigDir string

	// ProjectRoot is the root of the current git repository, if any
	ProjectRoot string

	// RepoDefaultConfigPath is the shared config committed to the repository (.github/.runwatch.yaml)
	RepoDefaultConfigPath string

	// ProjectUserConfigPath is the user's private per-project config (.git/runwatch/config.yaml)
	ProjectUserConfigPath string

	Logger *log.Logger

	usingFallback bool
}

// New resolves the user config directory
func New() (*Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}

	return &Paths{
		UserConfigDir: filepath.Join(configDir, AppName),
		Logger:        log.Default(),
	}, nil
}

// NewWithProject also resolves the per-project config locations under projectRoot
func NewWithProject(projectRoot string) (*Paths, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}

	if projectRoot == "" {
		return p, nil
	}

	p.ProjectRoot = projectRoot
	p.RepoDefaultConfigPath = filepath.Join(projectRoot, ".github", RepoConfigFileName)
	p.ProjectUserConfigPath = filepath.Join(projectRoot, ".git", AppName, ConfigFileName)

	return p, nil
}

// UserConfigFile returns the path to the user's global config file
func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.UserConfigDir, ConfigFileName)
}

// UsingFallback reports whether the config dir was moved to the temp directory
func (p *Paths) UsingFallback() bool {
	return p.usingFallback
}

// EnsureDirs creates the config directories with permission 0700. The user
// config directory falls back to the temp directory on a permission error;
// a failing project directory is only logged.
func (p *Paths) EnsureDirs() error {
	if err := os.MkdirAll(p.UserConfigDir, 0700); err != nil {
		if !os.IsPermission(err) {
			return fmt.Errorf("failed to create config directory %s: %w", p.UserConfigDir, err)
		}
		if fbErr := p.useFallback(err); fbErr != nil {
			return fbErr
		}
	}

	if p.ProjectUserConfigPath != "" {
		dir := filepath.Dir(p.ProjectUserConfigPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			p.Logger.Warn("could not create project config directory", "path", dir, "err", err)
		}
	}

	return nil
}

func (p *Paths) useFallback(cause error) error {
	fallback := filepath.Join(os.TempDir(), AppName+"-config")
	if err := os.MkdirAll(fallback, 0700); err != nil {
		parent := filepath.Dir(p.UserConfigDir)
		return fmt.Errorf(
			"permission denied: cannot create config directory %s\n\n"+
				"Possible solutions:\n"+
				"  1. Fix permissions: sudo chown -R $USER %s\n"+
				"  2. Set a custom location: export XDG_CONFIG_HOME=/tmp/%s-config\n\n"+
				"Original error: %v",
			p.UserConfigDir, parent, AppName, cause)
	}

	p.Logger.Warn("using fallback config directory", "path", fallback, "denied", p.UserConfigDir)
	p.UserConfigDir = fallback
	p.usingFallback = true
	return nil
}

// GetConfigPaths returns the existing config files from lowest to highest precedence
func (p *Paths) GetConfigPaths() []string {
	candidates := []string{
		p.RepoDefaultConfigPath,
		p.UserConfigFile(),
		p.ProjectUserConfigPath,
	}

	var found []string
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, path)
		}
	}

	return found
}

// GetConfigSource determines which layer a config path belongs to
func (p *Paths) GetConfigSource(path string) ConfigSource {
	switch {
	case path == "":
		return SourceUnknown
	case path == p.UserConfigFile():
		return SourceUserConfig
	case path == p.ProjectUserConfigPath:
		return SourceProjectConfig
	case path == p.RepoDefaultConfigPath:
		return SourceRepoDefault
	default:
		return SourceUnknown
	}
}
