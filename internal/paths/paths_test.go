package paths

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if p.UserConfigDir == "" {
		t.Error("UserConfigDir should not be empty")
	}

	if !strings.Contains(p.UserConfigDir, AppName) {
		t.Errorf("UserConfigDir should contain '%s', got: %s", AppName, p.UserConfigDir)
	}

	if p.ProjectUserConfigPath != "" || p.RepoDefaultConfigPath != "" {
		t.Error("project paths should be empty without a project root")
	}
}

func TestNewWithProject(t *testing.T) {
	projectRoot := "/path/to/project"
	p, err := NewWithProject(projectRoot)
	if err != nil {
		t.Fatalf("NewWithProject() failed: %v", err)
	}

	if p.ProjectRoot != projectRoot {
		t.Errorf("ProjectRoot = %s, want %s", p.ProjectRoot, projectRoot)
	}

	expectedRepoDefault := filepath.Join(projectRoot, ".github", RepoConfigFileName)
	if p.RepoDefaultConfigPath != expectedRepoDefault {
		t.Errorf("RepoDefaultConfigPath = %s, want %s", p.RepoDefaultConfigPath, expectedRepoDefault)
	}

	expectedProjectUser := filepath.Join(projectRoot, ".git", AppName, ConfigFileName)
	if p.ProjectUserConfigPath != expectedProjectUser {
		t.Errorf("ProjectUserConfigPath = %s, want %s", p.ProjectUserConfigPath, expectedProjectUser)
	}
}

func TestNewWithEmptyProject(t *testing.T) {
	p, err := NewWithProject("")
	if err != nil {
		t.Fatalf("NewWithProject() failed: %v", err)
	}

	if p.ProjectUserConfigPath != "" {
		t.Errorf("ProjectUserConfigPath = %s, want empty", p.ProjectUserConfigPath)
	}
}

func TestUserConfigFile(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	configFile := p.UserConfigFile()
	if !strings.HasSuffix(configFile, ConfigFileName) {
		t.Errorf("UserConfigFile should end with '%s', got: %s", ConfigFileName, configFile)
	}
}

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	p := &Paths{
		UserConfigDir:         filepath.Join(tmpDir, "config", AppName),
		ProjectRoot:           filepath.Join(tmpDir, "project"),
		ProjectUserConfigPath: filepath.Join(tmpDir, "project", ".git", AppName, ConfigFileName),
		Logger:                log.New(io.Discard),
	}

	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() failed: %v", err)
	}

	for _, dir := range []string{p.UserConfigDir, filepath.Join(p.ProjectRoot, ".git", AppName)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Directory %s was not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	if p.UsingFallback() {
		t.Error("UsingFallback() = true for a writable directory")
	}
}

func TestGetConfigPaths(t *testing.T) {
	tmpDir := t.TempDir()
	projectRoot := filepath.Join(tmpDir, "project")

	userConfigDir := filepath.Join(tmpDir, "config")
	userConfigPath := filepath.Join(userConfigDir, ConfigFileName)
	repoDefaultPath := filepath.Join(projectRoot, ".github", RepoConfigFileName)
	projectUserPath := filepath.Join(projectRoot, ".git", AppName, ConfigFileName)

	for _, dir := range []string{userConfigDir, filepath.Join(projectRoot, ".github"), filepath.Join(projectRoot, ".git", AppName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	for _, path := range []string{userConfigPath, repoDefaultPath, projectUserPath} {
		if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
			t.Fatalf("Failed to create config file %s: %v", path, err)
		}
	}

	p := &Paths{
		UserConfigDir:         userConfigDir,
		ProjectRoot:           projectRoot,
		RepoDefaultConfigPath: repoDefaultPath,
		ProjectUserConfigPath: projectUserPath,
	}

	paths := p.GetConfigPaths()

	expectedOrder := []string{repoDefaultPath, userConfigPath, projectUserPath}
	if len(paths) != len(expectedOrder) {
		t.Fatalf("GetConfigPaths() returned %d paths, want %d", len(paths), len(expectedOrder))
	}
	for i, expected := range expectedOrder {
		if paths[i] != expected {
			t.Errorf("GetConfigPaths()[%d] = %s, want %s", i, paths[i], expected)
		}
	}
}

func TestGetConfigPathsSkipsMissing(t *testing.T) {
	tmpDir := t.TempDir()
	userConfigDir := filepath.Join(tmpDir, "config")
	if err := os.MkdirAll(userConfigDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userConfigDir, ConfigFileName), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	p := &Paths{
		UserConfigDir:         userConfigDir,
		RepoDefaultConfigPath: filepath.Join(tmpDir, "missing.yaml"),
	}

	paths := p.GetConfigPaths()
	if len(paths) != 1 || paths[0] != p.UserConfigFile() {
		t.Errorf("GetConfigPaths() = %v, want only the user config", paths)
	}
}

func TestGetConfigSource(t *testing.T) {
	p := &Paths{
		UserConfigDir:         "/home/user/.config/runwatch",
		ProjectRoot:           "/project",
		RepoDefaultConfigPath: "/project/.github/.runwatch.yaml",
		ProjectUserConfigPath: "/project/.git/runwatch/config.yaml",
	}

	tests := []struct {
		name string
		path string
		want ConfigSource
	}{
		{
			name: "user config",
			path: "/home/user/.config/runwatch/config.yaml",
			want: SourceUserConfig,
		},
		{
			name: "project user config",
			path: "/project/.git/runwatch/config.yaml",
			want: SourceProjectConfig,
		},
		{
			name: "repo default",
			path: "/project/.github/.runwatch.yaml",
			want: SourceRepoDefault,
		},
		{
			name: "unknown",
			path: "/some/random/path",
			want: SourceUnknown,
		},
		{
			name: "empty",
			path: "",
			want: SourceUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.GetConfigSource(tt.path)
			if got != tt.want {
				t.Errorf("GetConfigSource(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestConfigSourceString(t *testing.T) {
	tests := []struct {
		source ConfigSource
		want   string
	}{
		{SourceUserConfig, "user config"},
		{SourceProjectConfig, "project config"},
		{SourceRepoDefault, "repository default"},
		{SourceUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.source.String()
			if got != tt.want {
				t.Errorf("ConfigSource.String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestXDGCompliance(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG layout only applies to Linux and BSDs")
	}

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	p, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	expected := filepath.Join(configHome, AppName)
	if p.UserConfigDir != expected {
		t.Errorf("UserConfigDir = %s, want %s", p.UserConfigDir, expected)
	}
}
