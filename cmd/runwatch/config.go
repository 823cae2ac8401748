package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runwatch/internal/config"
	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/paths"
	"github.com/Cloudsky01/gh-runwatch/internal/prompt"
)

type initLocation string

const (
	initLocationUser    initLocation = "user"
	initLocationProject initLocation = "project"
	initLocationRepo    initLocation = "repo"
)

var (
	showFormat string
	initForce  bool
	initWhere  string

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage runwatch configuration",
		Long: `Manage runwatch configuration files.

Configuration Locations:
  Repo default:    .github/.runwatch.yaml (team-shared defaults, optional)
  User config:     ~/.config/runwatch/config.yaml (user-specific settings)
  Project user:    .git/runwatch/config.yaml (per-project user overrides)

Configuration Precedence (lowest to highest):
  1. Repository default
  2. User global config
  3. Project user config
  4. --config file
  5. Environment variables (RUNWATCH_*, GITHUB_TOKEN_PATH)
  6. CLI flags`,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Long:  `Display the paths to all configuration files and their existence status.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display merged configuration",
		Long:  `Show the effective configuration after merging all sources, as yaml or toml.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `Write a commented configuration file with the default settings.

--location selects the file: "user" (default), "project" for the private
per-project file under .git, or "repo" for the shared .github file. Project
and repo files are pre-filled with the repository detected from git.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "Output format: yaml or toml")

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file without asking")
	configInitCmd.Flags().StringVarP(&initWhere, "location", "l", string(initLocationUser), "Where to write: user, project or repo")
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	out := cmd.OutOrStdout()

	p, err := newPaths(logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configuration File Locations")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "User Config:        %s %s\n", p.UserConfigFile(), existsIndicator(fileExists(p.UserConfigFile())))

	if p.ProjectRoot != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Project Root:       %s\n", p.ProjectRoot)
		fmt.Fprintf(out, "Repo Default:       %s %s\n", p.RepoDefaultConfigPath, existsIndicator(fileExists(p.RepoDefaultConfigPath)))
		fmt.Fprintf(out, "Project User:       %s %s\n", p.ProjectUserConfigPath, existsIndicator(fileExists(p.ProjectUserConfigPath)))
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Not inside a git repository: project config files are not used.")
	}

	if configFile != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "--config:           %s %s\n", configFile, existsIndicator(fileExists(configFile)))
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, err := newPaths(logger)
	if err != nil {
		return err
	}

	loader := newLoader(p, logger)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn("merged configuration is invalid", "err", err)
	}

	data, err := cfg.Render(showFormat)
	if err != nil {
		return err
	}

	writeShowOutput(cmd.OutOrStdout(), p, loader.Files(), data)
	return nil
}

// writeShowOutput prints data preceded by comment lines naming the merged
// files, so the output stays valid yaml or toml
func writeShowOutput(w io.Writer, p *paths.Paths, files []string, data []byte) {
	if len(files) == 0 {
		fmt.Fprintln(w, "# no config files found, showing defaults with environment and flags applied")
	} else {
		fmt.Fprintln(w, "# merged from (lowest to highest precedence):")
		for _, path := range files {
			fmt.Fprintf(w, "#   %s (%s)\n", path, p.GetConfigSource(path))
		}
	}
	fmt.Fprintln(w)
	w.Write(data)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, err := newPaths(logger)
	if err != nil {
		return err
	}

	location := initLocation(initWhere)
	if location == "" {
		location = initLocationUser
	}
	target, err := determineInitTarget(p, location)
	if err != nil {
		return err
	}

	if fileExists(target) && !initForce {
		if !prompt.IsTTY() {
			return &runerr.ConfigError{
				Op:  "write config",
				Err: fmt.Errorf("configuration file %s already exists. Use --force to overwrite", target),
			}
		}

		overwrite := false
		if err := prompt.AskConfirm(
			"Configuration already exists",
			fmt.Sprintf("Overwrite %s?", target),
			&overwrite,
		); err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Nothing written."))
			return nil
		}
	}

	cfg := config.Default()
	if location != initLocationUser {
		if detected, err := git.DetectRepository(); err == nil {
			cfg.Repository = detected
		} else {
			logger.Debug("repository not detected", "err", err)
		}
	}

	if location == initLocationUser {
		if err := p.EnsureDirs(); err != nil {
			return &runerr.ConfigError{Op: "create config directory", Err: err}
		}
		target = p.UserConfigFile()
	}

	if err := cfg.Save(target); err != nil {
		return &runerr.ConfigError{Op: "write config", Err: err}
	}

	printInitSummary(cmd.OutOrStdout(), target, cfg, p.UsingFallback())
	return nil
}

// determineInitTarget returns the file config init writes for location
func determineInitTarget(p *paths.Paths, location initLocation) (string, error) {
	switch location {
	case initLocationUser:
		return p.UserConfigFile(), nil
	case initLocationProject:
		if p.ProjectUserConfigPath == "" {
			return "", &runerr.ConfigError{Op: "write config", Err: errors.New("project config requires a git repository")}
		}
		return p.ProjectUserConfigPath, nil
	case initLocationRepo:
		if p.RepoDefaultConfigPath == "" {
			return "", &runerr.ConfigError{Op: "write config", Err: errors.New("repo config requires a git repository")}
		}
		return p.RepoDefaultConfigPath, nil
	default:
		return "", &runerr.UsageError{Err: fmt.Errorf("unknown location %q (want user, project or repo)", location)}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func existsIndicator(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
