package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runwatch/internal/config"
	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// printError writes err and a hint for it. A cancelled watch is not a
// failure of the tool and is reported as stopped.
func printError(w io.Writer, err error) {
	if !runerr.IsFatal(err) && runerr.ExitCode(err) == runerr.ExitCancelled {
		fmt.Fprintln(w, warnStyle.Render("Stopped: "+err.Error()))
		return
	}

	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(w, hintStyle.Render(hint))
	}
}

// hintFor suggests a fix for common failures
func hintFor(err error) string {
	var transportErr *runerr.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.StatusCode {
		case http.StatusUnauthorized:
			return "Check that the token in GITHUB_TOKEN_PATH is valid and not expired."
		case http.StatusForbidden:
			return "The token may lack the actions:read scope, or the API rate limit is exhausted."
		case http.StatusNotFound:
			return "Check the repository name and that the token can read it."
		}
		return ""
	}

	var cfgErr *runerr.ConfigError
	if errors.As(err, &cfgErr) {
		switch {
		case strings.Contains(cfgErr.Op, "token"):
			return "Point GITHUB_TOKEN_PATH (or token_path in the config) at a file containing a GitHub token."
		case strings.Contains(cfgErr.Op, "repository"):
			return "Run inside a clone of the repository, or pass it: runwatch owner name"
		}
		return ""
	}

	var usageErr *runerr.UsageError
	if errors.As(err, &usageErr) {
		return "Run 'runwatch --help' for usage."
	}

	return ""
}

// printInitSummary reports a written config file. fallback marks a file that
// went to the temp directory because the user config directory was not writable.
func printInitSummary(w io.Writer, configPath string, cfg *config.Config, fallback bool) {
	divider := dividerStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, successStyle.Render("✅ Configuration created successfully!"))
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)

	repository := cfg.Repository
	if repository == "" {
		repository = "(detected from git)"
	}

	fmt.Fprintln(w, labelStyle.Render("📁 Config file: ")+infoStyle.Render(configPath))
	fmt.Fprintln(w, labelStyle.Render("📦 Repository:  ")+infoStyle.Render(repository))
	fmt.Fprintln(w, labelStyle.Render("⏱  Interval:    ")+infoStyle.Render(cfg.Poll.Interval.String()))

	if fallback {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnStyle.Render("⚠  The config directory was not writable, so this file is in a temporary"))
		fmt.Fprintln(w, warnStyle.Render("   directory and may not survive a reboot. Set XDG_CONFIG_HOME to keep it."))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("🚀 Next steps:"))
	fmt.Fprintln(w, infoStyle.Render("   runwatch              # Wait for the latest run"))
	fmt.Fprintln(w, infoStyle.Render("   runwatch config show  # See the merged configuration"))
	fmt.Fprintln(w)
}
