package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runwatch/internal/config"
	"github.com/Cloudsky01/gh-runwatch/internal/credential"
	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/github"
	"github.com/Cloudsky01/gh-runwatch/internal/paths"
	"github.com/Cloudsky01/gh-runwatch/internal/poller"
	"github.com/Cloudsky01/gh-runwatch/internal/prompt"
	"github.com/Cloudsky01/gh-runwatch/internal/report"
	"github.com/Cloudsky01/gh-runwatch/internal/snapshot"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile  string
	debug       bool
	noColor     bool
	plain       bool
	copyURL     bool
	watchConfig bool

	rootCmd = &cobra.Command{
		Use:   "runwatch [owner] [name]",
		Short: "Wait for the latest GitHub Actions run of a repository to finish",
		Long: `runwatch blocks until the most recent GitHub Actions workflow run of a
repository completes, then prints its conclusion, duration and end time
along with the remaining API quota.

The repository is taken from the arguments ("owner name" or "owner/name"),
the configured repository, GH_REPO, or the origin remote of the current
git repository.

The GitHub token is read from the file named by GITHUB_TOKEN_PATH
(or the token_path setting).

Exit codes:
  0    the run reached a terminal state
  1    configuration, network or response error
  2    invalid flags or arguments
  130  interrupted or timed out`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// flagKeys maps command line flags to the config keys they override
var flagKeys = map[string]string{
	"repo":            config.KeyRepository,
	"token-path":      config.KeyTokenPath,
	"host":            config.KeyHost,
	"workflow":        config.KeyWorkflow,
	"request-timeout": config.KeyRequestTimeout,
	"interval":        config.KeyPollInterval,
	"backoff":         config.KeyPollMultiplier,
	"max-interval":    config.KeyPollMaxInterval,
	"max-attempts":    config.KeyPollMaxAttempts,
	"timeout":         config.KeyPollTimeout,
	"snapshot":        config.KeySnapshotPath,
	"keep-snapshot":   config.KeySnapshotKeepOnFailure,
	"no-snapshot":     config.KeySnapshotDisabled,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (runWatch -> loadConfig -> newLoader -> rootCmd).
	rootCmd.RunE = runWatch

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Additional config file, applied over all other config files")
	pf.BoolVarP(&debug, "debug", "d", false, "Log every attempt, wait and HTTP status to stderr")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output (also honours NO_COLOR)")

	f := rootCmd.Flags()
	f.StringP("repo", "r", "", "Repository in OWNER/REPO format (overridden by positional arguments)")
	f.String("token-path", "", "File containing the GitHub token (default: $GITHUB_TOKEN_PATH)")
	f.String("host", "", "GitHub host, for GitHub Enterprise Server")
	f.StringP("workflow", "w", "", "Only watch runs whose workflow name matches this filter")
	f.Duration("request-timeout", 0, "Timeout of a single API request")
	f.DurationP("interval", "i", 0, "Wait between checks (default 20s)")
	f.Float64("backoff", 0, "Multiply the wait by this factor after each check (default 1)")
	f.Duration("max-interval", 0, "Upper bound of the wait when backing off (default 5m)")
	f.Int("max-attempts", 0, "Give up after this many checks (default unlimited)")
	f.DurationP("timeout", "t", 0, "Give up after this long (default unlimited)")
	f.String("snapshot", "", "Where to keep the last API response (default .workflow.json)")
	f.Bool("keep-snapshot", false, "Keep the last API response when the watch fails (default true)")
	f.Bool("no-snapshot", false, "Do not write the last API response to disk")

	f.BoolVar(&plain, "plain", false, "Print plain progress lines instead of the live view")
	f.BoolVar(&copyURL, "copy", false, "Copy the run URL to the clipboard when done")
	f.BoolVar(&watchConfig, "watch-config", false, "Apply poll.interval changes from the config file while waiting")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &runerr.UsageError{Err: err}
	})
	rootCmd.SetVersionTemplate(fmt.Sprintf("runwatch %s (commit %s, built %s)\n", version, commit, date))
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "runwatch",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
	return logger
}

func newPaths(logger *log.Logger) (*paths.Paths, error) {
	projectRoot, _ := git.RepositoryRoot()

	p, err := paths.NewWithProject(projectRoot)
	if err != nil {
		return nil, &runerr.ConfigError{Op: "locate config files", Err: err}
	}
	p.Logger = logger
	return p, nil
}

func newLoader(p *paths.Paths, logger *log.Logger) *config.Loader {
	loader := config.NewLoader(p, logger)
	loader.SetExplicitFile(configFile)
	for name, key := range flagKeys {
		loader.BindFlag(key, rootCmd.Flags().Lookup(name))
	}
	return loader
}

func loadConfig(logger *log.Logger) (*config.Config, *config.Loader, error) {
	p, err := newPaths(logger)
	if err != nil {
		return nil, nil, err
	}

	loader := newLoader(p, logger)
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, loader, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	styled := report.ConfigureColor(noColor) && prompt.IsTerminal(os.Stdout)

	cfg, loader, err := loadConfig(logger)
	if err != nil {
		return err
	}

	token, err := credential.Load(cfg.TokenPath)
	if err != nil {
		return err
	}

	locator := git.NewLocator(cfg.Repository)
	locator.Logger = logger
	if prompt.IsTTY() {
		locator.Prompt = prompt.AskRepository
	}

	repo, err := locator.Locate(args)
	if err != nil {
		return err
	}

	store := snapshot.New(cfg.SnapshotPath(), logger)

	client, err := github.NewClient(github.Options{
		Host:           cfg.Host,
		Token:          token,
		Timeout:        cfg.RequestTimeout,
		UserAgent:      "gh-runwatch/" + version,
		WorkflowFilter: cfg.Workflow,
		Snapshots:      store,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	logger.Debug("github client ready", "host", client.GetHost(), "timeout", client.GetTimeout(), "repo", repo.FullName())

	p := poller.New(client, poller.Options{
		Backoff:     cfg.Backoff(),
		MaxAttempts: cfg.Poll.MaxAttempts,
		Logger:      logger,
	})

	if watchConfig {
		watching := loader.Watch(func(updated *config.Config) {
			if updated.Poll.Interval != p.Interval() {
				logger.Info("poll interval changed", "interval", updated.Poll.Interval)
				p.SetInterval(updated.Poll.Interval)
			}
		})
		if !watching {
			logger.Warn("--watch-config has no effect without a config file")
		}
	}

	session := &watchSession{
		repo:          repo,
		poller:        p,
		rateLimit:     client,
		snapshots:     store,
		keepOnFailure: cfg.Snapshot.KeepOnFailure,
		timeout:       cfg.Poll.Timeout,
		reporter:      report.New(cmd.OutOrStdout(), styled),
		interactive:   styled && !plain && prompt.IsTTY(),
		styled:        styled,
		copyURL:       copyURL,
		clipboard:     clipboard.WriteAll,
		logger:        logger,
	}

	return session.run(cmd.Context())
}

// Execute runs the root command and exits with the code matching the error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(runerr.ExitCode(err))
	}
}
