package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/fortlint/internal/cache"
	"github.com/leapstack-labs/fortlint/internal/cli/config"
	"github.com/leapstack-labs/fortlint/internal/cli/output"
	"github.com/leapstack-labs/fortlint/internal/discovery"
	"github.com/leapstack-labs/fortlint/internal/runner"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

// CheckOptions holds the check flags that are not configuration keys.
type CheckOptions struct {
	Watch        bool
	Statistics   bool
	ShowSettings bool
	ShowFiles    bool
	ExitZero     bool
	Jobs         int
}

// NewCheckCommand creates the check command.
func NewCheckCommand(version string) *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Fortran files for lint violations",
		Long: `Check Fortran source files and report rule violations.

Directories are searched recursively for files with one of the configured
file extensions. Settings come from fortlint.toml, .fortlint.toml,
fortlint.yaml or the [extra.fortlint] table of fpm.toml, then FORTLINT_*
environment variables, then flags.

Exit status is 0 when no violations remain, 1 when some do and 2 when a
file could not be read, parsed or fixed, or the configuration is invalid.`,
		Example: `  # Check the current directory
  fortlint check

  # Check specific files and directories
  fortlint check src/ tests/test_io.f90

  # Apply safe fixes
  fortlint check --fix

  # Only run the typing rules, minus T003
  fortlint check --select T --ignore T003

  # Machine-readable output
  fortlint check --output-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, version, opts)
		},
	}

	config.AddCheckFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when files change")
	cmd.Flags().BoolVar(&opts.Statistics, "statistics", false, "Show counts for every rule with at least one violation")
	cmd.Flags().BoolVar(&opts.ShowSettings, "show-settings", false, "Print the resolved settings and exit")
	cmd.Flags().BoolVar(&opts.ShowFiles, "show-files", false, "Print the files that would be checked and exit")
	cmd.Flags().BoolVarP(&opts.ExitZero, "exit-zero", "e", false, "Exit with status 0 even when violations remain")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files checked in parallel (default: number of CPUs)")

	_ = cmd.RegisterFlagCompletionFunc("output-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(lint.OutputFormats))
		for i, f := range lint.OutputFormats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("progress-bar", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"off", "ascii", "fancy"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// checkSession is everything one check invocation needs, built once and
// reused by watch mode.
type checkSession struct {
	cctx     *CommandContext
	settings *lint.Settings
	registry *lint.Registry
	runner   *runner.Runner
	paths    []string
}

func runCheck(cmd *cobra.Command, paths []string, version string, opts *CheckOptions) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return fatal(err)
	}
	cfg := cctx.Cfg
	settings := cfg.Settings()
	if opts.Statistics {
		settings.OutputFormat = lint.OutputStatistics
	}
	lint.SetDocsBaseURL(cfg.Check.DocsBaseURL)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	if err := config.ValidatePaths(paths); err != nil {
		return fatal(err)
	}

	reg, err := rules.Default(settings)
	if err != nil {
		return fatal(err)
	}
	resolver, err := lint.NewResolver(reg, settings)
	if err != nil {
		return fatal(fmt.Errorf("invalid rule selection: %w", err))
	}

	if opts.ShowSettings {
		return showSettings(cctx.Renderer, cfg, settings, resolver.Global())
	}

	var c *cache.Cache
	if !settings.Fix {
		c, err = cache.Open(cfg.CachePath())
		if err != nil {
			cctx.Logger.Warn("cache disabled", "error", err)
			c = nil
		}
	}

	progress := runner.NewProgress(settings.ProgressBar, cmd.ErrOrStderr())
	if cctx.Level == LevelSilent || settings.OutputFormat == lint.OutputJSON {
		progress = runner.NewProgress(lint.ProgressOff, nil)
	}
	run, err := runner.New(runner.Options{
		Settings: settings,
		Registry: reg,
		Resolver: resolver,
		Cache:    c,
		Version:  version,
		Jobs:     opts.Jobs,
		Logger:   cctx.Logger,
		Progress: progress,
	})
	if err != nil {
		return fatal(err)
	}

	s := &checkSession{cctx: cctx, settings: settings, registry: reg, runner: run, paths: paths}
	files, err := s.discover()
	if err != nil {
		return fatal(err)
	}
	if opts.ShowFiles {
		for _, f := range files {
			cctx.Renderer.Println(f)
		}
		return nil
	}

	if opts.Watch {
		return s.watch(cmd.Context(), files)
	}

	report, err := s.check(cmd.Context(), files)
	if err != nil {
		return fatal(err)
	}
	code := report.ExitCode(settings.FixOnly)
	if opts.ExitZero && code == runner.ExitViolations {
		code = runner.ExitClean
	}
	if code != runner.ExitClean {
		return &ExitError{Code: code}
	}
	return nil
}

func (s *checkSession) discover() ([]string, error) {
	cfg := s.cctx.Cfg
	files, err := discovery.Discover(discovery.Options{
		Paths:         s.paths,
		Root:          cfg.ProjectRoot,
		Extensions:    s.settings.FileExtensions,
		Exclude:       s.settings.Exclude,
		ExtendExclude: s.settings.ExtendExclude,
		ForceExclude:  s.settings.ForceExclude,
	})
	if err != nil {
		return nil, err
	}
	s.cctx.Logger.Debug("discovered files", "count", len(files), "root", cfg.ProjectRoot)
	return files, nil
}

// check runs the files and writes the report.
func (s *checkSession) check(ctx context.Context, files []string) (*runner.Report, error) {
	r := s.cctx.Renderer
	if len(files) == 0 {
		if s.cctx.Level < LevelQuiet {
			r.Warn("No Fortran files found under the given paths")
		}
		return &runner.Report{}, nil
	}

	report, err := s.runner.Run(ctx, files)
	if err != nil {
		return nil, err
	}
	if s.cctx.Level == LevelSilent {
		return report, nil
	}
	err = output.WriteReport(r, report, output.ReportOptions{
		Format:      s.settings.OutputFormat,
		Fix:         s.settings.Fix,
		UnsafeFixes: s.settings.UnsafeFixes,
		ShowFixes:   s.settings.ShowFixes,
		FixOnly:     s.settings.FixOnly,
		Quiet:       s.cctx.Level == LevelQuiet,
		Lookup:      s.registry.Get,
	})
	return report, err
}

// watch checks once, then again after every relevant change, until
// interrupted.
func (s *checkSession) watch(parent context.Context, files []string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	r := s.cctx.Renderer
	rerun := func(ctx context.Context, files []string) {
		r.Println(r.Styles().Muted.Render(time.Now().Format(time.TimeOnly) + " Checking..."))
		if _, err := s.check(ctx, files); err != nil && ctx.Err() == nil {
			r.Error(err.Error())
		}
	}
	rerun(ctx, files)
	r.Println(r.Styles().Muted.Render("Watching for file changes."))

	return runner.Watch(ctx, runner.WatchOptions{
		Paths: s.paths,
		Relevant: func(path string) bool {
			return discovery.HasExtension(path, s.settings.FileExtensions)
		},
		Logger: s.cctx.Logger,
	}, func(ctx context.Context) {
		files, err := s.discover()
		if err != nil {
			r.Error(err.Error())
			return
		}
		rerun(ctx, files)
	})
}

// shownSettings is the --show-settings document.
type shownSettings struct {
	ConfigFile  string        `yaml:"config-file"`
	ProjectRoot string        `yaml:"project-root"`
	CacheDir    string        `yaml:"cache-dir"`
	Check       lint.Settings `yaml:"check"`
	Rules       lint.RuleSet  `yaml:"enabled-rules"`
}

func showSettings(r *output.Renderer, cfg *config.Config, s *lint.Settings, rs lint.RuleSet) error {
	doc := shownSettings{
		ConfigFile:  cfg.File,
		ProjectRoot: cfg.ProjectRoot,
		CacheDir:    cfg.CachePath(),
		Check:       *s,
		Rules:       rs,
	}
	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
