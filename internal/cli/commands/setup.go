package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/fortlint/internal/cli/config"
	"github.com/leapstack-labs/fortlint/internal/cli/output"
	"github.com/leapstack-labs/fortlint/internal/runner"
)

// ExitError carries a process exit code out of a command. Err, when set,
// is printed before exiting.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// fatal wraps err so the process exits with runner.ExitFatal.
func fatal(err error) error {
	return &ExitError{Code: runner.ExitFatal, Err: err}
}

// LogLevel is the verbosity chosen with -v, -q or -s.
type LogLevel int

// Log levels.
const (
	LevelDefault LogLevel = iota
	LevelVerbose
	// LevelQuiet prints violations but no summary.
	LevelQuiet
	// LevelSilent prints nothing; only the exit code reports the outcome.
	LevelSilent
)

// LogLevelFromFlags reads the verbosity flags. Flags that are not defined
// count as unset.
func LogLevelFromFlags(fs *pflag.FlagSet) LogLevel {
	set := func(name string) bool {
		v, err := fs.GetBool(name)
		return err == nil && v
	}
	switch {
	case set("silent"):
		return LevelSilent
	case set("quiet"):
		return LevelQuiet
	case set("verbose"):
		return LevelVerbose
	}
	return LevelDefault
}

// NewLogger builds the process logger for a verbosity level.
func NewLogger(w io.Writer, lvl LogLevel) *slog.Logger {
	level := slog.LevelWarn
	switch lvl {
	case LevelSilent:
		return slog.New(slog.DiscardHandler)
	case LevelQuiet:
		level = slog.LevelError
	case LevelVerbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Level    LogLevel
}

// NewCommandContext collects the config, logger and renderer for cmd. The
// config stored by the root command is used when present; otherwise it is
// loaded from the working directory and cmd's flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		cfg, err = config.Load(configFileFlag(cmd), cmd.Flags())
		if err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd, output.ModeAuto),
		Level:    LogLevelFromFlags(cmd.Flags()),
	}, nil
}

// NewCommandContextWithoutConfig is for commands that only read the rule
// registry.
func NewCommandContextWithoutConfig(cmd *cobra.Command, mode output.Mode) *CommandContext {
	return &CommandContext{
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd, mode),
		Level:    LogLevelFromFlags(cmd.Flags()),
	}
}

func newRenderer(cmd *cobra.Command, mode output.Mode) *output.Renderer {
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		r = r.WithoutColor()
	}
	return r
}

func configFileFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config-file")
	return path
}
