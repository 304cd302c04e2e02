package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// configKey stores the loaded *Config in a command context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix prefixes environment overrides: FORTLINT_LINE_LENGTH sets
// check.line-length.
const EnvPrefix = "FORTLINT_"

// configNames are tried in order in each directory.
var configNames = []string{
	"fortlint.toml",
	".fortlint.toml",
	"fortlint.yaml",
	".fortlint.yaml",
	"fortlint.yml",
	"fpm.toml",
}

// configExistsIn returns the config file in dir, or "". An fpm.toml only
// counts when it has an [extra.fortlint] table.
func configExistsIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if name == "fpm.toml" && !hasFortlintTable(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

func hasFortlintTable(path string) bool {
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return false
	}
	extra, _ := doc["extra"].(map[string]any)
	_, ok := extra["fortlint"]
	return ok
}

// findConfigUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Load loads configuration from defaults, a config file, environment
// variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// cfgFile names the config file explicitly; when empty the working directory
// and its parents are searched.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	projectRoot := cwd
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	} else if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
	}
	if cfgFile != "" {
		if err := loadFile(k, cfgFile); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if abs, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (FORTLINT_ prefix)
	// Transform: FORTLINT_LINE_LENGTH -> check.line-length
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return flagValue(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToWeakSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile
	cfg.ProjectRoot = projectRoot

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if name == "" {
		return ""
	}
	return "check." + strings.ReplaceAll(name, "_", "-")
}

// loadFile reads YAML through koanf's file provider. TOML is decoded with
// BurntSushi/toml so the [check] table can be lifted out of fpm.toml's
// [extra.fortlint] and the map form of per-file-ignores flattened.
func loadFile(k *koanf.Koanf, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return k.Load(file.Provider(path), yaml.Parser())
	case ".toml":
		var doc map[string]any
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return err
		}
		if filepath.Base(path) == "fpm.toml" {
			extra, _ := doc["extra"].(map[string]any)
			doc, _ = extra["fortlint"].(map[string]any)
		}
		check, _ := doc["check"].(map[string]any)
		if check == nil {
			return nil
		}
		for _, key := range []string{"per-file-ignores", "extend-per-file-ignores"} {
			if pairs, ok := check[key].(map[string]any); ok {
				check[key] = flattenPairs(pairs)
			}
		}
		// No delimiter: per-file-ignores patterns contain dots.
		return k.Load(confmap.Provider(map[string]any{"check": check}, ""), nil)
	default:
		return errors.New("unsupported config format (want .toml, .yaml or .yml)")
	}
}

// flattenPairs turns {"legacy/*.f90" = ["T001", "S"]} into
// ["legacy/*.f90:T001", "legacy/*.f90:S"].
func flattenPairs(m map[string]any) []string {
	var out []string
	for pattern, v := range m {
		switch codes := v.(type) {
		case string:
			out = append(out, pattern+":"+codes)
		case []any:
			for _, c := range codes {
				out = append(out, fmt.Sprintf("%s:%v", pattern, c))
			}
		}
	}
	slices.Sort(out)
	return out
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}
