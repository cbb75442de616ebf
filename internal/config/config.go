// Package config loads gitassist settings from YAML files, an optional env
// file and GITASSIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/corpeningc/gitassist/internal/conflict"
	"github.com/corpeningc/gitassist/internal/ignore"
	"github.com/corpeningc/gitassist/internal/logging"
	"github.com/corpeningc/gitassist/internal/scan"
)

const (
	ProjectFile   = ".gitassist.yaml"
	EnvFile       = ".gitassist.env"
	envPrefix     = "GITASSIST_"
	appConfigDir  = "gitassist"
	userFileName  = "config.yaml"
	DefaultCommit = "Merge resolved by gitassist"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable. Strategy, when set, resolves every block
// without asking (ours, theirs or both). LogFile sends diagnostics to a
// rotated file instead of stderr.
type Config struct {
	LogLevel      string         `yaml:"log_level"`
	LogFile       string         `yaml:"log_file"`
	IgnoreFile    string         `yaml:"ignore_file"`
	CommitMessage string         `yaml:"commit_message"`
	Strategy      string         `yaml:"strategy"`
	ScanWorkers   int            `yaml:"scan_workers"`
	MaxFileSize   int64          `yaml:"max_file_size"`
	Patterns      PatternsConfig `yaml:"patterns"`
}

type PatternsConfig struct {
	Paths     []string `yaml:"paths"`
	PathGlobs []string `yaml:"path_globs"`
	Content   []string `yaml:"content"`
	// ReplaceDefaults drops the built-in tables instead of extending them.
	ReplaceDefaults bool `yaml:"replace_defaults"`
}

func Default() *Config {
	return &Config{
		LogLevel:      "info",
		IgnoreFile:    ignore.DefaultFile,
		CommitMessage: DefaultCommit,
		MaxFileSize:   scan.DefaultMaxFileSize,
	}
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// RepoDir is searched for ProjectFile and EnvFile.
	RepoDir string
	// ExplicitPath replaces project config discovery.
	ExplicitPath string
	// UserConfigDir overrides os.UserConfigDir, mainly for tests.
	UserConfigDir string
	IgnoreUser    bool
	IgnoreEnv     bool
}

type LoadResult struct {
	Config     *Config
	LoadedFrom []string
}

// Load merges, lowest precedence first: defaults, user config, project
// config (or ExplicitPath), then GITASSIST_* variables. The env file is read
// before the variables and never overrides ones already set.
func Load(opts LoadOptions) (*LoadResult, error) {
	cfg := Default()
	result := &LoadResult{Config: cfg}

	if !opts.IgnoreUser {
		dir := opts.UserConfigDir
		if dir == "" {
			if userDir, err := os.UserConfigDir(); err == nil {
				dir = userDir
			}
		}
		if dir != "" {
			path := filepath.Join(dir, appConfigDir, userFileName)
			loaded, err := mergeFile(cfg, path, false)
			if err != nil {
				return nil, err
			}
			if loaded {
				result.LoadedFrom = append(result.LoadedFrom, path)
			}
		}
	}

	projectPath, required := opts.ExplicitPath, true
	if projectPath == "" && opts.RepoDir != "" {
		projectPath, required = filepath.Join(opts.RepoDir, ProjectFile), false
	}
	if projectPath != "" {
		loaded, err := mergeFile(cfg, projectPath, required)
		if err != nil {
			return nil, err
		}
		if loaded {
			result.LoadedFrom = append(result.LoadedFrom, projectPath)
		}
	}

	if !opts.IgnoreEnv {
		if opts.RepoDir != "" {
			envPath := filepath.Join(opts.RepoDir, EnvFile)
			if _, err := os.Stat(envPath); err == nil {
				if err := godotenv.Load(envPath); err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, envPath, err)
				}
				result.LoadedFrom = append(result.LoadedFrom, envPath)
			}
		}
		if err := applyEnv(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// mergeFile overlays the non-zero fields of the YAML file at path onto cfg.
func mergeFile(cfg *Config, path string, required bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return false, nil
		}
		return false, fmt.Errorf("read config %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	cfg.merge(&overlay)
	return true, nil
}

func (c *Config) merge(o *Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.IgnoreFile != "" {
		c.IgnoreFile = o.IgnoreFile
	}
	if o.CommitMessage != "" {
		c.CommitMessage = o.CommitMessage
	}
	if o.Strategy != "" {
		c.Strategy = o.Strategy
	}
	if o.ScanWorkers != 0 {
		c.ScanWorkers = o.ScanWorkers
	}
	if o.MaxFileSize != 0 {
		c.MaxFileSize = o.MaxFileSize
	}
	if o.Patterns.ReplaceDefaults {
		c.Patterns = PatternsConfig{ReplaceDefaults: true}
	}
	c.Patterns.Paths = append(c.Patterns.Paths, o.Patterns.Paths...)
	c.Patterns.PathGlobs = append(c.Patterns.PathGlobs, o.Patterns.PathGlobs...)
	c.Patterns.Content = append(c.Patterns.Content, o.Patterns.Content...)
}

func applyEnv(cfg *Config) error {
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookupEnv("IGNORE_FILE"); ok {
		cfg.IgnoreFile = v
	}
	if v, ok := lookupEnv("COMMIT_MESSAGE"); ok {
		cfg.CommitMessage = v
	}
	if v, ok := lookupEnv("STRATEGY"); ok {
		cfg.Strategy = v
	}
	if v, ok := lookupEnv("SCAN_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sSCAN_WORKERS=%q is not an integer", ErrInvalidConfig, envPrefix, v)
		}
		cfg.ScanWorkers = n
	}
	if v, ok := lookupEnv("MAX_FILE_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_FILE_SIZE=%q is not an integer", ErrInvalidConfig, envPrefix, v)
		}
		cfg.MaxFileSize = n
	}
	return nil
}

func lookupEnv(suffix string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + suffix)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (c *Config) Validate() error {
	var errs []error

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q (want debug, info, warn or error)", c.LogLevel))
	}
	if c.Strategy != "" {
		if _, err := conflict.ParseChoice(c.Strategy); err != nil {
			errs = append(errs, fmt.Errorf("strategy: %w", err))
		}
	}
	if c.ScanWorkers < 0 {
		errs = append(errs, fmt.Errorf("scan_workers must not be negative, got %d", c.ScanWorkers))
	}
	if strings.TrimSpace(c.CommitMessage) == "" {
		errs = append(errs, errors.New("commit_message must not be empty"))
	}
	if _, err := scan.Compile(c.PatternSet()); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// PatternSet returns the scan patterns: the built-in tables plus configured
// ones, or only the configured ones when ReplaceDefaults is set.
func (c *Config) PatternSet() scan.PatternSet {
	set := scan.PatternSet{}
	if !c.Patterns.ReplaceDefaults {
		set = scan.DefaultPatternSet()
	}
	set.Paths = append(set.Paths, c.Patterns.Paths...)
	set.PathGlobs = append(set.PathGlobs, c.Patterns.PathGlobs...)
	set.Content = append(set.Content, c.Patterns.Content...)
	return set
}
