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
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Reporting settings
	Rspecify  bool
	Verbosity int
	NoColor   bool
	Browse    bool

	// Tests expected to fail, as name patterns. With XFailStrict an
	// unexpected pass counts as a failure.
	ExpectedFailures []string
	XFailStrict      bool

	// Execution settings
	Workers    int
	GoTestArgs []string

	// WorkerID is set when this process runs as a non-primary worker
	WorkerID string

	// Logging
	Debug   bool
	LogJSON bool

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Rspecify    bool
	Verbose     int
	Quiet       int
	Workers     int
	TestPath    string
	NameFilter  string
	NoColor     bool
	Browse      bool
	Debug       bool
	LogJSON     bool
	RootDir     string
	TestCases   bool
	XFail       []string
	XFailStrict bool

	// Changed records which flags were set explicitly on the command line
	Changed map[string]bool
}

// FileConfig is the layout of the optional YAML config file
type FileConfig struct {
	Rspecify    *bool    `yaml:"rspecify"`
	Verbosity   *int     `yaml:"verbosity"`
	Workers     int      `yaml:"workers"`
	NoColor     *bool    `yaml:"no_color"`
	GoTestArgs  []string `yaml:"go_test_args"`
	Ignore      []string `yaml:"ignore"`
	XFail       []string `yaml:"xfail"`
	XFailStrict *bool    `yaml:"xfail_strict"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: DefaultProjectPath,
		TestPath:    DefaultTestPath,
		Workers:     DefaultWorkers,
		Flags:       Flags{Workers: DefaultWorkers},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, the project's YAML file, the
// environment (including the project's .env file) and finally flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if flags.RootDir != "" {
		cfg.ProjectPath = flags.RootDir
	}

	if err := cfg.LoadFile(filepath.Join(cfg.ProjectPath, DefaultConfigFile)); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(filepath.Join(cfg.ProjectPath, DefaultEnvFile)); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// LoadFile applies the YAML config file at path. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Rspecify != nil {
		c.Rspecify = *fc.Rspecify
	}
	if fc.Verbosity != nil {
		c.Verbosity = *fc.Verbosity
	}
	if fc.Workers > 0 {
		c.Workers = fc.Workers
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}
	if len(fc.GoTestArgs) > 0 {
		c.GoTestArgs = fc.GoTestArgs
	}
	c.PathsToIgnore = append(c.PathsToIgnore, fc.Ignore...)
	c.ExpectedFailures = append(c.ExpectedFailures, fc.XFail...)
	if fc.XFailStrict != nil {
		c.XFailStrict = *fc.XFailStrict
	}
	return nil
}

// LoadEnv loads the dotenv file at path (if any) into the process
// environment and applies the RSPECIFY_* variables.
func (c *Config) LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	c.WorkerID = os.Getenv(EnvWorker)
	if v, ok := lookupBool(EnvNoColor); ok {
		c.NoColor = v
	}
	if v, ok := lookupBool(EnvRspecify); ok {
		c.Rspecify = v
	}
	if raw := os.Getenv(EnvVerbosity); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvVerbosity, raw, err)
		}
		c.Verbosity = v
	}
	return nil
}

// ApplyFlags applies command-line flags on top of the loaded values
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.RootDir != "" {
		c.ProjectPath = flags.RootDir
	}
	if flags.Rspecify {
		c.Rspecify = true
	}
	if flags.Verbose != 0 || flags.Quiet != 0 {
		c.Verbosity = flags.Verbose - flags.Quiet
	}
	if flags.Workers > 0 && (flags.Changed["workers"] || c.Workers <= 0) {
		c.Workers = flags.Workers
	}
	if flags.NoColor {
		c.NoColor = true
	}
	c.ExpectedFailures = append(c.ExpectedFailures, flags.XFail...)
	if flags.XFailStrict {
		c.XFailStrict = true
	}
	c.Browse = flags.Browse
	c.Debug = flags.Debug
	c.LogJSON = flags.LogJSON
}

// IsWorker reports whether this process is a non-primary worker
func (c *Config) IsWorker() bool {
	return c.WorkerID != ""
}

// ShowLongTestInfo reports whether one line per test is printed
func (c *Config) ShowLongTestInfo() bool {
	return c.Verbosity > 0
}

// ShowFSPath reports whether results are grouped under file headers
func (c *Config) ShowFSPath() bool {
	return c.Verbosity >= 0
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to the project path if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// RootDir returns the absolute project path
func (c *Config) RootDir() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return c.ProjectPath
}

func lookupBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, true
	}
	return false, true
}
