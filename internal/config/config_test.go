package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "internal",
				},
			},
			expected: "/project/internal",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected Workers %d, got %d", DefaultWorkers, cfg.Workers)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}

	if cfg.Rspecify || cfg.IsWorker() {
		t.Error("rspecify and worker mode should be off by default")
	}
}

func TestConfig_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		flags     Flags
		verbosity int
		longInfo  bool
		fspath    bool
	}{
		{name: "default", flags: Flags{}, verbosity: 0, longInfo: false, fspath: true},
		{name: "verbose", flags: Flags{Verbose: 1}, verbosity: 1, longInfo: true, fspath: true},
		{name: "very verbose", flags: Flags{Verbose: 2}, verbosity: 2, longInfo: true, fspath: true},
		{name: "quiet", flags: Flags{Quiet: 1}, verbosity: -1, longInfo: false, fspath: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.ApplyFlags(tt.flags)
			if cfg.Verbosity != tt.verbosity {
				t.Errorf("expected verbosity %d, got %d", tt.verbosity, cfg.Verbosity)
			}
			if cfg.ShowLongTestInfo() != tt.longInfo {
				t.Errorf("expected ShowLongTestInfo %v", tt.longInfo)
			}
			if cfg.ShowFSPath() != tt.fspath {
				t.Errorf("expected ShowFSPath %v", tt.fspath)
			}
		})
	}
}

func TestConfig_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	content := "rspecify: true\nverbosity: 1\nworkers: 3\ngo_test_args: [\"-race\"]\nignore: [\"generated\"]\nxfail: [\"TestKnown*\"]\nxfail_strict: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Rspecify {
		t.Error("expected rspecify to be enabled")
	}
	if cfg.Verbosity != 1 {
		t.Errorf("expected verbosity 1, got %d", cfg.Verbosity)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if len(cfg.GoTestArgs) != 1 || cfg.GoTestArgs[0] != "-race" {
		t.Errorf("unexpected go test args: %v", cfg.GoTestArgs)
	}
	if cfg.PathsToIgnore[len(cfg.PathsToIgnore)-1] != "generated" {
		t.Errorf("expected extra ignore path, got %v", cfg.PathsToIgnore)
	}
	if len(cfg.ExpectedFailures) != 1 || cfg.ExpectedFailures[0] != "TestKnown*" {
		t.Errorf("unexpected expected failures: %v", cfg.ExpectedFailures)
	}
	if !cfg.XFailStrict {
		t.Error("expected strict xfail to be enabled")
	}

	t.Run("missing file is ignored", func(t *testing.T) {
		if err := New().LoadFile(filepath.Join(dir, "missing.yaml")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		os.WriteFile(bad, []byte("workers: ["), 0644)
		if err := New().LoadFile(bad); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestConfig_LoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("RSPECIFY_VERBOSITY=2\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv(EnvVerbosity, "")
	os.Unsetenv(EnvVerbosity)
	t.Setenv(EnvWorker, "gw1")
	t.Setenv(EnvNoColor, "true")

	cfg := New()
	if err := cfg.LoadEnv(envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Verbosity != 2 {
		t.Errorf("expected verbosity 2 from env file, got %d", cfg.Verbosity)
	}
	if !cfg.IsWorker() || cfg.WorkerID != "gw1" {
		t.Errorf("expected worker gw1, got %q", cfg.WorkerID)
	}
	if !cfg.NoColor {
		t.Error("expected no color from environment")
	}
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := New()
	cfg.Workers = 3

	cfg.ApplyFlags(Flags{Workers: DefaultWorkers})
	if cfg.Workers != 3 {
		t.Errorf("unchanged flag should not override file value, got %d", cfg.Workers)
	}

	cfg.ApplyFlags(Flags{Workers: 5, Changed: map[string]bool{"workers": true}, Rspecify: true, RootDir: "/work"})
	if cfg.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Workers)
	}
	if !cfg.Rspecify {
		t.Error("expected rspecify flag to apply")
	}
	if cfg.ProjectPath != "/work" {
		t.Errorf("expected project path /work, got %s", cfg.ProjectPath)
	}

	cfg.ExpectedFailures = []string{"TestA"}
	cfg.ApplyFlags(Flags{XFail: []string{"TestB"}, XFailStrict: true})
	if len(cfg.ExpectedFailures) != 2 || cfg.ExpectedFailures[1] != "TestB" {
		t.Errorf("expected xfail flag to add to file patterns, got %v", cfg.ExpectedFailures)
	}
	if !cfg.XFailStrict {
		t.Error("expected xfail-strict flag to apply")
	}
}
