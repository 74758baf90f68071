package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.LogLevel != "warn" {
		t.Errorf("Default log_level = %q, want warn", cfg.Defaults.LogLevel)
	}

	if cfg.Defaults.LogMode != "cmd" {
		t.Errorf("Default log_mode = %q, want cmd", cfg.Defaults.LogMode)
	}

	if !cfg.Terminal.SetTabTitle {
		t.Error("Default set_tab_title should be true")
	}

	if cfg.Stream.DialRetries != 3 || cfg.Stream.DialRetryDelay != 1 {
		t.Errorf("Default stream = %+v, want 3 retries 1s apart", cfg.Stream)
	}

	if cfg.Repos == nil {
		t.Error("Default repos should be an empty map, not nil")
	}
}

func TestResolveAlias(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repos["api/master"] = Repo{Alias: "api"}
	cfg.Repos["web"] = Repo{Alias: "fe"}

	tests := []struct {
		alias string
		want  string
	}{
		{"api", "api/master"},
		{"API", "api/master"},
		{"fe", "web"},
		{"unknown", "unknown"},
		{"repo/branch", "repo/branch"},
	}

	for _, tt := range tests {
		got := cfg.ResolveAlias(tt.alias)
		if got != tt.want {
			t.Errorf("ResolveAlias(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}

func TestLoadSave(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No file yet: defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Terminal.TitleFormat != "Runnable: {repo}:{branch}" {
		t.Errorf("Load() title_format = %q", cfg.Terminal.TitleFormat)
	}

	cfg.Defaults.LogMode = "build"
	cfg.Repos["api"] = Repo{Alias: "a", Destination: "/app"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	configFile := filepath.Join(tmpDir, "runnable", "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	cfg2, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save failed: %v", err)
	}
	if cfg2.Defaults.LogMode != "build" {
		t.Errorf("Load() after Save: log_mode = %q, want build", cfg2.Defaults.LogMode)
	}
	if got := cfg2.GetRepoConfig("api"); got == nil || got.Destination != "/app" {
		t.Errorf("Load() after Save: repos[api] = %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "runnable")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("stream:\n  dial_retries: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Stream.DialRetries != 5 {
		t.Errorf("dial_retries = %d, want 5", cfg.Stream.DialRetries)
	}
	if cfg.Stream.DialRetryDelay != 1 {
		t.Errorf("dial_retry_delay = %d, want default 1", cfg.Stream.DialRetryDelay)
	}
	if !cfg.Terminal.SetTabTitle {
		t.Error("set_tab_title should keep its default")
	}
}

func TestGetRepoConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repos["api"] = Repo{Destination: "/srv"}
	cfg.Repos["api/feature"] = Repo{Destination: "/feature"}

	if got := cfg.GetRepoConfig("api/feature"); got == nil || got.Destination != "/feature" {
		t.Errorf("GetRepoConfig(api/feature) = %+v, want exact match", got)
	}
	if got := cfg.GetRepoConfig("api/master"); got == nil || got.Destination != "/srv" {
		t.Errorf("GetRepoConfig(api/master) = %+v, want repo fallback", got)
	}
	if got := cfg.GetRepoConfig("unknown/repo"); got != nil {
		t.Errorf("GetRepoConfig(unknown/repo) = %v, want nil", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"log mode", "defaults:\n  log_mode: both\n", "defaults.log_mode"},
		{"log level", "defaults:\n  log_level: loud\n", "defaults.log_level"},
		{"retries", "stream:\n  dial_retries: 0\n", "stream.dial_retries"},
		{"delay", "stream:\n  dial_retry_delay: -1\n", "stream.dial_retry_delay"},
		{"not yaml", "defaults: [\n", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			dir := filepath.Join(tmpDir, "runnable")
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
