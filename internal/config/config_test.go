package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %s, want :3000", cfg.Server.Addr)
	}
	if cfg.Simulation.AlphaDecay == 0 {
		t.Error("Simulation.AlphaDecay should be derived from AlphaMin")
	}
	if cfg.Viewport.MaxScale != 4 {
		t.Errorf("Viewport.MaxScale = %g, want 4", cfg.Viewport.MaxScale)
	}
	if cfg.Flow.Travel != 2*time.Second {
		t.Errorf("Flow.Travel = %s, want 2s", cfg.Flow.Travel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "Addr"},
		{"bad url", func(c *Config) { c.Analysis.BaseURL = "not a url" }, "BaseURL"},
		{"stream faster than frames", func(c *Config) { c.Server.StreamInterval = Duration(time.Millisecond) }, "StreamInterval"},
		{"zero canvas", func(c *Config) { c.Canvas.Width = 0 }, "Width"},
		{"inverted zoom range", func(c *Config) { c.Viewport.MaxScale = 0.05 }, "MaxScale"},
		{"positive charge", func(c *Config) { c.Simulation.ChargeStrength = 10 }, "ChargeStrength"},
		{"opaque markers", func(c *Config) { c.Flow.Opacity = 2 }, "Opacity"},
		{"zero marker delay", func(c *Config) { c.Flow.MaxDelay = 0 }, "MaxDelay"},
		{"zero link iterations", func(c *Config) { c.Simulation.LinkIterations = 0 }, "LinkIterations"},
		{"zero zoom transition", func(c *Config) { c.Viewport.Transition = 0 }, "Transition"},
		{"zero analysis timeout", func(c *Config) { c.Analysis.Timeout = 0 }, "Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":9090"
	cfg.Analysis.BaseURL = "https://analysis.example.com"
	cfg.Canvas.Width = 1200
	cfg.Flow.Travel = 3 * time.Second
	cfg.Simulation.ChargeStrength = -500

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %s, want :9090", loaded.Server.Addr)
	}
	if loaded.Analysis.BaseURL != "https://analysis.example.com" {
		t.Errorf("Analysis.BaseURL = %s", loaded.Analysis.BaseURL)
	}
	if loaded.Canvas.Width != 1200 {
		t.Errorf("Canvas.Width = %g, want 1200", loaded.Canvas.Width)
	}
	if loaded.Flow.Travel != 3*time.Second {
		t.Errorf("Flow.Travel = %s, want 3s", loaded.Flow.Travel)
	}
	if loaded.Simulation.ChargeStrength != -500 {
		t.Errorf("Simulation.ChargeStrength = %g, want -500", loaded.Simulation.ChargeStrength)
	}
	if loaded.Server.FrameInterval.Duration() != 16*time.Millisecond {
		t.Errorf("Server.FrameInterval = %s, want 16ms", loaded.Server.FrameInterval.Duration())
	}
}

func TestLoadPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":8080\"\n  stream_interval: 250ms\ncanvas:\n  width: 1024\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.StreamInterval.Duration() != 250*time.Millisecond {
		t.Errorf("Server.StreamInterval = %s, want 250ms", cfg.Server.StreamInterval.Duration())
	}
	if cfg.Canvas.Height != 600 {
		t.Errorf("Canvas.Height = %g, want default 600", cfg.Canvas.Height)
	}
	if cfg.Simulation.LinkDistance != 200 {
		t.Errorf("Simulation.LinkDistance = %g, want default 200", cfg.Simulation.LinkDistance)
	}

	opts := cfg.SceneOptions()
	if opts.Width != 1024 || opts.Height != 600 {
		t.Errorf("SceneOptions size = %gx%g, want 1024x600", opts.Width, opts.Height)
	}
}

func TestLoadExplicitZero(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "flow:\n  max_delay: 0s\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := LoadFromPath(configPath)
	if err == nil {
		t.Fatal("LoadFromPath() should reject an explicit zero max_delay")
	}
	if !strings.Contains(err.Error(), "MaxDelay") {
		t.Errorf("error %q should name MaxDelay", err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadFromPath() should fail for a missing file")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		os.WriteFile(configPath, []byte("server:\n  read_timeout: soon\n"), 0644)

		if _, _, err := LoadFromPath(configPath); err == nil {
			t.Error("LoadFromPath() should reject an invalid duration")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		os.WriteFile(configPath, []byte("canvas:\n  width: -5\nviewport:\n  min_scale: 5\n"), 0644)

		if _, _, err := LoadFromPath(configPath); err == nil {
			t.Error("LoadFromPath() should reject min_scale above max_scale")
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvAddr, ":7777")
	t.Setenv(EnvAnalysisURL, "http://analysis.internal:9000")

	oldWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(oldWd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" && !strings.HasPrefix(path, "/etc/") {
		t.Errorf("path = %s, want no file", path)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("Server.Addr = %s, want :7777", cfg.Server.Addr)
	}
	if cfg.AnalysisClient().BaseURL != "http://analysis.internal:9000" {
		t.Errorf("AnalysisClient().BaseURL = %s", cfg.AnalysisClient().BaseURL)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")

	// Explicit path doesn't exist, should fall back
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}

func TestSearchPaths(t *testing.T) {
	t.Setenv(EnvConfigPath, "/srv/contractlens.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/dev")

	want := []string{
		"/srv/contractlens.yaml",
		ConfigFileName,
		filepath.Join("/xdg", ConfigDirName, "config.yaml"),
		filepath.Join("/home/dev", ".config", ConfigDirName, "config.yaml"),
		filepath.Join("/etc", ConfigDirName, "config.yaml"),
	}

	got := SearchPaths()
	if len(got) != len(want) {
		t.Fatalf("SearchPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchPaths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	t.Run("explicit path wins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "custom.yaml")
		if err := DefaultConfig().Save(explicit); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		t.Setenv(EnvConfigPath, explicit)

		if found := FindConfigPath(); found != explicit {
			t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
		}
	})
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSummary(t *testing.T) {
	summary := DefaultConfig().Summary()
	if !strings.Contains(summary, ":3000") || !strings.Contains(summary, "800x600") {
		t.Errorf("Summary() = %q", summary)
	}
}
