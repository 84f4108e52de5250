package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.MaxStackDepth != 64 || cfg.StepBudget != 0 || cfg.TickRate != 60 || cfg.LogLevel != "info" {
			t.Errorf("defaults = %+v", cfg)
		}
	})

	t.Run("partial file overlays defaults", func(t *testing.T) {
		path := writeConfig(t, "step_budget: 500\nlog_level: debug\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.StepBudget != 500 {
			t.Errorf("StepBudget = %d, want 500", cfg.StepBudget)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.MaxStackDepth != 64 {
			t.Errorf("MaxStackDepth = %d, want default 64", cfg.MaxStackDepth)
		}
		if cfg.TickRate != 60 {
			t.Errorf("TickRate = %d, want default 60", cfg.TickRate)
		}
	})

	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, "max_stack_depth: 8\nstep_budget: 100\ntick_rate: 30\nrandom_seed: 42\nlog_level: warn\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.MaxStackDepth != 8 || cfg.StepBudget != 100 || cfg.TickRate != 30 || cfg.RandomSeed != 42 || cfg.LogLevel != "warn" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load of missing file succeeded")
		}
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := writeConfig(t, "step_budget: [not a number\n")
		if _, err := Load(path); err == nil {
			t.Error("Load of malformed YAML succeeded")
		}
	})

	t.Run("invalid limits fail", func(t *testing.T) {
		cases := map[string]string{
			"zero depth":     "max_stack_depth: 0\n",
			"negative budget": "step_budget: -1\n",
			"zero tick rate":  "tick_rate: 0\n",
			"bad log level":   "log_level: loud\n",
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := Load(writeConfig(t, body)); err == nil {
					t.Errorf("Load accepted %q", body)
				}
			})
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	cfg.LogLevel = "error"
	if err := cfg.Validate(); err != nil {
		t.Errorf("error level rejected: %v", err)
	}
}
