package cli

import (
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HEADLESS", "")
	t.Setenv("TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestParseArgs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		opts, err := ParseArgs([]string{"title/demo"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if opts.TitlePath != "title/demo" {
			t.Errorf("TitlePath = %q, want title/demo", opts.TitlePath)
		}
		if opts.Timeout != 0 || opts.LogLevel != "info" || opts.Headless || opts.ShowHelp {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		clearEnv(t)
		opts, err := ParseArgs([]string{"-t", "5", "-l", "debug", "-config", "limits.yaml", "-headless", "title/demo"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if opts.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", opts.Timeout)
		}
		if opts.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", opts.LogLevel)
		}
		if opts.ConfigPath != "limits.yaml" {
			t.Errorf("ConfigPath = %q, want limits.yaml", opts.ConfigPath)
		}
		if !opts.Headless {
			t.Error("Headless not set")
		}
	})

	t.Run("flags after positional", func(t *testing.T) {
		clearEnv(t)
		opts, err := ParseArgs([]string{"title/demo", "-t", "7", "-headless"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if opts.TitlePath != "title/demo" {
			t.Errorf("TitlePath = %q, want title/demo", opts.TitlePath)
		}
		if opts.Timeout != 7*time.Second {
			t.Errorf("Timeout = %v, want 7s", opts.Timeout)
		}
		if !opts.Headless {
			t.Error("Headless not set")
		}
	})

	t.Run("help", func(t *testing.T) {
		clearEnv(t)
		for _, args := range [][]string{{"-h"}, {"-help"}, {"--help"}} {
			opts, err := ParseArgs(args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) failed: %v", args, err)
			}
			if !opts.ShowHelp {
				t.Errorf("ParseArgs(%v): ShowHelp not set", args)
			}
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		clearEnv(t)
		if _, err := ParseArgs([]string{"-l", "loud", "title/demo"}); err == nil {
			t.Error("invalid log level accepted")
		}
	})

	t.Run("negative timeout", func(t *testing.T) {
		clearEnv(t)
		if _, err := ParseArgs([]string{"-t", "-3", "title/demo"}); err == nil {
			t.Error("negative timeout accepted")
		}
	})
}

func TestParseArgsEnvironment(t *testing.T) {
	t.Run("environment fills defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HEADLESS", "1")
		t.Setenv("TIMEOUT", "9")
		t.Setenv("LOG_LEVEL", "WARN")

		opts, err := ParseArgs([]string{"title/demo"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if !opts.Headless {
			t.Error("HEADLESS=1 ignored")
		}
		if opts.Timeout != 9*time.Second {
			t.Errorf("Timeout = %v, want 9s", opts.Timeout)
		}
		if opts.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want warn", opts.LogLevel)
		}
	})

	t.Run("flags win over environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEOUT", "9")
		t.Setenv("LOG_LEVEL", "error")

		opts, err := ParseArgs([]string{"-t", "2", "-l", "debug", "title/demo"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if opts.Timeout != 2*time.Second {
			t.Errorf("Timeout = %v, want 2s", opts.Timeout)
		}
		if opts.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", opts.LogLevel)
		}
	})

	t.Run("junk TIMEOUT is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEOUT", "soon")
		opts, err := ParseArgs([]string{"title/demo"})
		if err != nil {
			t.Fatalf("ParseArgs failed: %v", err)
		}
		if opts.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", opts.Timeout)
		}
	})
}

func TestReorderArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "flags already first",
			in:   []string{"-t", "5", "title/"},
			want: []string{"-t", "5", "title/"},
		},
		{
			name: "positional before flags",
			in:   []string{"title/", "-t", "5"},
			want: []string{"-t", "5", "title/"},
		},
		{
			name: "boolean flag does not consume the path",
			in:   []string{"-headless", "title/"},
			want: []string{"-headless", "title/"},
		},
		{
			name: "equals form does not consume",
			in:   []string{"title/", "-log-level=debug"},
			want: []string{"-log-level=debug", "title/"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reorderArgs(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("reorderArgs(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
