// Package cli parses the plotscript command line.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options holds the settings parsed from arguments and environment.
type Options struct {
	TitlePath  string        // directory containing the title's scripts
	ConfigPath string        // optional YAML limits file
	Timeout    time.Duration // 0 means unlimited
	LogLevel   string        // debug, info, warn, error
	Headless   bool          // run without a window
	ShowHelp   bool
}

// ParseArgs parses command line arguments into Options. Flags may come
// before or after the positional title path. Environment variables
// HEADLESS, TIMEOUT and LOG_LEVEL fill in whatever the flags left at
// their defaults.
func ParseArgs(args []string) (*Options, error) {
	reordered := reorderArgs(args)

	fs := flag.NewFlagSet("plotscript", flag.ContinueOnError)
	opts := &Options{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "timeout in seconds (0 = unlimited)")
	fs.IntVar(&timeoutSec, "t", 0, "timeout in seconds (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogLevel, "l", "info", "log level (shorthand)")
	fs.StringVar(&opts.ConfigPath, "config", "", "path to a YAML limits file")
	fs.BoolVar(&opts.Headless, "headless", false, "run without a window")
	fs.BoolVar(&opts.ShowHelp, "help", false, "show help")
	fs.BoolVar(&opts.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(reordered); err != nil {
		return nil, err
	}

	// environment fallbacks; flags win
	if !opts.Headless {
		if env := os.Getenv("HEADLESS"); env != "" {
			opts.Headless = env == "1" || strings.EqualFold(env, "true")
		}
	}
	if timeoutSec == 0 {
		if env := os.Getenv("TIMEOUT"); env != "" {
			if t, err := strconv.Atoi(env); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if opts.LogLevel == "info" {
		if env := os.Getenv("LOG_LEVEL"); env != "" {
			opts.LogLevel = strings.ToLower(env)
		}
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	opts.Timeout = time.Duration(timeoutSec) * time.Second

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if fs.NArg() > 0 {
		opts.TitlePath = fs.Arg(0)
	}
	return opts, nil
}

// Usage returns the help text.
func Usage() string {
	return `Usage: plotscript [options] <title-path>

Runs the plot scripts of a title directory.

Options:
  -t, -timeout <sec>    stop after the given number of seconds
  -l, -log-level <lvl>  debug, info, warn or error (default info)
  -config <path>        YAML limits file
  -headless             run without a window
  -h, -help             show this help

Environment:
  HEADLESS=1            same as -headless
  TIMEOUT=<sec>         same as -timeout
  LOG_LEVEL=<lvl>       same as -log-level
`
}

// reorderArgs moves flags in front of positional arguments so the
// stdlib flag package accepts "plotscript title/ -t 5".
func reorderArgs(args []string) []string {
	boolFlags := map[string]bool{
		"-headless": true, "--headless": true,
		"-help": true, "--help": true,
		"-h": true, "--h": true,
	}

	var flags []string
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)
			// a non-boolean flag without "=" consumes the next argument
			if !boolFlags[arg] && !strings.Contains(arg, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
			continue
		}
		positional = append(positional, arg)
	}
	return append(flags, positional...)
}
