// Package app wires the CLI, config, script loader, engine and host
// into a runnable application.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hazama/plotscript/pkg/cli"
	"github.com/hazama/plotscript/pkg/config"
	"github.com/hazama/plotscript/pkg/host"
	"github.com/hazama/plotscript/pkg/logger"
	"github.com/hazama/plotscript/pkg/script"
	"github.com/hazama/plotscript/pkg/title"
	"github.com/hazama/plotscript/pkg/vm"
)

// Application manages the run of one title.
type Application struct {
	opts    *cli.Options
	cfg     *config.Config
	log     *slog.Logger
	title   *title.Title
	engine  *vm.Engine
	console *host.Console
}

// New creates an Application.
func New() *Application {
	return &Application{}
}

// Run parses args, loads the title's scripts and runs them until every
// instance finishes or the timeout elapses.
func (app *Application) Run(args []string) error {
	opts, err := cli.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	app.opts = opts

	if opts.ShowHelp {
		fmt.Print(cli.Usage())
		return nil
	}
	if opts.TitlePath == "" {
		return fmt.Errorf("no title path given; try -help")
	}

	if err := logger.Init(opts.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.log = logger.Get()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	app.cfg = cfg

	app.log.Info("application started", "title", opts.TitlePath, "headless", opts.Headless)

	cache, entry, err := app.loadScripts()
	if err != nil {
		return err
	}

	app.console = host.NewConsole(host.WithLogger(app.log))
	app.engine = app.newEngine(cache)

	id, err := app.engine.Invoke(entry)
	if err != nil {
		return fmt.Errorf("failed to start %q: %w", entry, err)
	}
	app.log.Info("entry script started", "script", entry, "instance", id)

	if opts.Headless {
		return app.runHeadless()
	}
	return app.runWindowed()
}

// loadScripts loads the title directory into a cache and picks the
// entry script: the manifest's entry when given, then "main", then
// the first name.
func (app *Application) loadScripts() (*script.Cache, string, error) {
	t, err := title.Open(app.opts.TitlePath)
	if err != nil {
		return nil, "", err
	}
	app.title = t
	app.log.Info("title opened", "name", t.DisplayName())

	loader := script.NewLoader(t.Path)
	scripts, err := loader.LoadAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load title: %w", err)
	}

	cache := script.NewCache()
	entry := scripts[0].Name
	for _, s := range scripts {
		cache.Put(s)
		if s.Name == script.EntryFunction {
			entry = s.Name
		}
		app.log.Info("script loaded", "name", s.Name, "size", len(s.Source))
	}

	if want := t.EntryScript(); want != "" {
		if _, ok := cache.Get(want); !ok {
			return nil, "", fmt.Errorf("manifest entry %q not among the loaded scripts", want)
		}
		entry = want
	}
	return cache, entry, nil
}

func (app *Application) newEngine(cache *script.Cache) *vm.Engine {
	engineOpts := []vm.Option{
		vm.WithLogger(app.log),
		vm.WithScriptCache(cache),
		vm.WithHosts(app.console.Hosts()),
		vm.WithMaxStackDepth(app.cfg.MaxStackDepth),
		vm.WithStepBudget(app.cfg.StepBudget),
	}
	if app.cfg.RandomSeed != 0 {
		engineOpts = append(engineOpts, vm.WithRandomSeed(app.cfg.RandomSeed))
	}
	return vm.New(engineOpts...)
}

// tick advances the application by one frame. Returns false when
// nothing is left to run.
func (app *Application) tick() bool {
	app.console.Pump(app.engine)
	app.engine.Tick()
	return len(app.engine.Live()) > 0
}

// runHeadless drives the engine with a wall-clock ticker instead of a
// window.
func (app *Application) runHeadless() error {
	app.log.Info("running headless", "tick_rate", app.cfg.TickRate)

	interval := time.Second / time.Duration(app.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if app.opts.Timeout > 0 {
		deadline = time.After(app.opts.Timeout)
	}

	for {
		select {
		case <-ticker.C:
			if !app.tick() {
				app.log.Info("all instances finished", "frames", app.engine.Frame())
				return nil
			}
		case <-deadline:
			app.log.Info("timeout reached", "frames", app.engine.Frame())
			app.engine.CancelAll()
			return nil
		}
	}
}
