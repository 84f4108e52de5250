package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazama/plotscript/pkg/cli"
	"github.com/hazama/plotscript/pkg/config"
	"github.com/hazama/plotscript/pkg/host"
)

func writeTitle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestApp(t *testing.T, titlePath string) *Application {
	t.Helper()
	return &Application{
		opts: &cli.Options{TitlePath: titlePath},
		cfg:  config.Default(),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLoadScripts(t *testing.T) {
	t.Run("main wins by name", func(t *testing.T) {
		dir := writeTitle(t, map[string]string{
			"aaa.pls":  "x = 1",
			"main.pls": "x = 2",
		})
		app := newTestApp(t, dir)
		cache, entry, err := app.loadScripts()
		if err != nil {
			t.Fatalf("loadScripts failed: %v", err)
		}
		if entry != "main" {
			t.Errorf("entry = %q, want main", entry)
		}
		if cache.Len() != 2 {
			t.Errorf("cache holds %d scripts, want 2", cache.Len())
		}
	})

	t.Run("first name without main", func(t *testing.T) {
		dir := writeTitle(t, map[string]string{
			"town.pls":  "x = 1",
			"intro.pls": "x = 2",
		})
		app := newTestApp(t, dir)
		_, entry, err := app.loadScripts()
		if err != nil {
			t.Fatalf("loadScripts failed: %v", err)
		}
		if entry != "intro" {
			t.Errorf("entry = %q, want intro", entry)
		}
	})

	t.Run("manifest entry overrides", func(t *testing.T) {
		dir := writeTitle(t, map[string]string{
			"main.pls":   "x = 1",
			"intro.pls":  "x = 2",
			"title.json": `{"name": "Demo", "entry": "intro"}`,
		})
		app := newTestApp(t, dir)
		_, entry, err := app.loadScripts()
		if err != nil {
			t.Fatalf("loadScripts failed: %v", err)
		}
		if entry != "intro" {
			t.Errorf("entry = %q, want intro", entry)
		}
		if app.title.DisplayName() != "Demo" {
			t.Errorf("DisplayName = %q, want Demo", app.title.DisplayName())
		}
	})

	t.Run("manifest entry must exist", func(t *testing.T) {
		dir := writeTitle(t, map[string]string{
			"main.pls":   "x = 1",
			"title.json": `{"entry": "missing"}`,
		})
		app := newTestApp(t, dir)
		if _, _, err := app.loadScripts(); err == nil {
			t.Error("loadScripts accepted a manifest entry that is not loaded")
		}
	})

	t.Run("empty title fails", func(t *testing.T) {
		app := newTestApp(t, t.TempDir())
		if _, _, err := app.loadScripts(); err == nil {
			t.Error("loadScripts of empty directory succeeded")
		}
	})
}

func TestTickRunsToCompletion(t *testing.T) {
	dir := writeTitle(t, map[string]string{
		"main.pls": `
main() {
	n = 0
	while n < 3 {
		Wait(1)
		n = n + 1
	}
	Message("done")
}
`,
	})
	app := newTestApp(t, dir)
	cache, entry, err := app.loadScripts()
	if err != nil {
		t.Fatalf("loadScripts failed: %v", err)
	}

	app.console = host.NewConsole(host.WithLogger(app.log), host.WithOutput(io.Discard))
	app.engine = app.newEngine(cache)

	if _, err := app.engine.Invoke(entry); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	ticks := 0
	for app.tick() {
		ticks++
		if ticks > 100 {
			t.Fatal("script did not finish in 100 ticks")
		}
	}
	if ticks < 3 {
		t.Errorf("finished after %d ticks, want at least the 3 waited frames", ticks)
	}
}
