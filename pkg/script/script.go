// Package script provides plot script loading and the parsed-script cache.
// Scripts are parsed once at load time; the resulting AST is immutable and
// shared read-only by every running instance of the script.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/hazama/plotscript/pkg/parser"
)

// Ext is the plot script file extension (matched case-insensitively).
const Ext = ".pls"

// EntryFunction is the optional entry point a script may define.
// Invocation arguments bind to its parameters.
const EntryFunction = "main"

// Script is a named, parsed plot script. Never mutated after load.
type Script struct {
	Name    string
	Source  string
	Program *parser.Program
	Funcs   map[string]*parser.FunctionStatement
	Params  []string // parameters of the entry function, nil without one
}

// Function returns the named function defined by this script.
func (s *Script) Function(name string) (*parser.FunctionStatement, bool) {
	fn, ok := s.Funcs[name]
	return fn, ok
}

// Entry returns the script's entry function, if it defines one.
func (s *Script) Entry() (*parser.FunctionStatement, bool) {
	return s.Function(EntryFunction)
}

// Compile parses source text into a Script.
func Compile(name, source string) (*Script, error) {
	program, err := parser.ParseSource(source)
	if err != nil {
		return nil, err
	}

	s := &Script{
		Name:    name,
		Source:  source,
		Program: program,
		Funcs:   program.Functions(),
	}
	if entry, ok := s.Entry(); ok {
		s.Params = entry.Parameters
	}
	return s, nil
}

// Cache is the name-keyed table of loaded scripts.
type Cache struct {
	mu   sync.RWMutex
	byID map[string]*Script
}

// NewCache creates an empty script cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]*Script)}
}

// Load parses source text and caches it under name, replacing any
// previously loaded script with the same name. Lex and parse errors fail
// the load for that script only.
func (c *Cache) Load(name, source string) error {
	s, err := Compile(name, source)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[name] = s
	return nil
}

// Put caches an already compiled script.
func (c *Cache) Put(s *Script) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[s.Name] = s
}

// Get returns the cached script with the given name.
func (c *Cache) Get(name string) (*Script, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[name]
	return s, ok
}

// Unload removes a script from the cache. Running instances keep their
// reference; only future lookups are affected.
func (c *Cache) Unload(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[name]; !ok {
		return false
	}
	delete(c.byID, name)
	return true
}

// Names returns the loaded script names in sorted order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.byID))
	for name := range c.byID {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded scripts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Loader reads plot script files from a title directory.
type Loader struct {
	titlePath string
}

// NewLoader creates a Loader rooted at the given title directory.
func NewLoader(titlePath string) *Loader {
	return &Loader{titlePath: titlePath}
}

// LoadAll finds and reads every script file under the title directory.
// Script names are the file base names without extension.
func (l *Loader) LoadAll() ([]*Script, error) {
	files, err := l.findScriptFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find script files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", Ext, l.titlePath)
	}

	var scripts []*Script
	for _, path := range files {
		s, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load script %s: %w", path, err)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// findScriptFiles detects script files (case-insensitive extension match).
func (l *Loader) findScriptFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(l.titlePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// loadFile reads and parses a single script file.
func (l *Loader) loadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	source, err := decodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source: %w", err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return Compile(name, source)
}

// decodeSource interprets file bytes as UTF-8, falling back to Shift-JIS
// for scripts from legacy titles.
func decodeSource(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode Shift-JIS: %w", err)
	}
	return string(decoded), nil
}
