// Package title describes title directories: named folders of plot
// scripts with an optional manifest.
package title

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazama/plotscript/pkg/fileutil"
	"github.com/hazama/plotscript/pkg/script"
)

// ManifestFile is the optional per-title manifest name (matched
// case-insensitively).
const ManifestFile = "title.json"

// Manifest holds the optional metadata a title ships alongside its
// scripts. Every field may be empty.
type Manifest struct {
	// Name is the display name. Defaults to the directory name.
	Name string `json:"name"`

	// Entry names the script invoked at startup, with or without the
	// script extension.
	Entry string `json:"entry"`

	Author    string `json:"author"`
	Copyright string `json:"copyright"`
	Comment   string `json:"comment"`
}

// Title is a discovered title directory.
type Title struct {
	Name     string // directory name
	Path     string
	Manifest *Manifest // nil when the title has no manifest
}

// Open inspects a title directory: it must contain at least one script
// file, and its manifest is read when present.
func Open(path string) (*Title, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open title: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("title path %s is not a directory", path)
	}

	t := &Title{
		Name: filepath.Base(filepath.Clean(path)),
		Path: path,
	}

	if !hasScripts(path) {
		return nil, fmt.Errorf("no %s files found in %s", script.Ext, path)
	}

	manifest, err := readManifest(path)
	if err != nil {
		return nil, err
	}
	t.Manifest = manifest

	return t, nil
}

// List discovers the titles directly under root: every subdirectory
// that contains at least one script file, in name order.
func List(root string) ([]*Title, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read titles root: %w", err)
	}

	var titles []*Title
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if !hasScripts(path) {
			continue
		}
		t, err := Open(path)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}

	sort.Slice(titles, func(i, j int) bool { return titles[i].Name < titles[j].Name })
	return titles, nil
}

// DisplayName returns the manifest name, or the directory name when
// the manifest does not give one.
func (t *Title) DisplayName() string {
	if t.Manifest != nil && t.Manifest.Name != "" {
		return t.Manifest.Name
	}
	return t.Name
}

// EntryScript returns the script name the manifest designates as the
// entry point, without the file extension. Empty when unspecified.
func (t *Title) EntryScript() string {
	if t.Manifest == nil || t.Manifest.Entry == "" {
		return ""
	}
	entry := t.Manifest.Entry
	if strings.EqualFold(filepath.Ext(entry), script.Ext) {
		entry = entry[:len(entry)-len(script.Ext)]
	}
	return entry
}

// hasScripts reports whether any script file lives under dir.
func hasScripts(dir string) bool {
	found := false
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), script.Ext) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// readManifest loads the title manifest if one exists.
func readManifest(dir string) (*Manifest, error) {
	data, err := fileutil.ReadFileCaseInsensitive(dir, ManifestFile)
	if err != nil {
		// A manifest is optional; only a broken one is an error.
		return nil, nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
	}
	return &m, nil
}
