// Package config implements the configuration manager (SPEC_FULL §2):
// a reader/writer-locked Variables record loaded from settings.ini,
// located via a documented search order and parsed as TOML.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Variables is the simulation kernel's configuration record (spec.md §6
// "Configuration paths"): engine defaults plus arbitrary component
// sections, accessed under a RWMutex since the CLI may reload it while a
// long-running embedder reads it.
type Variables struct {
	mu sync.RWMutex

	DefaultQuantum     float64
	DefaultTimeStep    float64
	DefaultObserverCap int
	Sections           map[string]Section
}

// Section is one [table] of settings.ini, decoded as a flat key/value map.
type Section map[string]any

// New returns Variables populated with engine defaults.
func New() *Variables {
	return &Variables{
		DefaultQuantum:     1e-3,
		DefaultTimeStep:    1e-2,
		DefaultObserverCap: 1024,
		Sections:           make(map[string]Section),
	}
}

// Get returns a copy of a top-level scalar/default field, or a section's
// key, safely under a read lock.
func (v *Variables) Get(section, key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s, ok := v.Sections[section]
	if !ok {
		return nil, false
	}
	val, ok := s[key]
	return val, ok
}

// Set stores a value in a section, creating it if absent.
func (v *Variables) Set(section, key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.Sections == nil {
		v.Sections = make(map[string]Section)
	}
	s, ok := v.Sections[section]
	if !ok {
		s = make(Section)
		v.Sections[section] = s
	}
	s[key] = value
}

// searchPaths returns settings.ini candidate locations in priority order,
// per spec.md §6: "$XDG_CONFIG_HOME, then $HOME/.config, then the
// executable's directory, then the current working directory."
func searchPaths(appName string) []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "settings.ini"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "settings.ini"))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "settings.ini"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, "settings.ini"))
	}
	return paths
}

// Load searches the documented locations for appName's settings.ini and
// decodes the first one found. It returns New()'s defaults, untouched, if
// no file is found.
func Load(appName string) (*Variables, error) {
	v := New()
	for _, p := range searchPaths(appName) {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := LoadFile(v, p); err != nil {
			return nil, err
		}
		return v, nil
	}
	return v, nil
}

// LoadFile decodes path's TOML content into v: known top-level keys
// (default_quantum, default_time_step, default_observer_capacity) update
// the matching field, and every other top-level table becomes a Section.
func LoadFile(v *Variables, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	doc := make(map[string]any)
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return err
	}

	if q, ok := doc["default_quantum"].(float64); ok {
		v.DefaultQuantum = q
	}
	if ts, ok := doc["default_time_step"].(float64); ok {
		v.DefaultTimeStep = ts
	}
	if oc, ok := doc["default_observer_capacity"].(int64); ok {
		v.DefaultObserverCap = int(oc)
	}
	if v.Sections == nil {
		v.Sections = make(map[string]Section)
	}
	for key, val := range doc {
		table, ok := val.(map[string]any)
		if !ok {
			continue
		}
		sec := make(Section, len(table))
		for k, tv := range table {
			sec[k] = tv
		}
		v.Sections[key] = sec
	}
	return nil
}
