package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	ErrInvalid           = errors.New("invalid manifest")
)

// Window describes a text window declared by a manifest
type Window struct {
	Name  string   `toml:"name" yaml:"name"`
	Title string   `toml:"title" yaml:"title"`
	Lines []string `toml:"lines" yaml:"lines"`
}

// App describes one application
type App struct {
	Name              string   `toml:"name" yaml:"name"`
	Parent            string   `toml:"parent" yaml:"parent"`
	StartInBackground bool     `toml:"start_in_background" yaml:"start_in_background"`
	MainWindow        string   `toml:"main_window" yaml:"main_window"`
	Windows           []Window `toml:"windows" yaml:"windows"`
}

// Manifest is the list of applications the runtime launches at boot
type Manifest struct {
	Home string `toml:"home" yaml:"home"`
	Apps []App  `toml:"apps" yaml:"apps"`
}

// Load reads a manifest, choosing the decoder by file extension
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes a manifest in the given format ("toml", "yaml" or "yml")
func Parse(data []byte, format string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names are present and unique and that parents and main
// windows refer to declared entries
func (m *Manifest) Validate() error {
	apps := make(map[string]bool, len(m.Apps))
	for _, a := range m.Apps {
		if a.Name == "" {
			return fmt.Errorf("%w: application without a name", ErrInvalid)
		}
		if apps[a.Name] {
			return fmt.Errorf("%w: duplicate application %s", ErrInvalid, a.Name)
		}
		apps[a.Name] = true

		windows := make(map[string]bool, len(a.Windows))
		for _, w := range a.Windows {
			if w.Name == "" {
				return fmt.Errorf("%w: %s declares a window without a name", ErrInvalid, a.Name)
			}
			if windows[w.Name] {
				return fmt.Errorf("%w: %s declares window %s twice", ErrInvalid, a.Name, w.Name)
			}
			windows[w.Name] = true
		}
		if a.MainWindow != "" && !windows[a.MainWindow] {
			return fmt.Errorf("%w: %s main window %s is not declared", ErrInvalid, a.Name, a.MainWindow)
		}
	}

	for _, a := range m.Apps {
		if a.Parent != "" && !apps[a.Parent] {
			return fmt.Errorf("%w: %s has unknown parent %s", ErrInvalid, a.Name, a.Parent)
		}
	}
	if m.Home != "" && !apps[m.Home] {
		return fmt.Errorf("%w: home application %s is not declared", ErrInvalid, m.Home)
	}
	return nil
}

// Find returns the application named name
func (m *Manifest) Find(name string) (App, bool) {
	for _, a := range m.Apps {
		if a.Name == name {
			return a, true
		}
	}
	return App{}, false
}
