// Package manifest loads a declarative site.yaml so a project can be built
// or served from the CLI without writing Go. The manifest is just a
// serialized configuration phase: it populates a Site through the same API.
package manifest

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/verso-press/verso"
)

type Manifest struct {
	Config      map[string]any `yaml:"config"`
	DataDir     string         `yaml:"data_dir"`
	PrebuildDir string         `yaml:"prebuild_dir"`
	OutputDir   string         `yaml:"output_dir"`
	Pages       []Page         `yaml:"pages"`
}

// Page mirrors a sitemap entry. Layout may be a template name or false for
// an explicit opt-out of the global layout.
type Page struct {
	Path     string         `yaml:"path"`
	Template string         `yaml:"template"`
	Layout   any            `yaml:"layout"`
	Digest   bool           `yaml:"digest"`
	Extra    map[string]any `yaml:"extra"`
}

func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Options folds the manifest's directory settings into base options.
// Explicit base values win over manifest values.
func (m *Manifest) Options(base verso.Options) verso.Options {
	if base.DataDir == "" {
		base.DataDir = m.DataDir
	}
	if base.PrebuildDir == "" {
		base.PrebuildDir = m.PrebuildDir
	}
	if base.OutputDir == "" {
		base.OutputDir = m.OutputDir
	}
	return base
}

// Apply is the manifest's configuration phase: config values first, then
// pages in declaration order.
func (m *Manifest) Apply(s *verso.Site) error {
	for key, value := range m.Config {
		s.Set(key, value)
	}

	for _, page := range m.Pages {
		attrs := make(map[string]any, len(page.Extra)+3)
		for k, v := range page.Extra {
			attrs[k] = v
		}
		attrs["template"] = page.Template
		if page.Layout != nil {
			attrs["layout"] = page.Layout
		}
		if page.Digest {
			attrs["digest"] = true
		}
		if err := s.AddPage(page.Path, attrs); err != nil {
			return err
		}
	}
	return nil
}
