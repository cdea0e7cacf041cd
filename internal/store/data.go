package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/ohler55/ojg/oj"

	"github.com/verso-press/verso/internal/core"
)

// Data is the namespaced read-only project data store. Namespaces come from
// autoloaded files (basename without extension) or explicit registration; a
// later write replaces the namespace wholesale, there is no deep merge.
type Data struct {
	namespaces map[string]any
	frozen     bool
}

func NewData() *Data {
	return &Data{namespaces: make(map[string]any)}
}

// Autoload scans dir (non-recursive) and registers every .json, .yaml and
// .yml file under its basename. A parse failure for any file is fatal. A
// missing directory is not: a project without data is a valid project.
func (d *Data) Autoload(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))

		var parse func([]byte) (any, error)
		switch ext {
		case ".json":
			parse = func(b []byte) (any, error) { return oj.Parse(b) }
		case ".yaml", ".yml":
			parse = parseYAML
		default:
			continue
		}

		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return &core.DataLoadError{File: path, Err: err}
		}
		value, err := parse(raw)
		if err != nil {
			return &core.DataLoadError{File: path, Err: err}
		}
		d.Add(strings.TrimSuffix(name, filepath.Ext(name)), value)
	}
	return nil
}

func parseYAML(raw []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Add registers a namespace explicitly, overwriting any autoloaded or
// previously added namespace of the same name.
func (d *Data) Add(namespace string, value any) {
	if d.frozen {
		panic("verso: data store mutated after configuration phase")
	}
	d.namespaces[namespace] = value
}

// Get returns the namespace value, or a nested lookup when keys are given.
// Any missing step yields nil rather than an error, keeping templates
// resilient to absent data.
func (d *Data) Get(namespace string, keys ...string) any {
	value, ok := d.namespaces[namespace]
	if !ok {
		return nil
	}
	for _, key := range keys {
		value = lookup(value, key)
		if value == nil {
			return nil
		}
	}
	return value
}

func lookup(value any, key string) any {
	switch m := value.(type) {
	case map[string]any:
		return m[key]
	case map[any]any:
		return m[key]
	}
	return nil
}

// Freeze marks the end of the configuration phase.
func (d *Data) Freeze() { d.frozen = true }
