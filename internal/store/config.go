// Package store holds the two shared value stores: key/value configuration
// and namespaced project data. Both are mutable only during the
// configuration phase and frozen before anything renders.
package store

// Config keys with documented defaults.
const (
	KeyHTTPPrefix      = "http_prefix"
	KeyAssetHTTPPrefix = "asset_http_prefix"
	KeyLayout          = "layout"
)

const defaultHTTPPrefix = "/"

// Config is the settings store. Reads never mutate; the last Set for a key
// wins; keys are never deleted. An unset key reads as nil, except for the
// prefix keys which carry defaults.
type Config struct {
	values map[string]any
	frozen bool
}

func NewConfig() *Config {
	return &Config{values: make(map[string]any)}
}

// Set stores a value unconditionally. Calling Set after the configuration
// phase is a programming error and panics.
func (c *Config) Set(key string, value any) {
	if c.frozen {
		panic("verso: config mutated after configuration phase")
	}
	c.values[key] = value
}

// Get returns the stored value, the documented default for the prefix keys,
// or nil for anything else.
func (c *Config) Get(key string) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	switch key {
	case KeyHTTPPrefix:
		return defaultHTTPPrefix
	case KeyAssetHTTPPrefix:
		return c.Get(KeyHTTPPrefix)
	}
	return nil
}

// GetString is Get constrained to string values; non-strings read as "".
func (c *Config) GetString(key string) string {
	if s, ok := c.Get(key).(string); ok {
		return s
	}
	return ""
}

// Freeze marks the end of the configuration phase.
func (c *Config) Freeze() { c.frozen = true }
