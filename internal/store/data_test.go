package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verso-press/verso/internal/core"
)

func writeData(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestAutoloadJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "site.json", `{"title":"Hi"}`)
	writeData(t, dir, "nav.yaml", "links:\n  - home\n  - about\n")
	writeData(t, dir, "notes.yml", "pinned: true\n")
	writeData(t, dir, "README.txt", "not data")

	d := NewData()
	require.NoError(t, d.Autoload(dir))

	assert.Equal(t, "Hi", d.Get("site", "title"))
	assert.NotNil(t, d.Get("nav", "links"))
	assert.Equal(t, true, d.Get("notes", "pinned"))
	assert.Nil(t, d.Get("README"), "unknown extensions are skipped")
}

func TestAutoloadParseFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "broken.json", `{"title":`)

	d := NewData()
	err := d.Autoload(dir)
	require.Error(t, err)

	var loadErr *core.DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.File, "broken.json")
}

func TestAutoloadMissingDirIsNotAnError(t *testing.T) {
	d := NewData()
	assert.NoError(t, d.Autoload(filepath.Join(t.TempDir(), "absent")))
}

func TestAutoloadIsNonRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeData(t, filepath.Join(dir, "nested"), "deep.json", `{"a":1}`)

	d := NewData()
	require.NoError(t, d.Autoload(dir))
	assert.Nil(t, d.Get("deep"))
}

func TestExplicitAddOverwritesAutoload(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "site.json", `{"title":"From file"}`)

	d := NewData()
	require.NoError(t, d.Autoload(dir))
	d.Add("site", map[string]any{"title": "Explicit"})

	assert.Equal(t, "Explicit", d.Get("site", "title"))
	assert.Nil(t, d.Get("site", "gone"), "replacement is wholesale, not a merge")
}

func TestGetMissingLookupsReturnNil(t *testing.T) {
	d := NewData()
	d.Add("site", map[string]any{"nested": map[string]any{"k": "v"}})

	assert.Nil(t, d.Get("absent"))
	assert.Nil(t, d.Get("site", "absent"))
	assert.Nil(t, d.Get("site", "nested", "absent"))
	assert.Equal(t, "v", d.Get("site", "nested", "k"))
}

func TestDataFreezePanicsOnAdd(t *testing.T) {
	d := NewData()
	d.Freeze()
	assert.Panics(t, func() { d.Add("ns", 1) })
}
