package verso

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/verso-press/verso/internal/core"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     Mode
	}{
		{"server mode with 1", "1", ModeServer},
		{"build mode with empty", "", ModeBuild},
		{"build mode with 0", "0", ModeBuild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VERSO_DEV", tt.envValue)
			if got := DetectMode(); got != tt.want {
				t.Errorf("DetectMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html.tmpl", `{{ data "site" "title" }} at {{ canonicalUrl "index.html" }}`)
	writeFile(t, root, "layout.html.tmpl", `<html>{{ .Page.body }}</html>`)
	writeFile(t, root, "data/site.json", `{"title":"Hi"}`)

	site := New()
	_, err := site.Build(Options{Root: root}, func(s *Site) error {
		s.Set("layout", "layout.html.tmpl")
		return s.AddPage("index.html", map[string]any{"template": "index.html.tmpl"})
	})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "build", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(raw), "<html>Hi at /index.html</html>"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAutoloadRunsBeforeConfiguration(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/site.yaml", "title: From File\n")
	writeFile(t, root, "p.tmpl", `{{ data "site" "title" }}`)

	site := New()
	_, err := site.Build(Options{Root: root}, func(s *Site) error {
		// autoloaded data is already visible inside the configuration phase
		if got := s.Data("site", "title"); got != "From File" {
			t.Errorf("Data during configuration = %v", got)
		}
		// and explicit registration always wins
		s.AddData("site", map[string]any{"title": "Explicit"})
		return s.AddPage("p.html", map[string]any{"template": "p.tmpl"})
	})
	if err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(filepath.Join(root, "build", "p.html"))
	if string(raw) != "Explicit" {
		t.Errorf("output = %q", raw)
	}
}

func TestDataLoadFailureAbortsBeforeConfiguration(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/broken.json", `{"title":`)

	configured := false
	site := New()
	_, err := site.Build(Options{Root: root}, func(s *Site) error {
		configured = true
		return nil
	})
	if err == nil {
		t.Fatal("expected a data load error")
	}
	if configured {
		t.Error("configuration phase ran despite a fatal data error")
	}
}

func TestSiteFrozenAfterBuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "p.tmpl", "x")

	site := New()
	if _, err := site.Build(Options{Root: root}, func(s *Site) error {
		return s.AddPage("p.html", map[string]any{"template": "p.tmpl"})
	}); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic mutating a frozen site")
		}
	}()
	site.Set("late", true)
}

func TestRepeatedBuildSkipsConfiguration(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "p.tmpl", "x")

	runs := 0
	site := New()
	configure := func(s *Site) error {
		runs++
		return s.AddPage("p.html", map[string]any{"template": "p.tmpl"})
	}

	if _, err := site.Build(Options{Root: root}, configure); err != nil {
		t.Fatal(err)
	}
	if _, err := site.Build(Options{Root: root}, configure); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Errorf("configuration phase ran %d times, want 1", runs)
	}
}

func TestServeEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html.tmpl", `mode={{ server }} asset={{ assetPath "app.js" }}`)
	writeFile(t, root, "prebuild/app.js", "var x=1;")

	site := New()
	handler, err := site.Serve(Options{Root: root}, func(s *Site) error {
		return s.AddPage("index.html", map[string]any{"template": "index.html.tmpl"})
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// server mode never hashes: the literal name resolves
	if got, want := rec.Body.String(), "mode=true asset=/app.js"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rec.Body.String() != "var x=1;" {
		t.Errorf("prebuild fallback body = %q", rec.Body.String())
	}
}

func TestHelperRegistrationPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "p.tmpl", `{{ shout "hi" }} {{ stamp }}`)

	site := New()
	_, err := site.Build(Options{Root: root}, func(s *Site) error {
		s.Helper("shout", func(v string) string { return v + "!" })
		s.HelperBundle(stampBundle{})

		if _, ok := s.HelperFunc("shout"); !ok {
			t.Error("helper not visible during configuration phase")
		}
		return s.AddPage("p.html", map[string]any{"template": "p.tmpl"})
	})
	if err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(filepath.Join(root, "build", "p.html"))
	if string(raw) != "hi! v1" {
		t.Errorf("output = %q", raw)
	}
}

type stampBundle struct{}

func (stampBundle) Helpers() map[string]any {
	return map[string]any{"stamp": func() string { return "v1" }}
}

func TestConfigurationErrorAbortsBuild(t *testing.T) {
	root := t.TempDir()

	site := New()
	_, err := site.Build(Options{Root: root}, func(s *Site) error {
		return s.AddPage("broken.html", map[string]any{"title": "no template"})
	})
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}
}
