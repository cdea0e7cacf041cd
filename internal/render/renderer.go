// Package render resolves template paths, builds render contexts, executes
// templates through the evaluator, and composes layouts.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/verso-press/verso/internal/assets"
	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/helpers"
	"github.com/verso-press/verso/internal/sitemap"
	"github.com/verso-press/verso/internal/store"
)

// Renderer executes templates against frozen stores. It is safe for
// concurrent use: every render call builds its own context and the shared
// state is read-only once the configuration phase ends.
type Renderer struct {
	Root    string
	Config  *store.Config
	Data    *store.Data
	Helpers *helpers.Registry
	Assets  *assets.Resolver
	Mode    core.Mode
}

// Context is the per-render binding handed to the evaluator. Page is a copy
// of the current page's attributes merged with any partial locals; Config,
// Data and the helpers are shared references to the frozen stores.
type Context struct {
	Page map[string]any
}

// RenderPage renders a sitemap entry with layout composition. The page
// template renders first; if a layout applies, it renders with the same
// page attributes plus the page output injected as "body".
func (r *Renderer) RenderPage(entry sitemap.Entry) (string, error) {
	attrs := entry.Attributes()

	body, err := r.render(entry.Template, entry.Path, attrs)
	if err != nil {
		return "", err
	}

	layout, ok := r.layoutFor(entry)
	if !ok {
		return body, nil
	}

	layoutAttrs := mergeAttrs(attrs, map[string]any{"body": body})
	return r.render(layout, entry.Path, layoutAttrs)
}

// RenderPartial renders a template with no layout wrapping, as the render
// helper does for partials. The nested context shares config, data and
// helpers but carries its own page attributes merged with locals.
func (r *Renderer) RenderPartial(templatePath, pagePath string, attrs, locals map[string]any) (string, error) {
	return r.render(templatePath, pagePath, mergeAttrs(attrs, locals))
}

// layoutFor resolves the layout for an entry. An unset layout falls back to
// the global "layout" config; false or "" is a definitive opt-out even when
// a global layout is set.
func (r *Renderer) layoutFor(entry sitemap.Entry) (string, bool) {
	switch l := entry.Layout.(type) {
	case string:
		if l == "" {
			return "", false
		}
		return l, true
	case bool:
		if !l {
			return "", false
		}
	case nil:
	default:
		return "", false
	}
	global := r.Config.GetString(store.KeyLayout)
	return global, global != ""
}

func (r *Renderer) render(templatePath, pagePath string, attrs map[string]any) (string, error) {
	src, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(templatePath)))
	if err != nil {
		return "", core.WrapRender(templatePath, pagePath, fmt.Errorf("template not found: %w", err))
	}

	tmpl, err := template.New(templatePath).
		Option("missingkey=error").
		Funcs(r.funcMap(pagePath, attrs)).
		Parse(string(src))
	if err != nil {
		return "", core.WrapRender(templatePath, pagePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Context{Page: attrs}); err != nil {
		return "", core.WrapRender(templatePath, pagePath, err)
	}
	return buf.String(), nil
}

// mergeAttrs copies base and lays overrides on top; overrides win on key
// conflicts. The originals are never mutated.
func mergeAttrs(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
