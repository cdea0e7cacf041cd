package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/store"
)

var markdownConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// funcMap assembles the evaluator bindings for one render: the built-in
// helpers first, then user registrations, so a user helper of the same name
// overrides the built-in.
func (r *Renderer) funcMap(pagePath string, attrs map[string]any) template.FuncMap {
	fm := template.FuncMap{
		"render": func(templatePath string, locals ...map[string]any) (string, error) {
			var l map[string]any
			if len(locals) > 0 {
				l = locals[0]
			}
			return r.RenderPartial(templatePath, pagePath, attrs, l)
		},
		"includeFile": func(path string) (string, error) {
			raw, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(path)))
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
		"config": func(key string) any {
			return r.Config.Get(key)
		},
		"data": func(namespace string, keys ...string) any {
			return r.Data.Get(namespace, keys...)
		},
		"httpPrefix": func() string {
			return r.Config.GetString(store.KeyHTTPPrefix)
		},
		"assetHttpPrefix": func() string {
			return r.Config.GetString(store.KeyAssetHTTPPrefix)
		},
		"assetPath": func(segments ...string) string {
			rel := core.JoinSegments(segments...)
			return core.PrefixURL(r.Config.GetString(store.KeyAssetHTTPPrefix), r.Assets.Resolve(r.Mode, rel))
		},
		"canonicalUrl": func(segments ...string) string {
			return core.PrefixURL(r.Config.GetString(store.KeyHTTPPrefix), core.JoinSegments(segments...))
		},
		"production":  func() bool { return r.Mode == core.ModeBuild },
		"build":       func() bool { return r.Mode == core.ModeBuild },
		"development": func() bool { return r.Mode == core.ModeServer },
		"server":      func() bool { return r.Mode == core.ModeServer },
		"dict":        dict,
		"markdown":    markdown,
		"titleize": func(s string) string {
			return cases.Title(language.English).String(s)
		},
	}

	for name, fn := range r.Helpers.All() {
		fm[name] = fn
	}
	return fm
}

// dict builds a map for partial locals; the evaluator has no map literal.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict requires key/value pairs, got %d arguments", len(pairs))
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func markdown(src any) (string, error) {
	text, ok := src.(string)
	if !ok {
		return "", fmt.Errorf("markdown expects a string, got %T", src)
	}
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
