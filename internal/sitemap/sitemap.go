// Package sitemap is the ordered registry of page path to page attributes.
package sitemap

import (
	"github.com/verso-press/verso/internal/core"
)

// Attribute keys recognised on a page entry. Everything else lands in Extra
// and is visible to templates through the render context.
const (
	AttrTemplate = "template"
	AttrLayout   = "layout"
	AttrDigest   = "digest"
)

// Entry is one registered page. Layout is nil when unset (global layout
// applies), a string naming a layout template, or an explicit opt-out
// (false or "").
type Entry struct {
	Path     string
	Template string
	Layout   any
	Digest   bool
	Extra    map[string]any
}

// Attributes returns the entry's full attribute map as seen by templates.
func (e Entry) Attributes() map[string]any {
	attrs := make(map[string]any, len(e.Extra)+4)
	for k, v := range e.Extra {
		attrs[k] = v
	}
	attrs["path"] = e.Path
	attrs[AttrTemplate] = e.Template
	if e.Layout != nil {
		attrs[AttrLayout] = e.Layout
	}
	attrs[AttrDigest] = e.Digest
	return attrs
}

// Sitemap preserves registration order for deterministic build iteration.
// Paths are unique: re-registering a path replaces the attributes but keeps
// the first registration's position.
type Sitemap struct {
	order  []string
	byPath map[string]Entry
	frozen bool
}

func New() *Sitemap {
	return &Sitemap{byPath: make(map[string]Entry)}
}

// AddPage validates and stores an entry. A missing template attribute is a
// configuration-time error.
func (s *Sitemap) AddPage(path string, attributes map[string]any) error {
	if s.frozen {
		panic("verso: sitemap mutated after configuration phase")
	}

	path = core.NormalizePagePath(path)
	if err := core.ValidatePagePath(path); err != nil {
		return &core.ConfigError{Subject: path, Reason: err.Error()}
	}

	template, _ := attributes[AttrTemplate].(string)
	if template == "" {
		return &core.ConfigError{Subject: path, Reason: "page requires a template attribute"}
	}

	entry := Entry{
		Path:     path,
		Template: template,
		Extra:    make(map[string]any),
	}
	for k, v := range attributes {
		switch k {
		case AttrTemplate:
		case AttrLayout:
			entry.Layout = v
		case AttrDigest:
			if b, ok := v.(bool); ok {
				entry.Digest = b
			}
		default:
			entry.Extra[k] = v
		}
	}

	if _, exists := s.byPath[path]; !exists {
		s.order = append(s.order, path)
	}
	s.byPath[path] = entry
	return nil
}

// Get looks up a page by its normalized path.
func (s *Sitemap) Get(path string) (Entry, bool) {
	e, ok := s.byPath[core.NormalizePagePath(path)]
	return e, ok
}

// Entries returns the pages in registration order. The slice is fresh on
// every call; iterating it never observes later mutation.
func (s *Sitemap) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.byPath[p])
	}
	return out
}

func (s *Sitemap) Len() int { return len(s.order) }

// Freeze marks the end of the configuration phase.
func (s *Sitemap) Freeze() { s.frozen = true }
