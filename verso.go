// Package verso turns a declarative set of page definitions, shared
// configuration and project data into rendered output, either written to a
// build directory or served live during development.
//
// A Site is populated during a single configuration phase (the callback
// passed to Build or Serve) and frozen afterwards; both engines then work
// off the same immutable stores, so a page renders identically in build
// and server mode apart from asset hashing.
package verso

import (
	"net/http"
	"path/filepath"

	"github.com/verso-press/verso/internal/assets"
	"github.com/verso-press/verso/internal/build"
	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/helpers"
	"github.com/verso-press/verso/internal/log"
	"github.com/verso-press/verso/internal/render"
	"github.com/verso-press/verso/internal/server"
	"github.com/verso-press/verso/internal/sitemap"
	"github.com/verso-press/verso/internal/store"
)

// Mode selects the engine: one-shot build to disk, or the dev server.
type Mode = core.Mode

const (
	ModeBuild  = core.ModeBuild
	ModeServer = core.ModeServer
)

// DetectMode reads the process-level mode signal (VERSO_DEV=1 selects
// server mode).
func DetectMode() Mode { return core.DetectMode() }

// Bundle is a named collection of helper functions registered together.
type Bundle = helpers.Bundle

// Report summarises a build run.
type Report = build.Report

// Configure is the configuration phase: the only place a Site may be
// mutated. It runs after data autoload completes, so explicit AddData calls
// always win over autoloaded namespaces.
type Configure func(*Site) error

// Options locate the project on disk. Paths other than Root are relative
// to Root.
type Options struct {
	Root        string // project root; templates resolve against it (default ".")
	DataDir     string // autoloaded data files (default "data")
	PrebuildDir string // externally produced static assets (default "prebuild")
	OutputDir   string // build output root (default "build")
	Workers     int    // bounded render pool for builds (default NumCPU)
	LogLevel    string // zerolog level for the global logger
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if o.DataDir == "" {
		o.DataDir = "data"
	}
	if o.PrebuildDir == "" {
		o.PrebuildDir = "prebuild"
	}
	if o.OutputDir == "" {
		o.OutputDir = "build"
	}
	return o
}

// Site is the builder passed through the configuration phase. After the
// phase ends it is frozen; any later mutation panics.
type Site struct {
	config  *store.Config
	data    *store.Data
	pages   *sitemap.Sitemap
	helpers *helpers.Registry
	frozen  bool
}

func New() *Site {
	return &Site{
		config:  store.NewConfig(),
		data:    store.NewData(),
		pages:   sitemap.New(),
		helpers: helpers.New(),
	}
}

// Set stores a config value. Last write wins; keys are never deleted.
func (s *Site) Set(key string, value any) { s.config.Set(key, value) }

// Get reads a config value, the documented default for the prefix keys, or
// nil. Reads never mutate.
func (s *Site) Get(key string) any { return s.config.Get(key) }

// AddData registers a data namespace explicitly, replacing an autoloaded or
// previously added namespace of the same name wholesale.
func (s *Site) AddData(namespace string, value any) { s.data.Add(namespace, value) }

// Data reads a namespace, optionally drilling into nested maps. Missing
// lookups yield nil, never an error.
func (s *Site) Data(namespace string, keys ...string) any { return s.data.Get(namespace, keys...) }

// AddPage registers a page. The attributes must include "template"; they
// may include "layout" (a template name, or false/"" to opt out of the
// global layout) and "digest" (content-hash the rendered output); anything
// else is passed through to templates on .Page. Re-registering a path
// overwrites the prior entry.
func (s *Site) AddPage(path string, attributes map[string]any) error {
	return s.pages.AddPage(path, attributes)
}

// Helper registers one ad hoc helper callable from templates and, via
// HelperFunc, from configuration-phase code. Registering a built-in's name
// overrides the built-in.
func (s *Site) Helper(name string, fn any) { s.helpers.Register(name, fn) }

// Helpers registers a block of helpers at once.
func (s *Site) Helpers(fns map[string]any) { s.helpers.RegisterAll(fns) }

// HelperBundle mixes in a capability bundle. Bundle functions share the
// same namespace as ad hoc helpers.
func (s *Site) HelperBundle(b Bundle) { s.helpers.RegisterBundle(b) }

// HelperFunc looks a registered helper up by name.
func (s *Site) HelperFunc(name string) (any, bool) { return s.helpers.Lookup(name) }

// Build runs the configuration phase and then renders the whole sitemap to
// Options.OutputDir. Page errors are collected in the report rather than
// aborting the run; the returned error is non-nil if any page failed.
func (s *Site) Build(opts Options, configure Configure) (*Report, error) {
	opts = opts.withDefaults()
	renderer, resolver, err := s.prepare(core.ModeBuild, opts, configure)
	if err != nil {
		return nil, err
	}

	engine := build.NewEngine(renderer, s.pages, resolver, build.Options{
		OutputDir:   filepath.Join(opts.Root, opts.OutputDir),
		PrebuildDir: filepath.Join(opts.Root, opts.PrebuildDir),
		Workers:     opts.Workers,
	})
	return engine.Run()
}

// Serve runs the configuration phase and returns the dev server handler.
// The mode is fixed to server for the life of the process; every request
// re-renders from current disk state and asset hashing never applies.
func (s *Site) Serve(opts Options, configure Configure) (http.Handler, error) {
	opts = opts.withDefaults()
	renderer, _, err := s.prepare(core.ModeServer, opts, configure)
	if err != nil {
		return nil, err
	}

	srv := server.New(renderer, s.pages, filepath.Join(opts.Root, opts.PrebuildDir))
	return srv.Handler(), nil
}

// prepare runs autoload, the configuration phase and the freeze, in that
// order, then wires a renderer with a fresh asset table. On an already
// frozen site (a repeated Build) the configuration phase is skipped.
func (s *Site) prepare(mode core.Mode, opts Options, configure Configure) (*render.Renderer, *assets.Resolver, error) {
	log.Configure(log.Config{Level: opts.LogLevel})

	if !s.frozen {
		if err := s.data.Autoload(filepath.Join(opts.Root, opts.DataDir)); err != nil {
			return nil, nil, err
		}
		if configure != nil {
			if err := configure(s); err != nil {
				return nil, nil, err
			}
		}
		s.freeze()
	}

	resolver := assets.NewResolver()
	renderer := &render.Renderer{
		Root:    opts.Root,
		Config:  s.config,
		Data:    s.data,
		Helpers: s.helpers,
		Assets:  resolver,
		Mode:    mode,
	}
	return renderer, resolver, nil
}

func (s *Site) freeze() {
	s.config.Freeze()
	s.data.Freeze()
	s.pages.Freeze()
	s.helpers.Freeze()
	s.frozen = true
}
