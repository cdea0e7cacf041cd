// Package build drives the renderer and asset resolver across the whole
// sitemap and writes output to disk.
package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/verso-press/verso/internal/assets"
	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/log"
	"github.com/verso-press/verso/internal/render"
	"github.com/verso-press/verso/internal/sitemap"
)

type Options struct {
	OutputDir   string
	PrebuildDir string
	Workers     int // bounded render pool; defaults to runtime.NumCPU
}

type Engine struct {
	renderer *render.Renderer
	pages    *sitemap.Sitemap
	resolver *assets.Resolver
	opts     Options
}

func NewEngine(renderer *render.Renderer, pages *sitemap.Sitemap, resolver *assets.Resolver, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{
		renderer: renderer,
		pages:    pages,
		resolver: resolver,
		opts:     opts,
	}
}

// Run executes a full build: scan the prebuild directory into the hash
// table, render digested pages (registering their hashes), render the
// remaining pages, copy prebuild files under their hashed names. The
// resolver must be fully populated before any digested render begins, so
// the scan is strictly first; the page phases run on a bounded pool and
// collect render errors instead of stopping at the first one.
func (e *Engine) Run() (*Report, error) {
	logger := log.WithComponent("build")
	report := newReport()

	if err := e.resolver.Scan(e.opts.PrebuildDir); err != nil {
		return report, err
	}
	logger.Info().Int("assets", len(e.resolver.Entries())).Int("pages", e.pages.Len()).Msg("starting build")

	var digested, plain []sitemap.Entry
	for _, entry := range e.pages.Entries() {
		if entry.Digest {
			digested = append(digested, entry)
		} else {
			plain = append(plain, entry)
		}
	}

	// Digested pages first: later renders may look up their hashes.
	e.renderAll(digested, report)
	e.renderAll(plain, report)

	if err := e.copyPrebuild(report); err != nil {
		return report, err
	}
	report.finish()

	for _, err := range report.Errors() {
		logger.Error().Err(err).Msg("page failed")
	}
	logger.Info().
		Int("pages", report.PagesRendered()).
		Int("assets", report.AssetsCopied()).
		Dur("elapsed", report.Duration()).
		Bool("failed", report.HasFailures()).
		Msg("build finished")

	return report, report.Err()
}

func (e *Engine) renderAll(entries []sitemap.Entry, report *Report) {
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for _, entry := range entries {
		g.Go(func() error {
			if err := e.renderOne(entry); err != nil {
				report.addError(err)
				return nil
			}
			report.addPage()
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) renderOne(entry sitemap.Entry) error {
	output, err := e.renderer.RenderPage(entry)
	if err != nil {
		return err
	}

	outPath := entry.Path
	if entry.Digest {
		outPath = e.resolver.Register(entry.Path, []byte(output))
	}
	return e.writeFile(outPath, []byte(output))
}

func (e *Engine) copyPrebuild(report *Report) error {
	if _, err := os.Stat(e.opts.PrebuildDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(e.opts.PrebuildDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(e.opts.PrebuildDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		hashed, ok := e.resolver.Lookup(rel)
		if !ok {
			// Scan ran before the copy pass; a miss means the file
			// appeared mid-build. Copy it unhashed.
			hashed = rel
		}
		if err := e.writeFile(hashed, content); err != nil {
			return err
		}
		report.addAsset()
		return nil
	})
}

// writeFile mirrors the sitemap path structure under the output root.
// Writes are atomic so an interrupted build never leaves a torn file.
func (e *Engine) writeFile(rel string, content []byte) error {
	full := filepath.Join(e.opts.OutputDir, filepath.FromSlash(core.NormalizePagePath(rel)))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(full, content, 0o644)
}
