// Package server is the development server: it re-renders sitemap pages on
// demand per request and falls back to raw prebuild assets, so every
// response reflects the current template, config and data state on disk.
package server

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/log"
	"github.com/verso-press/verso/internal/render"
	"github.com/verso-press/verso/internal/sitemap"
)

type Server struct {
	renderer    *render.Renderer
	pages       *sitemap.Sitemap
	prebuildDir string
	logger      zerolog.Logger
}

func New(renderer *render.Renderer, pages *sitemap.Sitemap, prebuildDir string) *Server {
	return &Server{
		renderer:    renderer,
		pages:       pages,
		prebuildDir: prebuildDir,
		logger:      log.WithComponent("server"),
	}
}

// Handler builds the request router. Sitemap paths get explicit routes; the
// not-found handler catches directory-style requests and raw asset lookups.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLog)
	r.Use(noCache)

	for _, entry := range s.pages.Entries() {
		r.Get("/"+entry.Path, s.pageHandler(entry))
	}
	r.NotFound(s.fallback)

	return r
}

func (s *Server) pageHandler(entry sitemap.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.servePage(w, entry)
	}
}

// servePage renders on every request. No caching: two consecutive requests
// with the template changed in between produce two different bodies.
func (s *Server) servePage(w http.ResponseWriter, entry sitemap.Entry) {
	output, err := s.renderer.RenderPage(entry)
	if err != nil {
		s.serveError(w, err)
		return
	}
	w.Header().Set("Content-Type", core.ContentTypeFor(entry.Path))
	_, _ = w.Write([]byte(output))
}

// fallback resolves directory-style requests to their index page, then
// tries the prebuild directory by literal name, then 404s.
func (s *Server) fallback(w http.ResponseWriter, req *http.Request) {
	pagePath := core.RequestToPagePath(req.URL.Path)
	if entry, ok := s.pages.Get(pagePath); ok {
		s.servePage(w, entry)
		return
	}

	rel := core.NormalizePagePath(req.URL.Path)
	if rel != "" {
		full := filepath.Join(s.prebuildDir, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err == nil && !info.IsDir() {
			data, err := os.ReadFile(full)
			if err == nil {
				w.Header().Set("Content-Type", core.ContentTypeFor(rel))
				_, _ = w.Write(data)
				return
			}
		}
	}

	http.NotFound(w, req)
}

func (s *Server) serveError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("render failed")

	var buf bytes.Buffer
	if tplErr := errorTemplate.Execute(&buf, errorData{Message: err.Error()}); tplErr != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		s.logger.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// noCache keeps browsers from holding on to dev responses.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, req)
	})
}
