// Package assets computes content-hashed filenames for prebuilt assets and
// digested pages, and answers path lookups from helpers.
package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/verso-press/verso/internal/core"
	"github.com/verso-press/verso/internal/log"
)

// Resolver maps original relative paths to their content-hashed
// counterparts. The table is populated once per build run; in server mode
// it stays empty and every lookup falls through to the original name.
type Resolver struct {
	mu     sync.RWMutex
	hashed map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{hashed: make(map[string]string)}
}

// Scan walks the prebuild directory and records a hashed name for every
// file. Discovery order does not matter: each entry depends only on that
// file's bytes. A missing prebuild directory yields an empty table.
func (r *Resolver) Scan(prebuildDir string) error {
	if _, err := os.Stat(prebuildDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(prebuildDir, func(p string, d fs.DirEntry, err error) error {
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
		rel, err := filepath.Rel(prebuildDir, p)
		if err != nil {
			return err
		}
		r.Register(filepath.ToSlash(rel), content)
		return nil
	})
}

// Register computes the digest of content and records original -> hashed
// for the given relative path. Also used for digested page output after
// the page renders.
func (r *Resolver) Register(rel string, content []byte) string {
	hashed := HashedName(rel, HashContent(content))
	r.mu.Lock()
	r.hashed[core.NormalizePagePath(rel)] = hashed
	r.mu.Unlock()
	return hashed
}

// Lookup returns the hashed path for an original path, if one was recorded.
func (r *Resolver) Lookup(rel string) (string, bool) {
	r.mu.RLock()
	hashed, ok := r.hashed[core.NormalizePagePath(rel)]
	r.mu.RUnlock()
	return hashed, ok
}

// Entries returns a copy of the original -> hashed table.
func (r *Resolver) Entries() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.hashed))
	for k, v := range r.hashed {
		out[k] = v
	}
	return out
}

// Resolve answers an assetPath lookup. In build mode a known path resolves
// to its hashed name; an unknown path falls back to the original, logged as
// a diagnostic but never fatal, so unhashed or dev-only assets still
// resolve. In server mode hashing never applies: the dev server serves
// files by their literal names.
func (r *Resolver) Resolve(mode core.Mode, rel string) string {
	rel = core.NormalizePagePath(rel)
	if mode != core.ModeBuild {
		return rel
	}
	if hashed, ok := r.Lookup(rel); ok {
		return hashed
	}
	logger := log.WithComponent("assets")
	logger.Debug().Str("path", rel).Msg("asset not in hash table, using original path")
	return rel
}
