// Package importresolve implements the import-path resolver contract of
// spec §4.6: absolute path, then importer-relative, then each configured
// search path, first match wins. File-system access is the only
// concrete I/O in this front end (spec §1 "the core consumes only ... an
// import-path resolver returning a canonical path or 'not found'"), kept
// in its own package so internal/importgraph can depend on the
// Resolver interface alone.
package importresolve

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver maps a literal import path, as written by an importing file,
// to the canonical path of the file it names.
type Resolver interface {
	Resolve(literal, importerDir string) (canonical string, ok bool)
}

// cacheCapacity bounds the resolution cache, which holds one entry per
// distinct (literal, importerDir) pair.
const cacheCapacity = 512

// FS is the default, OS-backed resolver. It is cached: repeated lookups
// of the same (literal, importerDir) pair across many importers avoid
// re-walking SearchPaths and re-stat'ing the candidate.
type FS struct {
	SearchPaths []string
	cache       *lru.Cache[cacheKey, cacheEntry]
}

type cacheKey struct {
	literal     string
	importerDir string
}

type cacheEntry struct {
	canonical string
	ok        bool
}

// NewFS creates an OS-backed resolver searching searchPaths in order
// after the absolute and importer-relative candidates.
func NewFS(searchPaths []string) *FS {
	c, err := lru.New[cacheKey, cacheEntry](cacheCapacity)
	if err != nil {
		// Only returns an error for a non-positive capacity, which is a
		// package-internal constant here, never user input.
		panic(err)
	}
	return &FS{SearchPaths: searchPaths, cache: c}
}

// Resolve implements Resolver.
func (f *FS) Resolve(literal, importerDir string) (string, bool) {
	key := cacheKey{literal: literal, importerDir: importerDir}
	if e, ok := f.cache.Get(key); ok {
		return e.canonical, e.ok
	}
	canonical, ok := f.resolveUncached(literal, importerDir)
	f.cache.Add(key, cacheEntry{canonical: canonical, ok: ok})
	return canonical, ok
}

func (f *FS) resolveUncached(literal, importerDir string) (string, bool) {
	if filepath.IsAbs(literal) {
		if c, ok := canonicalRegularFile(literal); ok {
			return c, true
		}
		return "", false
	}

	if importerDir != "" {
		candidate := filepath.Join(importerDir, literal)
		if c, ok := canonicalRegularFile(candidate); ok {
			return c, true
		}
	}

	for _, sp := range f.SearchPaths {
		candidate := filepath.Join(sp, literal)
		if c, ok := canonicalRegularFile(candidate); ok {
			return c, true
		}
	}
	return "", false
}

func canonicalRegularFile(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return filepath.Clean(abs), true
}
