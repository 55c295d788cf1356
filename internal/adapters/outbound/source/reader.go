package source

import (
	"bufio"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultCacheSize is the number of files kept in memory.
const DefaultCacheSize = 64

// maxLineBytes bounds a single source line; longer lines fail the read.
const maxLineBytes = 1024 * 1024

// CachedReader implements domain.SourceReader. Successfully read files are
// cached so the details view and reports of one session share one read.
type CachedReader struct {
	cache *lru.Cache[string, []string]
}

// New creates a reader caching up to size files.
func New(size int) (*CachedReader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create source cache", goerr.V("size", size))
	}
	return &CachedReader{cache: cache}, nil
}

// Lines returns the lines of path without trailing newlines.
func (r *CachedReader) Lines(path string) ([]string, error) {
	if lines, ok := r.cache.Get(path); ok {
		return lines, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open source file", goerr.V("path", path))
	}
	defer f.Close()

	lines := []string{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read source file", goerr.V("path", path))
	}

	r.cache.Add(path, lines)
	return lines, nil
}
