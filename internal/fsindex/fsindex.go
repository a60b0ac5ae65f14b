// Package fsindex enumerates the archive files under a download target
// directory, once, at construction. There is no package-level mutable
// cache: callers build an Index at startup and pass it down explicitly.
package fsindex

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/nimbusrv/rv/errs"
)

// bitmapsDir is excluded from enumeration: it holds the compressed
// block-sparse copies rv-downloader derives from each archive, not
// archives.
const bitmapsDir = "bitmaps"

// Index is a snapshot of every archive file found under a target
// directory at the moment it was built. It is immutable after
// construction and safe to share across goroutines.
type Index struct {
	paths []string
}

// New scans targetDir/*/* once, skipping the bitmaps subdirectory, and
// returns an Index over every regular file found.
func New(targetDir string) (*Index, error) {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", targetDir, errs.ErrIO, err)
	}

	var paths []string
	for _, day := range entries {
		if !day.IsDir() || day.Name() == bitmapsDir {
			continue
		}

		dayPath := filepath.Join(targetDir, day.Name())
		files, err := os.ReadDir(dayPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", dayPath, errs.ErrIO, err)
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}
			paths = append(paths, filepath.Join(dayPath, f.Name()))
		}
	}

	return &Index{paths: paths}, nil
}

// All returns every path found at construction time, in the order the
// filesystem reported them.
func (idx *Index) All() []string {
	return idx.paths
}

// Sample draws n paths uniformly at random, with replacement, mirroring a
// weighted-by-one sample-with-replacement policy. Returns nil if the
// index is empty.
func (idx *Index) Sample(n int) []string {
	if len(idx.paths) == 0 || n <= 0 {
		return nil
	}

	out := make([]string, n)
	for i := range out {
		out[i] = idx.paths[rand.IntN(len(idx.paths))]
	}

	return out
}
