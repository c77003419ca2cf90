// Package discovery walks the filesystem and builds the candidate set for a
// similarity scan. The engine itself never touches directories; this is its
// file-finding collaborator.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
)

// Options controls a discovery pass.
type Options struct {
	// Recurse descends into subdirectories. Defaults to a flat listing.
	Recurse bool

	// Extensions is the set of lowercase file extensions (with leading dot)
	// to accept. Empty accepts nothing.
	Extensions map[string]bool
}

// FindImages walks root and returns an ImageSource per matching file, in
// lexical walk order. Paths are NFC-normalized so the same file name compares
// equal whether it came from a macOS (NFD) or Linux volume. Unreadable entries
// are skipped rather than failing the walk.
func FindImages(root string, opts Options) ([]dedupe.ImageSource, error) {
	var sources []dedupe.ImageSource

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("accessing %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recurse && path != root {
				return fs.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !opts.Extensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		sources = append(sources, dedupe.ImageSource{
			Path:    norm.NFC.String(path),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
