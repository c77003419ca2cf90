// Package loader provides the decode capability injected into the similarity
// engine: given a path, produce decoded pixel data. The engine itself never
// touches the filesystem.
package loader

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader produces decoded pixel data for one candidate image.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader decodes images from the local filesystem using the registered
// stdlib and x/image format decoders.
type FileLoader struct{}

// Load opens and decodes the image at path.
func (FileLoader) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
