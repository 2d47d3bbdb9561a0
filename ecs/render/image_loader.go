package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrInvalidHandle = errors.New("render: invalid texture handle")

// FileLoader reads textures below Root, falling back to Fallback (usually
// an embedded FS) when the file is not on disk.
type FileLoader struct {
	Root     string
	Fallback fs.FS
}

func (l FileLoader) Load(ctx context.Context, h Handle) (Pixels, error) {
	if err := ctx.Err(); err != nil {
		return Pixels{}, err
	}
	clean, err := cleanHandle(h)
	if err != nil {
		return Pixels{}, err
	}
	b, err := l.read(clean)
	if err != nil {
		return Pixels{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return Pixels{}, fmt.Errorf("decode %s: %w", clean, err)
	}
	return Pixels{Image: img, Digest: xxhash.Sum64(b)}, nil
}

func (l FileLoader) read(clean string) ([]byte, error) {
	if l.Root != "" {
		b, err := os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(clean)))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || l.Fallback == nil {
			return nil, err
		}
	}
	if l.Fallback == nil {
		return nil, fmt.Errorf("read %s: %w", clean, fs.ErrNotExist)
	}
	return fs.ReadFile(l.Fallback, clean)
}

// cleanHandle turns a handle into a slash-separated path that cannot escape
// the loader root.
func cleanHandle(h Handle) (string, error) {
	s := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(string(h))), "/")
	if s == "" || !fs.ValidPath(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, h)
	}
	return s, nil
}

// IsImageFile reports whether path has an extension FileLoader can decode.
func IsImageFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".png", ".bmp", ".webp":
		return true
	}
	return false
}
