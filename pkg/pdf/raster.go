package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var rasterTypes = map[string]string{
	".png":  "PNG",
	".jpg":  "JPG",
	".jpeg": "JPG",
	".gif":  "GIF",
}

// rasterHandler embeds PNG, JPEG and GIF images at their layout position.
// It is always the last handler in the chain.
type rasterHandler struct {
	fs fs.FS
}

func (h rasterHandler) Replace(_ context.Context, el *Element) (Drawing, bool, error) {
	typ, ok := rasterTypes[strings.ToLower(path.Ext(el.Src))]
	if !ok {
		return nil, false, nil
	}

	name, data, err := ReadImage(h.fs, el)
	if err != nil {
		return nil, false, err
	}

	return DrawingFunc(func(doc *gofpdf.Fpdf) error {
		opts := gofpdf.ImageOptions{ImageType: typ}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if doc.Err() {
			return fmt.Errorf("%w: %s: %v", ErrImageFailed, name, doc.Error())
		}
		doc.ImageOptions(name, el.X, el.Y, el.WidthPt(), el.HeightPt(), false, opts, 0, "")
		return nil
	}), true, nil
}

// ReadImage resolves an element source in the bundle and reads it.
// Absolute sources and sources without a base directory are taken from the
// bundle root; relative ones are tried against the base directory first.
func ReadImage(fsys fs.FS, el *Element) (string, []byte, error) {
	src := strings.TrimSpace(el.Src)
	if src == "" {
		return "", nil, fmt.Errorf("%w: empty src", ErrImageNotFound)
	}
	if strings.Contains(src, "://") || strings.HasPrefix(src, "data:") {
		return "", nil, fmt.Errorf("%w: %s: only bundle resources are supported", ErrImageNotFound, src)
	}

	var candidates []string
	if !strings.HasPrefix(src, "/") && el.BaseDir != "" {
		candidates = append(candidates, path.Join(el.BaseDir, src))
	}
	candidates = append(candidates, path.Clean(strings.TrimPrefix(src, "/")))

	for _, name := range candidates {
		if !fs.ValidPath(name) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err == nil {
			return name, data, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrImageNotFound, src)
}
