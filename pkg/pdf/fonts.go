package pdf

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"
)

// fontFace is a font declared by configuration or an @font-face rule.
type fontFace struct {
	family string
	src    string
	bold   bool
}

func (f fontFace) style() string {
	if f.bold {
		return "B"
	}
	return ""
}

// fontCache keeps font files read from the bundle. Font bytes are immutable.
type fontCache struct {
	fs    fs.FS
	files map[string][]byte
	mu    sync.RWMutex
}

func newFontCache(fsys fs.FS) *fontCache {
	return &fontCache{fs: fsys, files: make(map[string][]byte)}
}

func (c *fontCache) load(name string) ([]byte, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))

	c.mu.RLock()
	data, ok := c.files[name]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	data, err := fs.ReadFile(c.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontNotFound, name, err)
	}
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: %s is not a font file", ErrFontNotFound, name)
	}

	c.mu.Lock()
	c.files[name] = data
	c.mu.Unlock()
	return data, nil
}

// fontSet tracks the families registered with one document.
type fontSet struct {
	doc      *gofpdf.Fpdf
	cache    *fontCache
	families map[string]map[string]bool
	fallback string
}

func newFontSet(doc *gofpdf.Fpdf, cache *fontCache, fallback string) *fontSet {
	return &fontSet{doc: doc, cache: cache, families: make(map[string]map[string]bool), fallback: fallback}
}

func (s *fontSet) register(f fontFace) error {
	data, err := s.cache.load(f.src)
	if err != nil {
		return err
	}
	key := strings.ToLower(f.family)
	if s.families[key] == nil {
		s.families[key] = make(map[string]bool)
	}
	if s.families[key][f.style()] {
		return nil
	}
	s.doc.AddUTF8FontFromBytes(key, f.style(), data)
	if s.doc.Err() {
		return fmt.Errorf("%w: %s: %v", ErrFontNotFound, f.src, s.doc.Error())
	}
	s.families[key][f.style()] = true
	return nil
}

// resolve returns the registered family and style for a requested font.
// A family that was never registered is an error. A missing bold variant
// falls back to the regular face of the same family.
func (s *fontSet) resolve(family string, bold bool) (string, string, error) {
	if family == "" {
		family = s.fallback
	}
	key := strings.ToLower(family)
	styles, ok := s.families[key]
	if !ok {
		return "", "", fmt.Errorf("%w: family %q is not embedded", ErrFontNotFound, family)
	}
	if bold && styles["B"] {
		return key, "B", nil
	}
	if styles[""] {
		return key, "", nil
	}
	return key, "B", nil
}
