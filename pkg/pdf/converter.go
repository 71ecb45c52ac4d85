package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Converter turns HTML into PDF documents.
// Immutable after construction and safe for concurrent use; every Convert
// call builds its own gofpdf document.
type Converter struct {
	fs       fs.FS
	fonts    *fontCache
	classify RunningClassifier
	now      func() time.Time
	profile  colorProfile
	handlers []ImageHandler
	geom     Geometry
	cfg      Config
}

// Option configures a Converter.
type Option func(*Converter)

// WithHandler adds an image handler. Handlers are consulted in the order
// they were added, before the built-in raster handler.
func WithHandler(h ImageHandler) Option {
	return func(c *Converter) {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
	}
}

// WithRunningClassifier decides which image sources are laid out as running
// content. Defaults to NameMarkers over Config.RunningMarkers.
func WithRunningClassifier(rc RunningClassifier) Option {
	return func(c *Converter) {
		if rc != nil {
			c.classify = rc
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// NewConverter creates a converter reading fonts, the color profile and
// images from bundle. Fonts and the profile are checked eagerly.
func NewConverter(bundle fs.FS, cfg Config, opts ...Option) (*Converter, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Converter{
		fs:    bundle,
		fonts: newFontCache(bundle),
		now:   time.Now,
		geom:  cfg.Geometry(),
		cfg:   cfg,
	}
	c.classify = NameMarkers(cfg.RunningMarkers...)

	for _, opt := range opts {
		opt(c)
	}
	c.handlers = append(c.handlers, rasterHandler{fs: bundle})

	for _, name := range []string{cfg.RegularFont, cfg.BoldFont} {
		if _, err := c.fonts.load(name); err != nil {
			return nil, err
		}
	}

	profile, err := loadColorProfile(bundle, cfg.ColorProfile, cfg.ColorProfileID)
	if err != nil {
		return nil, err
	}
	c.profile = profile

	return c, nil
}

// Geometry returns the page geometry used for layout.
func (c *Converter) Geometry() Geometry { return c.geom }

// ConvertOption configures a single conversion.
type ConvertOption func(*convertOptions)

type convertOptions struct {
	baseDir string
}

// WithBaseDir sets the bundle directory relative image sources resolve against.
func WithBaseDir(dir string) ConvertOption {
	return func(o *convertOptions) {
		o.baseDir = dir
	}
}

// Convert renders src into a PDF document.
func (c *Converter) Convert(ctx context.Context, src string, opts ...ConvertOption) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkWellFormed(src); err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHTML, err)
	}

	var o convertOptions
	for _, opt := range opts {
		opt(&o)
	}

	l := newLayout(ctx, c, o)
	var buf bytes.Buffer
	if err := l.render(root, &buf); err != nil {
		return nil, err
	}
	return NewDocument(buf.Bytes()), nil
}
