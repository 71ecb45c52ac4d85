package vector

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dmitrymomot/letterpress/pkg/cache"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
)

// Extension is the source suffix the Embedder handles.
const Extension = ".svg"

// DefaultLineWidth is the stroke width, in points, used for SVG paths.
const DefaultLineWidth = 0.6

// DefaultCacheSize bounds the number of parsed images kept in memory.
const DefaultCacheSize = 256

// Embedder draws SVG images as PDF vector paths.
// It is safe for concurrent use; parsed images are cached by bundle path.
type Embedder struct {
	fs        fs.FS
	lineWidth float64
	cacheSize int
	parsed    *cache.LRU[*gofpdf.SVGBasicType]
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithLineWidth sets the stroke width in points.
func WithLineWidth(w float64) Option {
	return func(e *Embedder) {
		if w > 0 {
			e.lineWidth = w
		}
	}
}

// WithCacheSize bounds the parsed image cache. Zero means unbounded.
func WithCacheSize(n int) Option {
	return func(e *Embedder) {
		if n >= 0 {
			e.cacheSize = n
		}
	}
}

// New creates an embedder reading images from bundle.
func New(bundle fs.FS, opts ...Option) *Embedder {
	e := &Embedder{
		fs:        bundle,
		lineWidth: DefaultLineWidth,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.parsed = cache.New[*gofpdf.SVGBasicType](e.cacheSize)
	return e
}

// Replace implements pdf.ImageHandler.
func (e *Embedder) Replace(ctx context.Context, el *pdf.Element) (pdf.Drawing, bool, error) {
	if !strings.EqualFold(path.Ext(el.Src), Extension) {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	sig, err := e.load(el)
	if err != nil {
		return nil, false, err
	}

	w, h := el.WidthPt(), el.HeightPt()
	if w <= 0 || h <= 0 {
		return nil, false, fmt.Errorf("%w: %s: empty box %gx%g", pdf.ErrImageFailed, el.Src, w, h)
	}
	at := TopLeft(Place(InputOf(el)), el.PageHeight, h)

	return pdf.DrawingFunc(func(doc *gofpdf.Fpdf) error {
		doc.UseTemplateScaled(e.template(doc, sig, w, h),
			gofpdf.PointType{X: at.X, Y: at.Y},
			gofpdf.SizeType{Wd: w, Ht: h},
		)
		if doc.Err() {
			return fmt.Errorf("%w: %s: %v", pdf.ErrImageFailed, el.Src, doc.Error())
		}
		return nil
	}), true, nil
}

// template transcodes sig into a w by h point template, scaled to fit and centred.
func (e *Embedder) template(doc *gofpdf.Fpdf, sig *gofpdf.SVGBasicType, w, h float64) gofpdf.Template {
	scale := min(w/sig.Wd, h/sig.Ht)
	offX := (w - sig.Wd*scale) / 2
	offY := (h - sig.Ht*scale) / 2

	return doc.CreateTemplateCustom(gofpdf.PointType{}, gofpdf.SizeType{Wd: w, Ht: h}, func(tpl *gofpdf.Tpl) {
		tpl.SetLineWidth(e.lineWidth)
		tpl.SetDrawColor(0, 0, 0)
		tpl.SetXY(offX, offY)
		tpl.SVGBasicWrite(sig, scale)
	})
}

func (e *Embedder) load(el *pdf.Element) (*gofpdf.SVGBasicType, error) {
	name, data, err := pdf.ReadImage(e.fs, el)
	if err != nil {
		return nil, err
	}

	return e.parsed.GetOrLoad(name, func() (*gofpdf.SVGBasicType, error) {
		sig, err := gofpdf.SVGBasicParse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", pdf.ErrImageFailed, name, err)
		}
		if sig.Wd <= 0 || sig.Ht <= 0 {
			return nil, fmt.Errorf("%w: %s: svg needs numeric width and height", pdf.ErrImageFailed, name)
		}
		return &sig, nil
	})
}
