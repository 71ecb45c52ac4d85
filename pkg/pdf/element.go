package pdf

import (
	"context"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Element is a replaceable element, such as <img>, as laid out by the converter.
// Coordinates are device units in the continuous layout space: AbsX is measured
// from the content left edge, AbsY from the top of the first page's content area.
type Element struct {
	Attrs map[string]string
	Tag   string
	Src   string
	Alt   string
	// BaseDir is the bundle directory relative sources resolve against.
	BaseDir string

	Page      Page
	FirstPage Page

	AbsX   float64
	AbsY   float64
	Width  float64
	Height float64

	DotsPerPoint float64
	// PageHeight is the height of the page being painted, in points.
	PageHeight float64

	// X and Y are where the layout put the element's top-left corner on the
	// page, in points from the page's top-left corner.
	X float64
	Y float64

	// Running elements repeat on every page, like headers and footers.
	Running bool
}

// Attr returns an attribute value or "".
func (e *Element) Attr(name string) string { return e.Attrs[name] }

// WidthPt returns the element width in points.
func (e *Element) WidthPt() float64 { return e.Width / e.DotsPerPoint }

// HeightPt returns the element height in points.
func (e *Element) HeightPt() float64 { return e.Height / e.DotsPerPoint }

// Drawing paints a replaced element into the document.
type Drawing interface {
	Draw(doc *gofpdf.Fpdf) error
}

// DrawingFunc adapts a function to Drawing.
type DrawingFunc func(doc *gofpdf.Fpdf) error

func (f DrawingFunc) Draw(doc *gofpdf.Fpdf) error { return f(doc) }

// ImageHandler replaces elements it recognises with a drawing.
// A handler that does not recognise el returns ok == false so the next
// handler in the chain can try.
type ImageHandler interface {
	Replace(ctx context.Context, el *Element) (d Drawing, ok bool, err error)
}

// ImageHandlerFunc adapts a function to ImageHandler.
type ImageHandlerFunc func(ctx context.Context, el *Element) (Drawing, bool, error)

func (f ImageHandlerFunc) Replace(ctx context.Context, el *Element) (Drawing, bool, error) {
	return f(ctx, el)
}

// RunningClassifier reports whether an image source is running content.
type RunningClassifier func(src string) bool

// NameMarkers classifies sources whose file name contains any marker,
// ignoring case.
func NameMarkers(markers ...string) RunningClassifier {
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			lowered = append(lowered, m)
		}
	}
	return func(src string) bool {
		name := strings.ToLower(src)
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		for _, m := range lowered {
			if strings.Contains(name, m) {
				return true
			}
		}
		return false
	}
}
