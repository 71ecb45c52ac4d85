package vector

import "github.com/dmitrymomot/letterpress/pkg/pdf"

// PlacementInput is everything placement depends on. Lengths are device units.
type PlacementInput struct {
	Page      pdf.Page
	FirstPage pdf.Page
	AbsX      float64
	AbsY      float64
	Height    float64
	// Running is true for header and footer artwork.
	Running      bool
	DotsPerPoint float64
}

// InputOf extracts the placement input from a laid out element.
func InputOf(el *pdf.Element) PlacementInput {
	return PlacementInput{
		Page:         el.Page,
		FirstPage:    el.FirstPage,
		AbsX:         el.AbsX,
		AbsY:         el.AbsY,
		Height:       el.Height,
		Running:      el.Running,
		DotsPerPoint: el.DotsPerPoint,
	}
}

// Point is a page position in points.
type Point struct {
	X, Y float64
}

// Place returns the lower-left corner of the element on its page, in points
// from the page's lower-left corner.
//
// Running content on odd pages is anchored to the first page's content bottom,
// since the first page may carry different margins than the rest.
func Place(in PlacementInput) Point {
	inset := in.Page.Box.Inset()

	bottom := in.Page.Bottom
	if in.Running && in.Page.Odd() {
		bottom = in.FirstPage.Bottom
	}

	return Point{
		X: (in.AbsX + inset.Left) / in.DotsPerPoint,
		Y: ((bottom - (in.AbsY + in.Height)) + inset.Bottom) / in.DotsPerPoint,
	}
}

// TopLeft converts a lower-left placement of a box h points tall to the
// top-left origin gofpdf draws in.
func TopLeft(p Point, pageHeight, h float64) Point {
	return Point{X: p.X, Y: pageHeight - p.Y - h}
}
