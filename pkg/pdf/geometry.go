package pdf

// PointsPerPixel converts CSS pixels to points.
const PointsPerPixel = 0.75

// Edges are the four sides of a box in device units.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Add returns the side-wise sum of e and o.
func (e Edges) Add(o Edges) Edges {
	return Edges{Top: e.Top + o.Top, Right: e.Right + o.Right, Bottom: e.Bottom + o.Bottom, Left: e.Left + o.Left}
}

// Scale divides every side by f, converting device units to points when f is
// the dots-per-point factor.
func (e Edges) Scale(f float64) Edges {
	return Edges{Top: e.Top / f, Right: e.Right / f, Bottom: e.Bottom / f, Left: e.Left / f}
}

// PageBox is the geometry of one page in device units.
type PageBox struct {
	Margin  Edges
	Border  Edges
	Padding Edges
	Width   float64
	Height  float64
}

// Inset is margin, border and padding combined.
func (b PageBox) Inset() Edges {
	return b.Margin.Add(b.Border).Add(b.Padding)
}

// ContentWidth is the width available to content.
func (b PageBox) ContentWidth() float64 {
	in := b.Inset()
	return b.Width - in.Left - in.Right
}

// ContentHeight is the height available to content.
func (b PageBox) ContentHeight() float64 {
	in := b.Inset()
	return b.Height - in.Top - in.Bottom
}

// Page locates one page in the continuous layout space, where the content
// areas of all pages are stacked top to bottom without gaps.
type Page struct {
	Box    PageBox
	Number int
	// Top and Bottom bound the page content area in layout coordinates.
	Top    float64
	Bottom float64
}

// Odd reports whether the page number is odd. Page numbers start at 1.
func (p Page) Odd() bool { return p.Number%2 == 1 }

// Geometry describes the first page and every subsequent page.
type Geometry struct {
	First        PageBox
	Rest         PageBox
	DotsPerPoint float64
}

// Box returns the page box for page n.
func (g Geometry) Box(n int) PageBox {
	if n <= 1 {
		return g.First
	}
	return g.Rest
}

// Page returns page n with its layout extents.
func (g Geometry) Page(n int) Page {
	if n < 1 {
		n = 1
	}
	top := 0.0
	if n > 1 {
		top = g.First.ContentHeight() + float64(n-2)*g.Rest.ContentHeight()
	}
	box := g.Box(n)
	return Page{
		Box:    box,
		Number: n,
		Top:    top,
		Bottom: top + box.ContentHeight(),
	}
}
