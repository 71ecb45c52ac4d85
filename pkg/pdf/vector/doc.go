// Package vector embeds SVG images into converted letters.
//
// The Embedder is a pdf.ImageHandler for <img> elements whose source ends in
// .svg. It parses the file with gofpdf's basic SVG reader, draws the paths into
// a print template sized to the element's CSS box and places the template at
// the position computed by Place.
//
// Only what gofpdf can read is supported: a root <svg> with numeric width and
// height, and <path d="..."> elements directly beneath it.
//
//	conv, err := pdf.NewConverter(assets.Bundle(), cfg,
//		pdf.WithHandler(vector.New(assets.Bundle())),
//	)
package vector
