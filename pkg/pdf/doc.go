// Package pdf converts letter HTML into archival PDF documents with gofpdf.
//
// The converter embeds a regular and a bold font from the bundle (plus any
// @font-face declared by the document's stylesheet), writes an XMP packet
// declaring PDF/A-1 conformance with the document language, title and color
// profile identifier, and lays out a practical subset of HTML: headings,
// paragraphs, lists, tables, line breaks, bold text, alignment and images.
//
// A <header> or <footer> that is a direct child of <body> is running content:
// it is drawn again on every page, at the top of the content area and below
// it respectively.
//
// Images go through an ordered chain of ImageHandlers. The first handler that
// recognises an element supplies its Drawing; the built-in raster handler for
// PNG, JPEG and GIF is always consulted last. Elements no handler recognises
// are replaced by their alt text.
//
//	conv, err := pdf.NewConverter(bundle, pdf.Config{}, pdf.WithHandler(vector.New(bundle)))
//	doc, err := conv.Convert(ctx, html)
//	defer doc.Close()
//
// Layout uses device units of Config.DotsPerPoint dots per point. Element
// boxes handed to handlers are expressed in that space: every page content
// area is stacked top to bottom, the first page starting at zero.
//
// gofpdf cannot write a PDF/A output intent dictionary or a structure tree,
// so the color profile is validated and declared by identifier in XMP only.
package pdf
