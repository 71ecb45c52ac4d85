package pdf

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

const listIndent = 14 // points

var blockTags = map[string]bool{
	"html": true, "body": true, "div": true, "section": true, "article": true,
	"main": true, "p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "li": true, "address": true, "blockquote": true,
	"header": true, "footer": true, "nav": true, "aside": true, "figure": true,
	"figcaption": true,
}

var skippedTags = map[string]bool{
	"head": true, "script": true, "style": true, "title": true, "meta": true,
	"link": true, "noscript": true, "template": true,
}

var headingScale = map[string]float64{
	"h1": 1.6, "h2": 1.35, "h3": 1.15, "h4": 1, "h5": 1, "h6": 1,
}

// layout holds the state of one conversion.
type layout struct {
	ctx    context.Context
	c      *Converter
	doc    *gofpdf.Fpdf
	fonts  *fontSet
	header *html.Node
	footer *html.Node
	err    error
	sheet  sheet
	opts   convertOptions
	base   style

	pageW float64
	pageH float64

	indent    float64
	lineExtra float64
	lineDirty bool
	running   bool
}

func newLayout(ctx context.Context, c *Converter, o convertOptions) *layout {
	return &layout{ctx: ctx, c: c, opts: o}
}

func (l *layout) fail(err error) {
	if l.err == nil && err != nil {
		l.err = err
	}
}

func (l *layout) render(root *html.Node, w io.Writer) error {
	htmlNode := find(root, "html")
	body := find(root, "body")
	if htmlNode == nil || body == nil {
		return fmt.Errorf("%w: missing html or body", ErrInvalidHTML)
	}

	var css strings.Builder
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			css.WriteString(textContent(n))
			css.WriteByte('\n')
		}
	})
	sh, err := parseSheet(css.String())
	if err != nil {
		return err
	}
	l.sheet = sh

	cfg := l.c.cfg
	l.pageW = cfg.PageSize.Width / mmPerPoint
	l.pageH = cfg.PageSize.Height / mmPerPoint

	l.doc = gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: l.pageW, Ht: l.pageH},
	})
	l.doc.SetCompression(true)

	l.fonts = newFontSet(l.doc, l.c.fonts, cfg.FontFamily)
	faces := []fontFace{
		{family: cfg.FontFamily, src: cfg.RegularFont},
		{family: cfg.FontFamily, src: cfg.BoldFont, bold: true},
	}
	faces = append(faces, sh.fontFaces()...)
	for _, f := range faces {
		if err := l.fonts.register(f); err != nil {
			return err
		}
	}

	meta := Metadata{
		Created:      l.c.now().UTC(),
		Title:        strings.TrimSpace(collapse(textContent(find(root, "title")))),
		Language:     documentLanguage(htmlNode, cfg.Language),
		Creator:      cfg.Creator,
		Conformance:  cfg.Conformance,
		ColorProfile: l.c.profile.identifier,
	}
	xmp, err := meta.XMP()
	if err != nil {
		return fmt.Errorf("%w: xmp: %v", ErrConvertFailed, err)
	}
	l.doc.SetTitle(meta.Title, true)
	l.doc.SetCreator(meta.Creator, true)
	l.doc.SetCreationDate(meta.Created)
	l.doc.SetXmpMetadata(xmp)

	l.base = style{family: cfg.FontFamily, size: cfg.FontSize, align: "L"}
	l.base = l.computeStyle(htmlNode, l.base)
	bodyStyle := l.computeStyle(body, l.base)

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch {
		case c.Data == "header" && l.header == nil:
			l.header = c
		case c.Data == "footer" && l.footer == nil:
			l.footer = c
		}
	}

	l.doc.SetHeaderFunc(l.pageStart)
	l.doc.SetFooterFunc(l.pageEnd)
	l.doc.AddPage()

	l.children(body, bodyStyle)
	l.finishLine(bodyStyle)

	if l.err != nil {
		return l.err
	}
	if err := l.doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrConvertFailed, err)
	}
	return l.err
}

func documentLanguage(n *html.Node, fallback string) string {
	if v := attr(n, "lang"); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return tag.String()
		}
	}
	return language.Make(fallback).String()
}

// inset returns the current page's content inset in points.
func (l *layout) inset() Edges {
	return l.c.geom.Box(l.doc.PageNo()).Inset().Scale(l.c.geom.DotsPerPoint)
}

func (l *layout) pageStart() {
	in := l.inset()
	l.doc.SetMargins(in.Left, in.Top, in.Right)
	l.doc.SetAutoPageBreak(true, in.Bottom)
	l.doc.SetXY(in.Left, in.Top)

	if l.header != nil && l.err == nil {
		l.drawRunning(l.header)
	}

	l.doc.SetLeftMargin(in.Left + l.indent)
	l.doc.SetX(in.Left + l.indent)
}

func (l *layout) pageEnd() {
	if l.footer == nil || l.err != nil {
		return
	}
	in := l.inset()
	x, y := l.doc.GetXY()

	l.doc.SetLeftMargin(in.Left)
	l.doc.SetXY(in.Left, l.pageH-in.Bottom+l.c.cfg.FooterGap)
	l.drawRunning(l.footer)

	l.doc.SetLeftMargin(in.Left + l.indent)
	l.doc.SetXY(x, y)
}

// drawRunning lays out a header or footer without disturbing the body line.
func (l *layout) drawRunning(n *html.Node) {
	dirty, extra, indent := l.lineDirty, l.lineExtra, l.indent
	l.lineDirty, l.lineExtra, l.indent = false, 0, 0
	l.running = true

	s := l.computeStyle(n, l.base)
	l.children(n, s)
	l.finishLine(s)

	l.running = false
	l.lineDirty, l.lineExtra, l.indent = dirty, extra, indent
}

func (l *layout) children(n *html.Node, s style) {
	for c := n.FirstChild; c != nil && l.err == nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			l.text(c.Data, s)
		case html.ElementNode:
			if skippedTags[c.Data] || (!l.running && (c == l.header || c == l.footer)) {
				continue
			}
			l.node(c, s)
		}
	}
}

func (l *layout) node(n *html.Node, parent style) {
	if l.err != nil {
		return
	}
	if err := l.ctx.Err(); err != nil {
		l.fail(err)
		return
	}

	s := l.computeStyle(n, parent)
	switch n.Data {
	case "br":
		l.lineBreak(s)
		return
	case "hr":
		l.finishLine(s)
		l.rule(s)
		return
	case "img":
		l.image(n, s)
		return
	case "table":
		l.finishLine(s)
		l.table(n, s)
		return
	case "ul", "ol":
		l.finishLine(s)
		l.list(n, s)
		return
	}

	block := blockTags[n.Data]
	if block {
		l.finishLine(s)
		l.space(s.marginTop)
	}

	if text, ok := plainText(n); block && s.align != "L" && ok {
		l.setFont(s)
		l.doc.MultiCell(0, l.lineHeight(s), text, "", s.align, false)
	} else {
		l.children(n, s)
	}

	if block {
		l.finishLine(s)
		l.space(s.marginBottom)
	}
}

func (l *layout) computeStyle(n *html.Node, parent style) style {
	s := parent
	s.marginTop, s.marginBottom, s.width, s.height, s.border = 0, 0, 0, 0, false

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		s.bold = true
		s.size = parent.size * headingScale[n.Data]
		s.marginTop = 0.5 * s.size
		s.marginBottom = 0.4 * s.size
	case "p", "address", "blockquote":
		s.marginBottom = 0.6 * s.size
	case "strong", "b", "th":
		s.bold = true
	case "small":
		s.size = parent.size * 0.85
	case "ul", "ol":
		s.marginBottom = 0.6 * s.size
	}

	s.apply(l.sheet.declarations(n.Data, strings.Fields(attr(n, "class"))), parent)

	decls, err := inlineDeclarations(attr(n, "style"))
	if err != nil {
		l.fail(err)
		return s
	}
	s.apply(decls, parent)

	if v := attr(n, "align"); v != "" {
		switch strings.ToLower(v) {
		case "center":
			s.align = "C"
		case "right":
			s.align = "R"
		}
	}
	return s
}

func (l *layout) lineHeight(s style) float64 {
	return s.size * l.c.cfg.LineHeight
}

func (l *layout) setFont(s style) {
	family, fontStyle, err := l.fonts.resolve(s.family, s.bold)
	if err != nil {
		l.fail(err)
		return
	}
	l.doc.SetFont(family, fontStyle, s.size)
	l.doc.SetTextColor(s.color[0], s.color[1], s.color[2])
}

func (l *layout) text(data string, s style) {
	txt := collapse(data)
	if !l.lineDirty {
		txt = strings.TrimLeft(txt, " ")
	}
	if txt == "" {
		return
	}
	l.setFont(s)
	if l.err != nil {
		return
	}
	l.doc.Write(l.lineHeight(s), txt)
	l.lineDirty = true
}

func (l *layout) finishLine(s style) {
	if !l.lineDirty {
		return
	}
	l.doc.Ln(math.Max(l.lineHeight(s), l.lineExtra))
	l.lineDirty = false
	l.lineExtra = 0
}

func (l *layout) lineBreak(s style) {
	if l.lineDirty {
		l.finishLine(s)
		return
	}
	l.doc.Ln(l.lineHeight(s))
}

func (l *layout) space(pt float64) {
	if pt <= 0 {
		return
	}
	l.doc.SetY(l.doc.GetY() + pt)
}

func (l *layout) rule(s style) {
	in := l.inset()
	y := l.doc.GetY() + l.lineHeight(s)/2
	l.doc.SetLineWidth(0.5)
	l.doc.Line(in.Left+l.indent, y, l.pageW-in.Right, y)
	l.doc.SetY(y + l.lineHeight(s)/2)
}

func (l *layout) list(n *html.Node, s style) {
	l.space(s.marginTop)
	l.indent += listIndent
	l.doc.SetLeftMargin(l.inset().Left + l.indent)

	i := 1
	for li := n.FirstChild; li != nil && l.err == nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		ls := l.computeStyle(li, s)
		marker := "•"
		if n.Data == "ol" {
			marker = strconv.Itoa(i) + "."
		}
		l.setFont(ls)
		left := l.inset().Left + l.indent
		l.doc.SetX(left - listIndent + 2)
		l.doc.Write(l.lineHeight(ls), marker)
		l.doc.SetX(left)
		l.lineDirty = true

		l.children(li, ls)
		l.finishLine(ls)
		i++
	}

	l.indent -= listIndent
	l.doc.SetLeftMargin(l.inset().Left + l.indent)
	l.space(s.marginBottom)
}

// image lays out an <img> and hands it to the handler chain.
func (l *layout) image(n *html.Node, s style) {
	w, h := imageSize(n, s)
	in := l.inset()
	x, y := l.doc.GetXY()

	if l.lineDirty && x+w > l.pageW-in.Right {
		l.finishLine(s)
		x, y = l.doc.GetXY()
	}
	if !l.running && y+h > l.pageH-in.Bottom && y > in.Top {
		l.doc.AddPage()
		x, y = l.doc.GetXY()
	}

	el := l.element(n, x, y, w, h)
	drawn, err := l.replace(el)
	if err != nil {
		l.fail(err)
		return
	}
	if !drawn {
		if el.Alt != "" {
			l.text(el.Alt, s)
		}
		return
	}

	l.doc.SetXY(x+w, y)
	l.lineDirty = true
	l.lineExtra = math.Max(l.lineExtra, h)
}

// element describes an image at page position (x, y) in points.
func (l *layout) element(n *html.Node, x, y, w, h float64) *Element {
	g := l.c.geom
	dpp := g.DotsPerPoint
	page := g.Page(l.doc.PageNo())
	first := g.Page(1)
	in := page.Box.Inset()
	src := attr(n, "src")

	offY := y*dpp - in.Top
	running := l.running || l.c.classify(src)
	absY := page.Top + offY
	if running {
		anchor := page.Bottom
		if page.Odd() {
			anchor = first.Bottom
		}
		absY = anchor - page.Box.ContentHeight() + offY
	}

	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}

	return &Element{
		Attrs:        attrs,
		Tag:          n.Data,
		Src:          src,
		Alt:          attr(n, "alt"),
		BaseDir:      l.opts.baseDir,
		Page:         page,
		FirstPage:    first,
		AbsX:         x*dpp - in.Left,
		AbsY:         absY,
		Width:        w * dpp,
		Height:       h * dpp,
		DotsPerPoint: dpp,
		PageHeight:   l.pageH,
		X:            x,
		Y:            y,
		Running:      running,
	}
}

func (l *layout) replace(el *Element) (bool, error) {
	for _, h := range l.c.handlers {
		d, ok, err := h.Replace(l.ctx, el)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if d == nil {
			return true, nil
		}
		if err := d.Draw(l.doc); err != nil {
			return false, err
		}
		if l.doc.Err() {
			return false, fmt.Errorf("%w: %s: %v", ErrImageFailed, el.Src, l.doc.Error())
		}
		return true, nil
	}
	return false, nil
}

// Default image size when neither attributes nor CSS give one: one inch.
const defaultImageSize = 72

func imageSize(n *html.Node, s style) (float64, float64) {
	w, h := s.width, s.height
	if w == 0 {
		if v, ok := length(attr(n, "width"), s.size); ok {
			w = v
		}
	}
	if h == 0 {
		if v, ok := length(attr(n, "height"), s.size); ok {
			h = v
		}
	}
	switch {
	case w == 0 && h == 0:
		return defaultImageSize, defaultImageSize
	case w == 0:
		return h, h
	case h == 0:
		return w, w
	}
	return w, h
}

func find(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// plainText returns the collapsed text of n when it holds only text and
// inline formatting.
func plainText(n *html.Node) (string, bool) {
	ok := true
	walk(n, func(c *html.Node) {
		if c != n && c.Type == html.ElementNode &&
			(blockTags[c.Data] || c.Data == "img" || c.Data == "br" || c.Data == "table" || c.Data == "ul" || c.Data == "ol") {
			ok = false
		}
	})
	if !ok {
		return "", false
	}
	return strings.TrimSpace(collapse(textContent(n))), true
}

// collapse folds whitespace runs into single spaces, keeping one leading and
// one trailing space when present.
func collapse(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
