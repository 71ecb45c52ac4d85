package pdf

import (
	"math"
	"strings"

	"golang.org/x/net/html"
)

const cellPadding = 2 // points

type tableCell struct {
	lines []string
	style style
}

// table lays out rows one after another with equal column widths.
// A row never splits across pages.
func (l *layout) table(n *html.Node, s style) {
	rows := tableRows(n)
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	border := s.border
	if v := attr(n, "border"); v != "" && v != "0" {
		border = true
	}

	l.space(s.marginTop)
	for _, row := range rows {
		if l.err != nil {
			return
		}
		in := l.inset()
		left := in.Left + l.indent
		cw := (l.pageW - in.Right - left) / float64(cols)

		cells := make([]tableCell, len(row))
		rowH := 0.0
		for i, td := range row {
			cs := l.computeStyle(td, s)
			l.setFont(cs)
			if l.err != nil {
				return
			}
			text := strings.TrimSpace(collapse(textContent(td)))
			var lines []string
			if text != "" {
				lines = l.doc.SplitText(text, cw-2*cellPadding)
			}
			cells[i] = tableCell{lines: lines, style: cs}
			rowH = math.Max(rowH, float64(max(len(lines), 1))*l.lineHeight(cs)+2*cellPadding)
		}

		y := l.doc.GetY()
		if !l.running && y+rowH > l.pageH-in.Bottom && y > in.Top {
			l.doc.AddPage()
			in = l.inset()
			left = in.Left + l.indent
			y = l.doc.GetY()
		}

		for i, c := range cells {
			x := left + float64(i)*cw
			if border {
				l.doc.Rect(x, y, cw, rowH, "D")
			}
			l.setFont(c.style)
			lh := l.lineHeight(c.style)
			for j, line := range c.lines {
				l.doc.SetXY(x+cellPadding, y+cellPadding+float64(j)*lh)
				l.doc.CellFormat(cw-2*cellPadding, lh, line, "", 0, c.style.align, false, 0, "")
			}
		}
		l.doc.SetXY(left, y+rowH)
	}
	l.space(s.marginBottom)
}

// tableRows collects the cells of every row, looking through thead, tbody and tfoot.
func tableRows(n *html.Node) [][]*html.Node {
	var rows [][]*html.Node
	var visit func(*html.Node)
	visit = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				visit(c)
			case "tr":
				var cells []*html.Node
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
						cells = append(cells, td)
					}
				}
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			}
		}
	}
	visit(n)
	return rows
}
