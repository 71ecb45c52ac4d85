package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// style is the computed presentation of a node.
type style struct {
	family       string
	align        string // gofpdf alignment: L, C, R or J
	size         float64
	marginTop    float64
	marginBottom float64
	width        float64 // points, 0 when unset
	height       float64
	color        [3]int
	bold         bool
	border       bool
}

func (s style) fontStyle() string {
	if s.bold {
		return "B"
	}
	return ""
}

// sheet holds the rules of the document's <style> blocks.
type sheet struct {
	rules []*css.Rule
}

func parseSheet(src string) (sheet, error) {
	ss, err := parser.Parse(src)
	if err != nil {
		return sheet{}, fmt.Errorf("%w: stylesheet: %v", ErrInvalidHTML, err)
	}
	return sheet{rules: ss.Rules}, nil
}

// fontFaces returns the @font-face rules of the sheet.
func (s sheet) fontFaces() []fontFace {
	var faces []fontFace
	for _, r := range s.rules {
		if r.Kind != css.AtRule || !strings.EqualFold(strings.TrimPrefix(r.Name, "@"), "font-face") {
			continue
		}
		var f fontFace
		for _, d := range r.Declarations {
			switch strings.ToLower(d.Property) {
			case "font-family":
				f.family = unquote(d.Value)
			case "font-weight":
				f.bold = isBold(d.Value)
			case "src":
				f.src = cssURL(d.Value)
			}
		}
		if f.family != "" && f.src != "" {
			faces = append(faces, f)
		}
	}
	return faces
}

// declarations returns the declarations matching tag and classes, in source order.
func (s sheet) declarations(tag string, classes []string) []*css.Declaration {
	var out []*css.Declaration
	for _, r := range s.rules {
		if r.Kind != css.QualifiedRule {
			continue
		}
		for _, sel := range r.Selectors {
			if selectorMatches(strings.TrimSpace(sel), tag, classes) {
				out = append(out, r.Declarations...)
				break
			}
		}
	}
	return out
}

// selectorMatches supports "tag", ".class", "tag.class" and "*".
func selectorMatches(sel, tag string, classes []string) bool {
	if sel == "*" {
		return true
	}
	t, class, hasClass := strings.Cut(sel, ".")
	if t != "" && !strings.EqualFold(t, tag) {
		return false
	}
	if !hasClass {
		return t != ""
	}
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// apply updates s with declarations, resolving relative lengths against parent.
func (s *style) apply(decls []*css.Declaration, parent style) {
	for _, d := range decls {
		v := strings.TrimSpace(d.Value)
		switch strings.ToLower(d.Property) {
		case "font-family":
			s.family = unquote(strings.Split(v, ",")[0])
		case "font-weight":
			s.bold = isBold(v)
		case "font-size":
			if pt, ok := length(v, parent.size); ok {
				s.size = pt
			}
		case "text-align":
			switch strings.ToLower(v) {
			case "center":
				s.align = "C"
			case "right":
				s.align = "R"
			case "justify":
				s.align = "J"
			default:
				s.align = "L"
			}
		case "margin-top":
			if pt, ok := length(v, s.size); ok {
				s.marginTop = pt
			}
		case "margin-bottom":
			if pt, ok := length(v, s.size); ok {
				s.marginBottom = pt
			}
		case "width":
			if pt, ok := length(v, s.size); ok {
				s.width = pt
			}
		case "height":
			if pt, ok := length(v, s.size); ok {
				s.height = pt
			}
		case "color":
			if rgb, ok := hexColor(v); ok {
				s.color = rgb
			}
		case "border":
			s.border = v != "" && v != "none" && v != "0"
		}
	}
}

func inlineDeclarations(attr string) ([]*css.Declaration, error) {
	if strings.TrimSpace(attr) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return nil, fmt.Errorf("%w: style attribute %q: %v", ErrInvalidHTML, attr, err)
	}
	return decls, nil
}

// length converts a CSS length to points. Bare numbers are pixels.
func length(v string, em float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	units := []struct {
		suffix string
		factor float64
	}{
		{"px", PointsPerPixel},
		{"pt", 1},
		{"mm", 1 / mmPerPoint},
		{"cm", 10 / mmPerPoint},
		{"in", 72},
		{"em", em},
		{"%", 0},
	}
	for _, u := range units {
		if strings.HasSuffix(v, u.suffix) {
			if u.factor == 0 {
				return 0, false
			}
			n, err := strconv.ParseFloat(strings.TrimSuffix(v, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return n * u.factor, true
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n * PointsPerPixel, true
}

func isBold(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "bold" || v == "bolder" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 600
}

func hexColor(v string) ([3]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return [3]int{}, false
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return [3]int{}, false
	}
	return [3]int{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, true
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// cssURL extracts the path from url(...) or a quoted string.
func cssURL(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.Index(strings.ToLower(v), "url("); i >= 0 {
		v = v[i+4:]
		if j := strings.Index(v, ")"); j >= 0 {
			v = v[:j]
		}
	}
	return unquote(v)
}
