package render

import (
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFuncs are available in every template.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": func(s string) string {
			return cases.Upper(language.Und).String(s)
		},
		"nl2br": func(s string) template.HTML {
			lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
			for i, line := range lines {
				lines[i] = template.HTMLEscapeString(line)
			}
			return template.HTML(strings.Join(lines, "<br>"))
		},
		"default": func(fallback, s string) string {
			if strings.TrimSpace(s) == "" {
				return fallback
			}
			return s
		},
	}
}
