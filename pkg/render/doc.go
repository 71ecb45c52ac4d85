// Package render turns a located letter template and its variables into HTML.
//
// HTML templates are parsed with html/template together with every partial
// in the template root's common directory, so a letter can include shared
// blocks such as {{template "address" .}}. Markdown templates carry YAML
// frontmatter (title, lang), are rendered with goldmark, sanitized with
// bluemonday and wrapped in the common layout.
//
// The template root is taken from the Location passed to each Render call,
// never from renderer state, so concurrent renders of templates under
// different roots cannot observe each other. Parsed templates are cached by
// path; rendered output is never cached.
//
//	r := render.New(assets.Bundle())
//	html, err := r.Render(ctx, ltr.Location(), ltr.Vars())
//
// Referencing a variable that is not in the map is an error.
package render
