package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"path"
	"sort"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/letterpress/pkg/cache"
	tpl "github.com/dmitrymomot/letterpress/pkg/template"
)

// DefaultLayout is the file in the common directory wrapping markdown letters.
const DefaultLayout = "layout.html"

// DefaultLang is used when markdown frontmatter does not declare a language.
const DefaultLang = "en-GB"

// Renderer renders letter templates from a filesystem bundle.
// Safe for concurrent use.
type Renderer struct {
	fs     fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
	funcs  template.FuncMap
	layout string

	htmlCache   *cache.LRU[*template.Template]
	mdCache     *cache.LRU[*markdownTemplate]
	layoutCache *cache.LRU[*template.Template]
}

type markdownTemplate struct {
	tmpl *texttemplate.Template
	meta Frontmatter
}

// LayoutData is passed to the markdown layout.
type LayoutData struct {
	Vars    map[string]string
	Title   string
	Lang    string
	Content template.HTML
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFuncs adds template functions, overriding defaults with the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		maps.Copy(r.funcs, funcs)
	}
}

// WithLayout sets the markdown layout file name inside the common directory.
func WithLayout(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.layout = name
		}
	}
}

// WithPolicy replaces the sanitizer applied to rendered markdown.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if p != nil {
			r.policy = p
		}
	}
}

// New creates a renderer over fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fs:          fsys,
		md:          goldmark.New(goldmark.WithExtensions(extension.Table)),
		policy:      bluemonday.UGCPolicy(),
		funcs:       DefaultFuncs(),
		layout:      DefaultLayout,
		htmlCache:   cache.New[*template.Template](0),
		mdCache:     cache.New[*markdownTemplate](0),
		layoutCache: cache.New[*template.Template](0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the template at loc with vars and returns the HTML.
// Markdown templates are detected by their .md extension.
func (r *Renderer) Render(ctx context.Context, loc tpl.Location, vars map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path.Ext(loc.Filename) == ".md" {
		return r.renderMarkdown(loc, vars)
	}
	return r.renderHTML(loc, vars)
}

func (r *Renderer) renderHTML(loc tpl.Location, vars map[string]string) (string, error) {
	t, err := r.htmlTemplate(loc)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, loc.Path(), err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderMarkdown(loc tpl.Location, vars map[string]string) (string, error) {
	mt, err := r.markdownTemplate(loc)
	if err != nil {
		return "", err
	}

	var src bytes.Buffer
	if err := mt.tmpl.Execute(&src, vars); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, loc.Path(), err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(src.Bytes(), &body); err != nil {
		return "", fmt.Errorf("%w: %s: converting markdown: %v", ErrRenderFailed, loc.Path(), err)
	}

	layout, err := r.layoutTemplate(loc)
	if err != nil {
		return "", err
	}

	data := LayoutData{
		Vars:    vars,
		Title:   mt.meta.Title,
		Lang:    mt.meta.Lang,
		Content: template.HTML(r.policy.SanitizeBytes(body.Bytes())),
	}
	if data.Lang == "" {
		data.Lang = DefaultLang
	}

	var out bytes.Buffer
	if err := layout.Execute(&out, data); err != nil {
		return "", fmt.Errorf("%w: %s: executing layout: %v", ErrRenderFailed, loc.Path(), err)
	}
	return out.String(), nil
}

func (r *Renderer) htmlTemplate(loc tpl.Location) (*template.Template, error) {
	key := loc.Path()
	return r.htmlCache.GetOrLoad(key, func() (*template.Template, error) {
		return r.parseHTML(loc, key)
	})
}

func (r *Renderer) parseHTML(loc tpl.Location, key string) (*template.Template, error) {
	content, err := fs.ReadFile(r.fs, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, key, err)
	}

	t, err := template.New(loc.Filename).Funcs(r.funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, key, err)
	}
	if err := r.addPartials(t, loc); err != nil {
		return nil, err
	}
	return t, nil
}

// addPartials parses every common/*.html file into t, skipping the layout.
func (r *Renderer) addPartials(t *template.Template, loc tpl.Location) error {
	matches, err := fs.Glob(r.fs, path.Join(loc.CommonDir(), "*.html"))
	if err != nil {
		return fmt.Errorf("%w: listing partials: %v", ErrRenderFailed, err)
	}
	sort.Strings(matches)

	for _, name := range matches {
		if path.Base(name) == r.layout {
			continue
		}
		content, err := fs.ReadFile(r.fs, name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
		}
		if _, err := t.New(path.Base(name)).Parse(string(content)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}
	}
	return nil
}

func (r *Renderer) markdownTemplate(loc tpl.Location) (*markdownTemplate, error) {
	key := loc.Path()
	return r.mdCache.GetOrLoad(key, func() (*markdownTemplate, error) {
		return r.parseMarkdown(loc, key)
	})
}

func (r *Renderer) parseMarkdown(loc tpl.Location, key string) (*markdownTemplate, error) {
	content, err := fs.ReadFile(r.fs, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, key, err)
	}

	meta, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	t, err := texttemplate.New(loc.Filename).
		Funcs(texttemplate.FuncMap(r.funcs)).
		Option("missingkey=error").
		Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, key, err)
	}

	return &markdownTemplate{tmpl: t, meta: meta}, nil
}

func (r *Renderer) layoutTemplate(loc tpl.Location) (*template.Template, error) {
	key := path.Join(loc.CommonDir(), r.layout)
	return r.layoutCache.GetOrLoad(key, func() (*template.Template, error) {
		return r.parseLayout(loc, key)
	})
}

func (r *Renderer) parseLayout(loc tpl.Location, key string) (*template.Template, error) {
	content, err := fs.ReadFile(r.fs, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, key, err)
	}

	t, err := template.New(r.layout).Funcs(r.funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, key, err)
	}
	if err := r.addPartials(t, loc); err != nil {
		return nil, err
	}
	return t, nil
}
