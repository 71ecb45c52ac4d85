package template

import "path"

// DefaultRoot is the bundle directory holding all templates.
const DefaultRoot = "templates"

// CommonDir is the directory, relative to the root, holding shared partials and images.
const CommonDir = "common"

// Location is where a template lives inside the bundle.
type Location struct {
	Root     string
	Dir      string
	Filename string
}

// Path returns the template file path.
func (l Location) Path() string {
	return path.Join(l.Dir, l.Filename)
}

// CommonDir returns the shared partials directory for this location's root.
func (l Location) CommonDir() string {
	return path.Join(l.Root, CommonDir)
}

// WithFormat returns the location with the file extension matching f.
func (l Location) WithFormat(f Format) Location {
	ext := ".html"
	if f == FormatMarkdown {
		ext = ".md"
	}
	l.Filename = l.Filename[:len(l.Filename)-len(path.Ext(l.Filename))] + ext
	return l
}

// Locator derives template locations from keys.
type Locator struct {
	root string
}

// NewLocator creates a locator rooted at root. Empty root means DefaultRoot.
func NewLocator(root string) Locator {
	if root == "" {
		root = DefaultRoot
	}
	return Locator{root: path.Clean(root)}
}

// Locate returns the location for key: {root}/{app}/{template}/{template}_v{version}.html.
func (l Locator) Locate(key Key) Location {
	root := l.root
	if root == "" {
		root = DefaultRoot
	}
	return Location{
		Root:     root,
		Dir:      path.Join(root, key.ApplicationID, key.TemplateID),
		Filename: key.TemplateID + "_v" + key.Version.String() + ".html",
	}
}

// Locate uses a locator rooted at DefaultRoot.
func Locate(key Key) Location {
	return NewLocator(DefaultRoot).Locate(key)
}
