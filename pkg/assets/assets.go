// Package assets embeds the default letter bundle: fonts, the sRGB color
// profile, templates with their shared partials and artwork, the template
// registry and the Welsh month dictionary.
package assets

import (
	"embed"
	"io/fs"

	"github.com/dmitrymomot/letterpress/pkg/localize"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Paths inside the bundle.
const (
	RegistryFile   = "registry.yaml"
	DictionaryFile = "dictionaries/cy.yaml"
)

//go:embed fonts color templates dictionaries registry.yaml
var files embed.FS

// Bundle returns the embedded bundle.
func Bundle() fs.FS { return files }

// Registry loads the template registry shipped with the bundle.
func Registry() (*template.Registry, error) {
	return template.LoadRegistry(files, RegistryFile)
}

// Dictionary loads the Welsh month dictionary shipped with the bundle.
func Dictionary() (*localize.Dictionary, error) {
	return localize.LoadDictionary(files, DictionaryFile)
}
