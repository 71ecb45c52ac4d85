// Package template identifies letter templates and describes what each one needs.
//
// A template is identified by a [Key]: the owning application, the template
// name and a version. Versions are rational numbers, so "1" and "1.0" name the
// same template:
//
//	key, err := template.NewKey("chips", "direction_letter", "1.0")
//	key.String() // "chips/direction_letter/v1"
//
// # Registry
//
// A [Registry] maps keys to a [Schema]: the context variables a template
// requires plus a handful of flags the context builder acts on (whether today's
// date must be published, a reply-by offset, a trigger date source field).
// The registry is immutable once built. Looking up a key that was never
// registered returns [ErrTemplateNotRegistered]; there is no default schema.
//
//	reg, err := template.LoadRegistry(assets.FS, "registry.yaml")
//	schema, err := reg.Schema(key)
//
// # Locator
//
// A [Locator] derives where a template lives in the bundle. It performs no I/O,
// so an unresolvable key only surfaces later when the renderer opens the file:
//
//	loc := template.NewLocator("templates").Locate(key)
//	loc.Dir      // "templates/chips/direction_letter"
//	loc.Filename // "direction_letter_v1.html"
package template
