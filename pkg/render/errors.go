package render

import "errors"

var (
	// ErrTemplateNotFound indicates the template file could not be read.
	ErrTemplateNotFound = errors.New("render: template not found")

	// ErrLayoutNotFound indicates the markdown layout could not be read.
	ErrLayoutNotFound = errors.New("render: layout not found")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("render: invalid frontmatter")

	// ErrRenderFailed indicates parsing or executing a template failed.
	ErrRenderFailed = errors.New("render: failed to render template")
)
