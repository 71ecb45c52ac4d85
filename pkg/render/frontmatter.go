package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the metadata block of a markdown template.
type Frontmatter struct {
	Title string `yaml:"title"`
	Lang  string `yaml:"lang"`
}

var delimiter = []byte("---")

// ParseFrontmatter splits content into its frontmatter and body.
// Content without a leading delimiter has empty frontmatter.
func ParseFrontmatter(content []byte) (Frontmatter, []byte, error) {
	var meta Frontmatter

	if !bytes.HasPrefix(content, delimiter) {
		return meta, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return meta, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	body := rest[end+len(delimiter):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case bytes.HasPrefix(body, []byte("\n")):
		body = body[1:]
	}

	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	return meta, body, nil
}
