package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/render"
)

func TestParseFrontmatter(t *testing.T) {
	t.Parallel()

	t.Run("with metadata", func(t *testing.T) {
		t.Parallel()
		meta, body, err := render.ParseFrontmatter([]byte("---\ntitle: Hello\nlang: cy\n---\r\nBody\n"))
		require.NoError(t, err)
		require.Equal(t, render.Frontmatter{Title: "Hello", Lang: "cy"}, meta)
		require.Equal(t, "Body\n", string(body))
	})

	t.Run("without metadata", func(t *testing.T) {
		t.Parallel()
		meta, body, err := render.ParseFrontmatter([]byte("# Title\n"))
		require.NoError(t, err)
		require.Empty(t, meta.Title)
		require.Equal(t, "# Title\n", string(body))
	})

	t.Run("unterminated", func(t *testing.T) {
		t.Parallel()
		_, _, err := render.ParseFrontmatter([]byte("---\ntitle: x\n"))
		require.ErrorIs(t, err, render.ErrInvalidFrontmatter)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, _, err := render.ParseFrontmatter([]byte("---\ntitle: [\n---\nx"))
		require.ErrorIs(t, err, render.ErrInvalidFrontmatter)
	})
}
