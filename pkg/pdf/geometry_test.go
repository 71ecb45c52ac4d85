package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/pdf"
)

func TestGeometry_Page(t *testing.T) {
	t.Parallel()

	g := pdf.Geometry{
		DotsPerPoint: 20,
		First: pdf.PageBox{
			Width: 1000, Height: 2000,
			Margin:  pdf.Edges{Top: 300, Right: 50, Bottom: 200, Left: 50},
			Padding: pdf.Edges{Top: 10, Bottom: 10},
		},
		Rest: pdf.PageBox{
			Width: 1000, Height: 2000,
			Margin: pdf.Edges{Top: 100, Right: 50, Bottom: 200, Left: 50},
			Border: pdf.Edges{Top: 5, Bottom: 5},
		},
	}

	require.InDelta(t, 1480, g.First.ContentHeight(), 1e-9)
	require.InDelta(t, 1690, g.Rest.ContentHeight(), 1e-9)
	require.InDelta(t, 900, g.First.ContentWidth(), 1e-9)

	p1 := g.Page(1)
	require.Equal(t, 1, p1.Number)
	require.True(t, p1.Odd())
	require.InDelta(t, 0, p1.Top, 1e-9)
	require.InDelta(t, 1480, p1.Bottom, 1e-9)

	p2 := g.Page(2)
	require.False(t, p2.Odd())
	require.InDelta(t, 1480, p2.Top, 1e-9)
	require.InDelta(t, 1480+1690, p2.Bottom, 1e-9)
	require.Equal(t, g.Rest, p2.Box)

	p5 := g.Page(5)
	require.InDelta(t, 1480+3*1690, p5.Top, 1e-9)
	require.InDelta(t, p5.Top+1690, p5.Bottom, 1e-9)

	require.Equal(t, g.Page(1), g.Page(0))
}

func TestEdges(t *testing.T) {
	t.Parallel()

	e := pdf.Edges{Top: 20, Right: 40, Bottom: 60, Left: 80}.Add(pdf.Edges{Top: 20, Right: 20, Bottom: 20, Left: 20})
	require.Equal(t, pdf.Edges{Top: 40, Right: 60, Bottom: 80, Left: 100}, e)
	require.Equal(t, pdf.Edges{Top: 2, Right: 3, Bottom: 4, Left: 5}, e.Scale(20))
}

func TestConfig_Geometry(t *testing.T) {
	t.Parallel()

	g := pdf.DefaultConfig().Geometry()
	require.InDelta(t, 20, g.DotsPerPoint, 1e-9)
	require.InDelta(t, 595.2756*20, g.First.Width, 1e-2)
	require.InDelta(t, 841.8898*20, g.First.Height, 1e-2)
	require.InDelta(t, 40/(25.4/72)*20, g.First.Margin.Top, 1e-6)
	require.InDelta(t, 25/(25.4/72)*20, g.Rest.Margin.Top, 1e-6)
}
