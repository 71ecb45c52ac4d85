package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/pdf"
)

func TestSize_UnmarshalText(t *testing.T) {
	t.Parallel()

	var s pdf.Size
	require.NoError(t, s.UnmarshalText([]byte("210x297")))
	require.Equal(t, pdf.Size{Width: 210, Height: 297}, s)

	require.NoError(t, s.UnmarshalText([]byte(" 215.9 X 279.4 ")))
	require.Equal(t, pdf.Size{Width: 215.9, Height: 279.4}, s)

	require.ErrorIs(t, s.UnmarshalText([]byte("A4")), pdf.ErrInvalidConfig)
	require.ErrorIs(t, s.UnmarshalText([]byte("ax297")), pdf.ErrInvalidConfig)
}

func TestMargins_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want pdf.Margins
	}{
		{"10", pdf.Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}},
		{"10,20", pdf.Margins{Top: 10, Right: 20, Bottom: 10, Left: 20}},
		{"10,20,30", pdf.Margins{Top: 10, Right: 20, Bottom: 30, Left: 20}},
		{"10, 20, 30, 40", pdf.Margins{Top: 10, Right: 20, Bottom: 30, Left: 40}},
	}
	for _, tt := range tests {
		var m pdf.Margins
		require.NoError(t, m.UnmarshalText([]byte(tt.in)), tt.in)
		require.Equal(t, tt.want, m, tt.in)
	}

	var m pdf.Margins
	require.ErrorIs(t, m.UnmarshalText([]byte("1,2,3,4,5")), pdf.ErrInvalidConfig)
	require.ErrorIs(t, m.UnmarshalText([]byte("1,x")), pdf.ErrInvalidConfig)
}
