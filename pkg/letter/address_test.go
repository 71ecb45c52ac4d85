package letter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/letter"
)

func TestAddress(t *testing.T) {
	t.Parallel()

	t.Run("nil lines are empty", func(t *testing.T) {
		t.Parallel()
		lines := letter.NewAddress("a", "b").Lines()
		require.Equal(t, [7]string{"a", "b", "", "", "", "", ""}, lines)
	})

	t.Run("extra lines are dropped", func(t *testing.T) {
		t.Parallel()
		lines := letter.NewAddress("1", "2", "3", "4", "5", "6", "7", "8").Lines()
		require.Equal(t, "7", lines[6])
	})

	t.Run("json field names", func(t *testing.T) {
		t.Parallel()
		var a letter.Address
		require.NoError(t, json.Unmarshal([]byte(`{"address_line_1":"Line 1","address_line_3":null,"address_line_7":"CF14 3UZ"}`), &a))
		lines := a.Lines()
		require.Equal(t, "Line 1", lines[0])
		require.Equal(t, "", lines[2])
		require.Equal(t, "CF14 3UZ", lines[6])
	})
}
