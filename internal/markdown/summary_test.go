package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	r := New()

	require.Equal(t, "First paragraph with emphasis and code.",
		r.Summary([]byte("# Title\n\nFirst paragraph with *emphasis*\nand `code`.\n\nSecond one.\n"), 0))
	require.Equal(t, "", r.Summary([]byte("# Only a heading\n"), 0))
	require.Equal(t, "one two…", r.Summary([]byte("one two three four\n"), 9))
}
