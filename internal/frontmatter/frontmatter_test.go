package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func TestSplit_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: \"Hello\"\n---\n# Hi\n")

	fm, body, style, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("title: \"Hello\"\n"), fm)
	require.Equal(t, []byte("# Hi\n"), body)
	require.Equal(t, "\n", style.Newline)
	require.True(t, style.HasTrailingNewline)
}

func TestSplit_CRLF(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, style, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
	require.Equal(t, "\r\n", style.Newline)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, _, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_EmptyFrontmatterBlockAtEOF(t *testing.T) {
	for _, input := range []string{"---\n---", "---\r\n---"} {
		fm, body, _, err := Split([]byte(input))
		require.NoError(t, err, "%q", input)
		require.Empty(t, fm)
		require.Empty(t, body)
	}
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingDelimiters_AreContentFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no header", "# Title\n\nHello\n", ErrMissingOpeningDelimiter},
		{"unterminated", "---\nkey: value\n# Title\n", ErrMissingClosingDelimiter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Split([]byte(tt.input))
			require.ErrorIs(t, err, tt.want)
			require.True(t, errors.HasCategory(err, errors.CategoryContentFormat))
		})
	}
}

func TestParse_FlatKeyValues(t *testing.T) {
	fields := Parse([]byte("title: \"Hello: World\"\nnavorder: 2\nnot a pair\n  layout :  page  \ntitle: 'Again'\n"))

	require.Equal(t, []string{"title", "navorder", "layout"}, fields.Keys())
	raw, ok := fields.Lookup("title")
	require.True(t, ok)
	require.Equal(t, "'Again'", raw, "duplicate keys overwrite, quotes retained")
	require.Equal(t, "Again", fields.Get("title", ""))
	require.Equal(t, "page", fields.Get("layout", ""))
	require.Equal(t, "fallback", fields.Get("missing", "fallback"))
}

func TestParse_ValueKeepsLaterColons(t *testing.T) {
	fields := Parse([]byte("lastmodified: \"2024-01-15 10:20:30\"\n"))
	require.Equal(t, "2024-01-15 10:20:30", fields.Get("lastmodified", ""))
}

func TestExtract_ReturnsBodyLines(t *testing.T) {
	fields, body, err := Extract([]byte("---\ntitle: \"Hello\"\n---\n# Hi\n\ntext\n"))
	require.NoError(t, err)
	require.Equal(t, "Hello", fields.Get("title", ""))
	require.Equal(t, []string{"# Hi", "", "text", ""}, body)
}

func TestRender_RoundTrip_PreservesKeySet(t *testing.T) {
	inputs := []string{
		"---\ntitle: \"Hello\"\nsubtitle: A world\nnavorder: 3\n---\n# Hi\n",
		"---\r\nlayout: 'post'\r\ndescription: x: y\r\n---\r\nbody\r\n",
		"---\n---\nonly body",
	}
	for _, input := range inputs {
		fields, body, err := Extract([]byte(input))
		require.NoError(t, err)
		_, _, style, err := Split([]byte(input))
		require.NoError(t, err)

		out := Render(fields, body, style)
		again, againBody, err := Extract(out)
		require.NoError(t, err)
		require.Equal(t, fields.Keys(), again.Keys())
		for _, key := range fields.Keys() {
			want, _ := fields.Lookup(key)
			got, ok := again.Lookup(key)
			require.True(t, ok, key)
			require.Equal(t, want, got, key)
		}
		require.Equal(t, body, againBody)
	}
}

func TestRender_IsByteStableForCanonicalInput(t *testing.T) {
	input := "---\ntitle: \"Hello\"\nlastmodified: \"2024-01-15 10:00:00\"\n---\n# Hi\n"
	fields, body, err := Extract([]byte(input))
	require.NoError(t, err)
	require.Equal(t, input, string(Render(fields, body, Style{Newline: "\n"})))
}

func TestUnquote(t *testing.T) {
	require.Equal(t, "a", Unquote(`"a"`))
	require.Equal(t, "a", Unquote(`'a'`))
	require.Equal(t, `"a'`, Unquote(`"a'`))
	require.Equal(t, `"`, Unquote(`"`))
	require.Equal(t, "", Unquote(`""`))
}
