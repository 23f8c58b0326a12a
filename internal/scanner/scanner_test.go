package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestScan_AnonymousComponentFence(t *testing.T) {
	res := Scan(lines("intro\n```component\n<Counter />\n<p>hi</p>\n```\noutro"))

	require.Equal(t, []string{"component1"}, res.ComponentKeys)
	require.Equal(t, "<Counter />\n<p>hi</p>\n", res.Components["component1"])
	require.Contains(t, res.Text(), `<div id="component1" class="component-block">`)
	require.Equal(t, "intro", res.Lines[0])
	require.Equal(t, "outro", res.Lines[len(res.Lines)-1])
	require.Empty(t, res.Samples)
	require.Empty(t, res.Scripts)
}

func TestScan_NamedComponentFence(t *testing.T) {
	res := Scan(lines("```component chart\n<Chart />\n```\n```component\n<X />\n```"))

	require.Equal(t, []string{"chart1", "component2"}, res.ComponentKeys)
}

func TestScan_ComponentKeysNeverCollideWithSampleKeys(t *testing.T) {
	res := Scan(lines("```component code-block\n<p>a</p>\n```\n```go\nx := 1\n```\n<CodeBlock />\n```component code-block3\nb\n```"))

	require.Equal(t, []string{"component-code-block1", "component-code-block2", "component-code-block33"}, res.ComponentKeys)
	require.Len(t, res.Samples, 1)
	require.Equal(t, "code-block1", res.Samples[0].Key)
	for _, key := range res.ComponentKeys {
		require.NotEqual(t, res.Samples[0].Key, key)
	}
	require.Equal(t, 1, strings.Count(res.Text(), `id="code-block1"`))
}

func TestScan_CodeSamplesAreEnumeratedInOrder(t *testing.T) {
	res := Scan(lines("```go\nfmt.Println(`hi`)\n```\ntext\n~~~\nplain\n~~~"))

	require.Len(t, res.Samples, 2)
	require.Equal(t, Sample{Key: "code-block1", Language: "go", Content: "fmt.Println(`hi`)\n"}, res.Samples[0])
	require.Equal(t, Sample{Key: "code-block2", Language: "plaintext", Content: "plain\n"}, res.Samples[1])

	require.Len(t, res.Scripts, 2)
	require.Contains(t, res.Scripts[0], "getElementById('code-block1')")
	require.Contains(t, res.Scripts[0], "fmt.Println(\\`hi\\`)")
	require.Contains(t, res.Scripts[0], "language: 'go'")
	require.Contains(t, res.Scripts[1], "language: 'plaintext'")

	text := res.Text()
	require.Less(t, strings.Index(text, `id="code-block1"`), strings.Index(text, `id="code-block2"`))
	require.NotContains(t, text, "fmt.Println")
}

func TestScan_ComponentAndSampleCountersAreIndependent(t *testing.T) {
	res := Scan(lines("```js\na\n```\n```component\nb\n```\n```js\nc\n```"))

	require.Equal(t, []string{"component1"}, res.ComponentKeys)
	require.Equal(t, "code-block1", res.Samples[0].Key)
	require.Equal(t, "code-block2", res.Samples[1].Key)
}

func TestScan_FenceInteriorIsVerbatim(t *testing.T) {
	res := Scan(lines("```html\n<Counter />\n<script>x()</script>\n```"))

	require.Empty(t, res.Components)
	require.Equal(t, "<Counter />\n<script>x()</script>\n", res.Samples[0].Content)
	require.Len(t, res.Scripts, 1, "only the generated highlighter script")
}

func TestScan_ComponentTags(t *testing.T) {
	t.Run("self closing", func(t *testing.T) {
		res := Scan(lines(`<MyCounter Start="3" />`))
		require.Equal(t, []string{"my-counter1"}, res.ComponentKeys)
		require.Equal(t, "<MyCounter Start=\"3\" />\n", res.Components["my-counter1"])
	})

	t.Run("closed on same line", func(t *testing.T) {
		res := Scan(lines(`<Alert>Careful</Alert>`))
		require.Equal(t, "<Alert>Careful</Alert>\n", res.Components["alert1"])
	})

	t.Run("multi line", func(t *testing.T) {
		res := Scan(lines("<Tabs>\n  <Tab Title=\"a\">A</Tab>\n</Tabs>\nafter"))
		require.Equal(t, "<Tabs>\n  <Tab Title=\"a\">A</Tab>\n</Tabs>\n", res.Components["tabs1"])
		require.Equal(t, "after", res.Lines[len(res.Lines)-1])
	})

	t.Run("mismatched end tag keeps buffering", func(t *testing.T) {
		res := Scan(lines("<Card>\n<Body>\n</Body>\ntext\n</Card>"))
		require.Equal(t, []string{"card1"}, res.ComponentKeys)
		require.Equal(t, "<Card>\n<Body>\n</Body>\ntext\n</Card>\n", res.Components["card1"])
	})

	t.Run("reserved tags pass through", func(t *testing.T) {
		res := Scan(lines("<PageTitle>About</PageTitle>\n<NavMenu />"))
		require.Empty(t, res.Components)
		require.Equal(t, []string{"<PageTitle>About</PageTitle>", "<NavMenu />"}, res.Lines)
	})

	t.Run("lowercase html is plain", func(t *testing.T) {
		res := Scan(lines(`<div class="note">x</div>`))
		require.Empty(t, res.Components)
		require.Equal(t, []string{`<div class="note">x</div>`}, res.Lines)
	})
}

func TestScan_Scripts(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		res := Scan(lines(`text` + "\n" + `<script src="/app.js"></script>`))
		require.Equal(t, []string{`<script src="/app.js"></script>`}, res.Scripts)
		require.Equal(t, []string{"text"}, res.Lines)
	})

	t.Run("multi line", func(t *testing.T) {
		res := Scan(lines("<script>\nconsole.log(1);\n</script>\nafter"))
		require.Equal(t, []string{"<script>\nconsole.log(1);\n</script>\n"}, res.Scripts)
		require.Equal(t, []string{"after"}, res.Lines)
	})

	t.Run("ordering with samples", func(t *testing.T) {
		res := Scan(lines("<script>a()</script>\n```\nx\n```\n<script>b()</script>"))
		require.Len(t, res.Scripts, 3)
		require.Equal(t, "<script>a()</script>", res.Scripts[0])
		require.Contains(t, res.Scripts[1], "code-block1")
		require.Equal(t, "<script>b()</script>", res.Scripts[2])
	})
}

func TestScan_OpenBlockAtEndIsDropped(t *testing.T) {
	res := Scan(lines("before\n```go\nunfinished"))

	require.True(t, res.Dropped)
	require.Equal(t, []string{"before"}, res.Lines)
	require.Empty(t, res.Samples)
	require.Empty(t, res.Scripts)
}

func TestScan_EveryPlaceholderHasEntry(t *testing.T) {
	res := Scan(lines("```component\na\n```\n<Widget />\n```py\nb\n```\n<Other>\n</Other>"))

	text := res.Text()
	for _, key := range res.ComponentKeys {
		require.Contains(t, res.Components, key)
		require.Contains(t, text, `id="`+key+`"`)
	}
	for _, s := range res.Samples {
		require.Contains(t, text, `id="`+s.Key+`"`)
	}
	require.Equal(t, 3, strings.Count(text, "component-block"))
	require.Equal(t, 1, strings.Count(text, "monaco-editor-block"))
}

func TestScanner_StepIsPure(t *testing.T) {
	s0 := New()
	s1, out := s0.Step("```go")
	require.Empty(t, out)
	require.IsType(t, InSample{}, s1.State())
	require.IsType(t, Default{}, s0.State())

	a, _ := s1.Step("first")
	b, _ := s1.Step("second")

	_, outA := a.Step("```")
	_, outB := b.Step("```")
	require.Equal(t, "first\n", outA[0].(SampleCode).Content)
	require.Equal(t, "second\n", outB[0].(SampleCode).Content)
}

func TestScan_IsDeterministic(t *testing.T) {
	input := lines("# T\n```component\n<A />\n```\n<B />\n```go\nx\n```\n<script>\ny\n</script>")
	require.Equal(t, Scan(input), Scan(input))
}

func TestHighlighterScript_EscapesTemplateLiteral(t *testing.T) {
	script := HighlighterScript("code-block1", "a `b` ${c} \\n </script>", "c++ ');alert(1)//")
	require.Contains(t, script, "a \\`b\\` \\${c} \\\\n <\\/script>")
	require.Contains(t, script, "language: 'c++alert1'")
}

func TestKebabCase(t *testing.T) {
	require.Equal(t, "counter", kebabCase("Counter"))
	require.Equal(t, "my-counter", kebabCase("MyCounter"))
	require.Equal(t, "a-b-c", kebabCase("ABC"))
}
