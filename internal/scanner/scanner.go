package scanner

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

const (
	defaultLanguage    = "plaintext"
	componentFenceTag  = "component"
	componentKeyPrefix = "component"
	sampleKeyPrefix    = "code-block"
)

// reservedTags are library components handled by the template compiler and
// passed through untouched.
var reservedTags = map[string]bool{
	"PageTitle": true,
	"NavMenu":   true,
}

var (
	componentStartRe = regexp.MustCompile(`^\s*<([A-Z][A-Za-z]+)`)
	componentEndRe   = regexp.MustCompile(`^\s*</([A-Z][A-Za-z]+)>`)
	scriptStartRe    = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	scriptEndRe      = regexp.MustCompile(`(?i)</script>`)
)

// Scanner is an immutable fold over body lines. The zero value is ready to use.
type Scanner struct {
	state      State
	components int
	samples    int
}

// New returns a scanner in the Default state.
func New() Scanner {
	return Scanner{state: Default{}}
}

// State returns the current scanner state.
func (s Scanner) State() State {
	if s.state == nil {
		return Default{}
	}
	return s.state
}

// Open reports whether a block is still being buffered.
func (s Scanner) Open() bool {
	_, isDefault := s.State().(Default)
	return !isDefault
}

// Step consumes one line and returns the next scanner and the completed blocks.
func (s Scanner) Step(line string) (Scanner, []Block) {
	switch st := s.State().(type) {
	case InSample:
		return s.stepSample(st, line)
	case InScript:
		return s.stepScript(st, line)
	case InComponent:
		return s.stepComponent(st, line)
	default:
		return s.stepDefault(line)
	}
}

func (s Scanner) stepSample(st InSample, line string) (Scanner, []Block) {
	if !isFence(line) {
		st.Lines = appendLine(st.Lines, line)
		return s.with(st), nil
	}
	content := joinLines(st.Lines)
	if st.IsComponent {
		return s.with(Default{}), []Block{ComponentInvocation{Key: st.Key, Markup: content}}
	}
	return s.with(Default{}), []Block{SampleCode{Key: st.Key, Language: st.Language, Content: content}}
}

func (s Scanner) stepScript(st InScript, line string) (Scanner, []Block) {
	st.Lines = appendLine(st.Lines, line)
	if scriptEndRe.MatchString(line) {
		return s.with(Default{}), []Block{ScriptBlock{Content: joinLines(st.Lines)}}
	}
	return s.with(st), nil
}

func (s Scanner) stepComponent(st InComponent, line string) (Scanner, []Block) {
	st.Lines = appendLine(st.Lines, line)
	// An end tag for a different name may close a nested component; keep buffering.
	if m := componentEndRe.FindStringSubmatch(line); m != nil && m[1] == st.Tag {
		return s.with(Default{}), []Block{ComponentInvocation{Key: st.Key, Markup: joinLines(st.Lines)}}
	}
	return s.with(st), nil
}

func (s Scanner) stepDefault(line string) (Scanner, []Block) {
	if isFence(line) {
		return s.openFence(line), nil
	}

	if m := componentStartRe.FindStringSubmatch(line); m != nil && !reservedTags[m[1]] {
		tag := m[1]
		s.components++
		key := componentKey(kebabCase(tag), s.components)
		if closesOnSameLine(line, tag) {
			return s.with(Default{}), []Block{ComponentInvocation{Key: key, Markup: line + "\n"}}
		}
		return s.with(InComponent{Tag: tag, Key: key, Lines: []string{line}}), nil
	}

	if loc := scriptStartRe.FindStringIndex(line); loc != nil {
		if scriptEndRe.MatchString(line[loc[1]:]) {
			return s, []Block{ScriptBlock{Content: line}}
		}
		return s.with(InScript{Lines: []string{line}}), nil
	}

	return s, []Block{PlainLine{Text: line}}
}

func (s Scanner) openFence(line string) Scanner {
	info := strings.TrimSpace(line[3:])
	if rest, ok := strings.CutPrefix(info, componentFenceTag); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		s.components++
		prefix := componentKeyPrefix
		if fields := strings.Fields(rest); len(fields) > 0 {
			prefix = fields[0]
		}
		return s.with(InSample{Key: componentKey(prefix, s.components), IsComponent: true})
	}

	s.samples++
	language := defaultLanguage
	if fields := strings.Fields(info); len(fields) > 0 {
		language = fields[0]
	}
	return s.with(InSample{Key: sampleKeyPrefix + strconv.Itoa(s.samples), Language: language})
}

// componentKey enumerates a component. Prefixes that would read as a sample
// key (code-block, code-block2, ...) are namespaced so the two key spaces
// never overlap.
func componentKey(prefix string, n int) string {
	if rest, ok := strings.CutPrefix(prefix, sampleKeyPrefix); ok && strings.TrimLeft(rest, "0123456789") == "" {
		prefix = componentKeyPrefix + "-" + prefix
	}
	return prefix + strconv.Itoa(n)
}

func (s Scanner) with(st State) Scanner {
	s.state = st
	return s
}

// Fold runs the scanner over all lines and returns the emitted blocks in
// order along with the final scanner. A non-Default final state means the
// last block was never closed; its lines are not part of the output.
func Fold(lines []string) ([]Block, Scanner) {
	s := New()
	var blocks []Block
	for _, line := range lines {
		var emitted []Block
		s, emitted = s.Step(line)
		blocks = append(blocks, emitted...)
	}
	return blocks, s
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

func closesOnSameLine(line, tag string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, "/>") || strings.Contains(trimmed, "</"+tag+">")
}

// appendLine never writes into a backing array shared with another Scanner value.
func appendLine(lines []string, line string) []string {
	return append(slices.Clip(lines), line)
}

func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// kebabCase converts a PascalCase tag name to kebab-case: MyCounter → my-counter.
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
