package scanner

// Block is one classified unit of a scanned body.
type Block interface {
	block()
}

// PlainLine is a line passed through to the markdown/template stream.
type PlainLine struct {
	Text string
}

// SampleCode is a fenced code sample rendered client-side by the highlighter.
type SampleCode struct {
	Key      string
	Language string
	Content  string
}

// ScriptBlock is a complete <script> element, including its tags.
type ScriptBlock struct {
	Content string
}

// ComponentInvocation is the raw markup of an embedded component.
type ComponentInvocation struct {
	Key    string
	Markup string
}

func (PlainLine) block()           {}
func (SampleCode) block()          {}
func (ScriptBlock) block()         {}
func (ComponentInvocation) block() {}

// State is the scanner state between lines.
type State interface {
	state()
}

// Default is the state outside of any block.
type Default struct{}

// InSample buffers the interior of a fence. Component fences carry
// IsComponent and are registered as components when closed.
type InSample struct {
	Key         string
	Language    string
	IsComponent bool
	Lines       []string
}

// InScript buffers a multi-line script element.
type InScript struct {
	Lines []string
}

// InComponent buffers a multi-line component tag until the end tag with the
// same name is seen.
type InComponent struct {
	Tag   string
	Key   string
	Lines []string
}

func (Default) state()     {}
func (InSample) state()    {}
func (InScript) state()    {}
func (InComponent) state() {}
