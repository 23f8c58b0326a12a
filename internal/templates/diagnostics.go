package templates

import (
	"fmt"
	"strings"
)

// Severity of a compiler diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes reported by the transform and build stages.
const (
	CodeUnknownParameter  = "PS0101"
	CodeCodeBlock         = "PS0102"
	CodeControlFlow       = "PS0103"
	CodeUnclosedComponent = "PS0201"
	CodeUnknownComponent  = "PS0202"
	CodeIgnoredDirective  = "PS0301"
	CodeParse             = "PS1000"
	// CodeScriptTag flags <script> elements inside a template. Scripts are
	// lifted out by the scanner before compilation, so this is the one code
	// treated as benign when deciding whether compilation failed.
	CodeScriptTag = "PS9992"
)

// Diagnostic is one message produced while compiling a template.
type Diagnostic struct {
	Code     string
	Severity Severity
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s %s (line %d): %s", d.Code, d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Code, d.Severity, d.Message)
}

// IsBenign reports whether the diagnostic is excluded from failure determination.
func (d Diagnostic) IsBenign() bool {
	return d.Code == CodeScriptTag
}

// FilterBenign drops benign diagnostics.
func FilterBenign(diags []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !d.IsBenign() {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether diags contains an error-severity diagnostic.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CompilationError carries the full diagnostic list of a failed compilation.
type CompilationError struct {
	Name        string
	Diagnostics []Diagnostic
}

func (e *CompilationError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			msgs = append(msgs, d.String())
		}
	}
	return fmt.Sprintf("compile %s: %s", e.Name, strings.Join(msgs, "; "))
}
