package frontmatter

import (
	"slices"
	"strings"
)

// Fields is a flat, insertion-ordered key/value view of a front matter block.
//
// Values are stored exactly as written (surrounding quotes included); callers
// strip them with Unquote when they need the bare value.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns an empty field set.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Parse reads `key: value` lines. Nesting is not supported: each line is split
// at its first colon, lines without one are ignored and a repeated key
// overwrites the earlier value while keeping its original position.
func Parse(frontmatter []byte) *Fields {
	f := NewFields()
	for line := range strings.Lines(string(frontmatter)) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		f.Set(key, strings.TrimSpace(value))
	}
	return f
}

// Set adds or replaces a raw value.
func (f *Fields) Set(key, value string) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Lookup returns the raw value for key.
func (f *Fields) Lookup(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Get returns the unquoted value for key, or fallback when the key is absent.
func (f *Fields) Get(key, fallback string) string {
	if v, ok := f.Lookup(key); ok {
		return Unquote(v)
	}
	return fallback
}

// Keys returns the keys in first-seen order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.keys)
}

// Unquote strips one pair of matching surrounding double or single quotes.
func Unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
