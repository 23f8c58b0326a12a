// Package frontmatterops holds derived operations over parsed front matter.
package frontmatterops

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// LastModifiedKey is maintained by the stamp step and never part of the
// fingerprint, so stamping a source does not change its identity.
const LastModifiedKey = "lastmodified"

// ComputeFingerprint computes the content fingerprint of a source document.
//
// Canonicalization:
//   - excludes: fingerprint, lastmodified
//   - keeps the remaining keys in document order, one `key: value` line each
//   - joins with LF and no trailing newline
func ComputeFingerprint(fields *frontmatter.Fields, body string) string {
	var lines []string
	for _, key := range fields.Keys() {
		if key == mdfp.FingerprintField || key == LastModifiedKey {
			continue
		}
		value, _ := fields.Lookup(key)
		lines = append(lines, key+": "+value)
	}
	return mdfp.CalculateFingerprintFromParts(strings.Join(lines, "\n"), body)
}
