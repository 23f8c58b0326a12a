package linkverify

import (
	"bytes"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BrokenLink is an internal link that resolves to nothing.
type BrokenLink struct {
	Page string
	URL  string
	Tag  string
}

// Verifier resolves internal links against the set of generated page URLs
// and the files in the output tree. It is read-only after construction.
type Verifier struct {
	outputDir string
	known     map[string]struct{}
}

// NewVerifier creates a verifier for a site whose pages live at urls.
func NewVerifier(outputDir string, urls []string) *Verifier {
	known := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		known[normalize(u)] = struct{}{}
	}
	return &Verifier{outputDir: outputDir, known: known}
}

// VerifyPage reports the broken internal links in a rendered page served
// at pageURL.
func (v *Verifier) VerifyPage(pageURL string, content []byte) ([]BrokenLink, error) {
	links, err := ExtractLinksFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	base := &url.URL{Path: pageURL}
	var broken []BrokenLink
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		ref, err := url.Parse(link.URL)
		if err != nil {
			broken = append(broken, BrokenLink{Page: pageURL, URL: link.URL, Tag: link.Tag})
			continue
		}
		target := base.ResolveReference(ref).Path
		if target == "" || v.exists(target) {
			continue
		}
		broken = append(broken, BrokenLink{Page: pageURL, URL: link.URL, Tag: link.Tag})
	}
	return broken, nil
}

func (v *Verifier) exists(target string) bool {
	p := normalize(target)
	if _, ok := v.known[p]; ok {
		return true
	}

	local := filepath.Join(v.outputDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
	for _, candidate := range []string{local, local + ".html", filepath.Join(local, "index.html")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	return path.Clean("/" + p)
}
