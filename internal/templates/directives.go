package templates

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

var (
	pageDirectiveRe = regexp.MustCompile(`(?m)^@page\s+"(.+?)"`)
	pageTitleRe     = regexp.MustCompile(`(?s)<PageTitle>(.*?)</PageTitle>`)
)

// Directives are the metadata declared inside a component template.
type Directives struct {
	Route string
	Title string
	// TitleFromMarker is false when Title was derived from the file name.
	TitleFromMarker bool
}

// ParseDirectives extracts the @page route and the optional <PageTitle>
// marker. A template without a route cannot be placed in the site and is a
// content format error.
func ParseDirectives(name, text string) (Directives, error) {
	m := pageDirectiveRe.FindStringSubmatch(text)
	if m == nil {
		return Directives{}, errors.ContentFormatError("component template does not contain a valid @page directive").
			WithContext("template", name).
			Build()
	}

	d := Directives{Route: strings.Trim(m[1], `"`)}
	if tm := pageTitleRe.FindStringSubmatch(text); tm != nil {
		d.Title = strings.TrimSpace(tm[1])
		d.TitleFromMarker = true
	} else {
		d.Title = TitleFromName(name)
	}
	return d, nil
}

// TitleFromName derives a display title from a file name:
// "AboutMe" and "about-me" both become "About Me".
func TitleFromName(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) ||
			(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))):
			flush()
		}
		cur = append(cur, r)
	}
	flush()

	// cases.Caser is stateful; one per call.
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}
