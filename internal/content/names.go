package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

var postNameRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})-(.+)$`)

// ParsePostName splits a post file name of the form yyyy-mm-dd-slug.md into
// its publish date (UTC midnight) and slug.
func ParsePostName(file string) (time.Time, string, error) {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	m := postNameRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", invalidPostName(file, "expected yyyy-mm-dd-slug.md")
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, "", invalidPostName(file, fmt.Sprintf("%s-%s-%s is not a calendar date", m[1], m[2], m[3]))
	}
	return date, m[4], nil
}

func invalidPostName(file, reason string) error {
	return ferrors.ContentFormatError("invalid post file name: " + reason).
		WithContext("path", file).
		Build()
}

// PostURL is the site path of a post: /post/<y>/<m>/<d>/<slug>, unpadded.
func PostURL(date time.Time, slug string) string {
	return fmt.Sprintf("/post/%d/%d/%d/%s", date.Year(), int(date.Month()), date.Day(), slug)
}

// PageURL is the site path of a markdown page given its path relative to
// the pages root without extension. The index page is the site root.
func PageURL(rel string) string {
	rel = filepath.ToSlash(rel)
	if rel == "index" {
		return "/"
	}
	return "/" + strings.TrimPrefix(rel, "/")
}

// OutputPath maps a site path to the file it is written to under root.
// "/" becomes index.html; other paths get an .html extension.
func OutputPath(root, urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return filepath.Join(root, "index.html")
	}
	return filepath.Join(root, filepath.FromSlash(trimmed)+".html")
}

// LayoutName maps a front matter layout value to a layout template name:
// post → PostLayout.
func LayoutName(value string) string {
	if value == "" || strings.HasSuffix(value, "Layout") {
		return value
	}
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + value[size:] + "Layout"
}
