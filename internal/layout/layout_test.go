package layout

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/model"
)

var site = Site{
	Name:        "pagesmith",
	Title:       "A Site",
	Description: "Notes & things",
	HeaderLinks: []template.HTML{`<link rel="alternate" href="/feed.xml">`},
}

func TestRender_PostLayout(t *testing.T) {
	lib, err := New("")
	require.NoError(t, err)

	post := &model.Post{
		Document: model.Document{
			Title:      "Hello",
			Subtitle:   "A greeting",
			Body:       "<h1>Hi</h1>",
			Components: map[string]string{"counter2": "<Counter />\n", "chart1": "<Chart />\n"},
			Scripts:    []string{`<script src="/app.js"></script>`},
			Layout:     "PostLayout",
		},
		PublishedDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Author:        "Ann",
	}
	nav := []model.Link{{Title: "About", URL: "/about"}}

	out, err := lib.Render("PostLayout", NewData(site, post.Document, post, nav, nil))
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "<title>Hello | A Site</title>")
	require.Contains(t, html, "<h1>Hi</h1>")
	require.Contains(t, html, `<p class="subtitle">A greeting</p>`)
	require.Contains(t, html, `<time datetime="2024-01-15">January 15, 2024</time> by Ann`)
	require.Contains(t, html, `<a href="/about">About</a>`)
	require.Contains(t, html, `<link rel="alternate" href="/feed.xml">`)
	require.Contains(t, html, "Notes &amp; things")
	require.Contains(t, html, `<script src="/app.js"></script>`)
	require.Less(t,
		strings.Index(html, `data-component="chart1"`),
		strings.Index(html, `data-component="counter2"`))
	require.Contains(t, html, `<template data-component="counter2"><Counter />`)
}

func TestRender_PageLayoutWithRecentPosts(t *testing.T) {
	lib, err := New("")
	require.NoError(t, err)

	doc := model.Document{Title: "Home", Body: "<p>Welcome</p>", Layout: "PageLayout"}
	recent := []model.Link{{Title: "Hello", URL: "/post/2024/1/15/hello", PublishedDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}}

	out, err := lib.Render("PageLayout", NewData(site, doc, nil, nil, recent))
	require.NoError(t, err)
	require.Contains(t, string(out), "<p>Welcome</p>")
	require.Contains(t, string(out), `<a href="/post/2024/1/15/hello">Hello</a>`)
	require.NotContains(t, string(out), "data-component")
	require.NotContains(t, string(out), "querySelectorAll")
}

func TestRender_UnknownLayout(t *testing.T) {
	lib, err := New("")
	require.NoError(t, err)

	_, err = lib.Render("WideLayout", Data{Site: site})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryLookup))
}

func TestNew_SiteOverrides(t *testing.T) {
	dir := t.TempDir()
	custom := `{{define "WideLayout"}}<div class="wide">{{.Doc.Body}}</div>{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wide.html"), []byte(custom), 0o644))

	lib, err := New(dir)
	require.NoError(t, err)
	require.True(t, lib.Has("WideLayout"))
	require.True(t, lib.Has("PostLayout"))

	out, err := lib.Render("WideLayout", Data{Doc: model.Document{Body: "<p>x</p>"}})
	require.NoError(t, err)
	require.Equal(t, `<div class="wide"><p>x</p></div>`, string(out))
}

func TestNew_MissingOverridesDirIsIgnored(t *testing.T) {
	lib, err := New(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.True(t, lib.Has("PageLayout"))
}
