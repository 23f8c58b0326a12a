// Package model holds the document records handed from the content pipeline
// to the layout library and the output writer.
package model

import (
	"html/template"
	"time"
)

// Kind distinguishes the two content trees.
type Kind string

const (
	KindPost Kind = "post"
	KindPage Kind = "page"
)

// Link is a navigation entry derived from a post or page.
type Link struct {
	Title         string
	Subtitle      string
	URL           string
	PublishedDate time.Time
	Author        string
}

// Document carries the fields shared by posts and pages.
type Document struct {
	Title       string
	Subtitle    string
	URLPath     string
	Body        template.HTML
	Components  map[string]string
	Scripts     []string
	Layout      string
	Description string
	OutputPath  string
	// Update is the incremental gate's verdict: the output must be (re)written.
	Update bool
	// Stamp is set when the source front matter needs a fresh lastmodified.
	Stamp bool

	SourcePath   string
	Fingerprint  string
	LastModified time.Time
}

// Post is a dated article from the posts tree.
type Post struct {
	Document
	PublishedDate time.Time
	Author        string
}

// Page is a standalone page from the pages tree.
type Page struct {
	Document
	NavOrder int
	// Template is true when the page was compiled from a component template.
	Template bool
}

// Link returns the navigation entry for the post.
func (p *Post) Link() Link {
	return Link{
		Title:         p.Title,
		Subtitle:      p.Subtitle,
		URL:           p.URLPath,
		PublishedDate: p.PublishedDate,
		Author:        p.Author,
	}
}

// Link returns the navigation entry for the page.
func (p *Page) Link() Link {
	return Link{Title: p.Title, Subtitle: p.Subtitle, URL: p.URLPath}
}
