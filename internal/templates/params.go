package templates

import (
	"html/template"

	"git.home.luguber.info/inful/pagesmith/internal/model"
)

// Params is the parameter set a compiled unit is executed with.
type Params struct {
	Title           template.HTML
	URL             string
	NavLinks        []model.Link
	SiteName        string
	SiteTitle       string
	SiteDescription template.HTML
	HeaderLinks     template.HTML
}

// parameterFields maps the identifiers usable after @ in template text to
// Params fields.
var parameterFields = map[string]string{
	"Title":           "Title",
	"Url":             "URL",
	"URL":             "URL",
	"SiteName":        "SiteName",
	"SiteTitle":       "SiteTitle",
	"SiteDescription": "SiteDescription",
	"HeaderLinks":     "HeaderLinks",
}
