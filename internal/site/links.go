package site

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/pagesmith/internal/model"
)

// NavLinks returns the navigation entries for pages with a positive
// navorder, ordered by navorder and then title.
func NavLinks(pages []*model.Page) []model.Link {
	var nav []*model.Page
	for _, p := range pages {
		if p != nil && p.NavOrder > 0 {
			nav = append(nav, p)
		}
	}
	slices.SortStableFunc(nav, func(a, b *model.Page) int {
		return cmp.Or(cmp.Compare(a.NavOrder, b.NavOrder), cmp.Compare(a.Title, b.Title))
	})

	links := make([]model.Link, 0, len(nav))
	for _, p := range nav {
		links = append(links, p.Link())
	}
	return links
}

// PostLinks returns link entries for posts, newest first. Posts published
// on the same day are ordered by title.
func PostLinks(posts []*model.Post) []model.Link {
	sorted := slices.Clone(posts)
	sorted = slices.DeleteFunc(sorted, func(p *model.Post) bool { return p == nil })
	slices.SortStableFunc(sorted, func(a, b *model.Post) int {
		return cmp.Or(b.PublishedDate.Compare(a.PublishedDate), cmp.Compare(a.Title, b.Title))
	})

	links := make([]model.Link, 0, len(sorted))
	for _, p := range sorted {
		links = append(links, p.Link())
	}
	return links
}
