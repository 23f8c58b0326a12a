package config

import "runtime"

const (
	defaultPostsDir      = "posts"
	defaultPagesDir      = "pages"
	defaultStaticDir     = "static"
	defaultLayoutsDir    = "layouts"
	defaultComponentsDir = "components"
	defaultOutputDir     = "public"
	defaultRenderTimeout = "10s"
	defaultSummaryLength = 40
	defaultDebounce      = "300ms"
	defaultInterval      = "1h"
	defaultSiteTitle     = "pagesmith"
)

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultSiteTitle
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = cfg.Site.Title
	}

	if cfg.Paths.Posts == "" {
		cfg.Paths.Posts = defaultPostsDir
	}
	if cfg.Paths.Pages == "" {
		cfg.Paths.Pages = defaultPagesDir
	}
	if cfg.Paths.Static == "" {
		cfg.Paths.Static = defaultStaticDir
	}
	if cfg.Paths.Layouts == "" {
		cfg.Paths.Layouts = defaultLayoutsDir
	}
	if cfg.Paths.Components == "" {
		cfg.Paths.Components = defaultComponentsDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = defaultOutputDir
	}

	if cfg.Build.Concurrency == 0 {
		cfg.Build.Concurrency = runtime.NumCPU()
	}
	if cfg.Build.RenderTimeout == "" {
		cfg.Build.RenderTimeout = defaultRenderTimeout
	}
	if cfg.Build.SummaryLength == 0 {
		cfg.Build.SummaryLength = defaultSummaryLength
	}

	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce
	}
	if cfg.Watch.Interval == "" {
		cfg.Watch.Interval = defaultInterval
	}
}
