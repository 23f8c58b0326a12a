package config

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// validate checks bounds and parses durations. It runs after defaults.
func validate(cfg *Config) error {
	if cfg.Build.Concurrency < 0 {
		return errors.ValidationError("build.concurrency must not be negative").
			WithContext("value", cfg.Build.Concurrency).
			Build()
	}
	if cfg.Build.SummaryLength < 0 {
		return errors.ValidationError("build.summary_length must not be negative").
			WithContext("value", cfg.Build.SummaryLength).
			Build()
	}

	var err error
	if cfg.Build.renderTimeout, err = positiveDuration("build.render_timeout", cfg.Build.RenderTimeout); err != nil {
		return err
	}
	if cfg.Watch.debounce, err = positiveDuration("watch.debounce", cfg.Watch.Debounce); err != nil {
		return err
	}
	if cfg.Watch.interval, err = positiveDuration("watch.interval", cfg.Watch.Interval); err != nil {
		return err
	}

	if filepath.Clean(cfg.Paths.Output) == filepath.Clean(cfg.Paths.Posts) ||
		filepath.Clean(cfg.Paths.Output) == filepath.Clean(cfg.Paths.Pages) {
		return errors.ValidationError("paths.output must differ from the source trees").
			WithContext("output", cfg.Paths.Output).
			Build()
	}
	return nil
}

func positiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryValidation, "invalid duration").
			WithContext("field", field).
			WithContext("value", value).
			Build()
	}
	if d <= 0 {
		return 0, errors.ValidationError("duration must be positive").
			WithContext("field", field).
			WithContext("value", value).
			Build()
	}
	return d, nil
}
