package config

import (
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation"
	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

var fieldValidators = foundation.NewValidatorChain(
	foundation.Field(func(c *Config) string { return c.Paths.Book }, foundation.Required("paths.book")),
	foundation.Field(func(c *Config) string { return c.Paths.Templates }, foundation.Required("paths.templates")),
	foundation.Field(func(c *Config) string { return c.Paths.Output }, foundation.Required("paths.output")),
	foundation.Field(func(c *Config) int { return c.Serve.Port }, foundation.InRange("serve.port", 1, 65535)),
	foundation.When(func(c *Config) bool { return c.Watch.Poll },
		foundation.Field(func(c *Config) time.Duration { return c.Watch.Interval }, positive("watch.interval"))),
	foundation.Field(func(c *Config) time.Duration { return c.Watch.Debounce }, notNegative("watch.debounce")),
)

func positive(field string) foundation.Validator[time.Duration] {
	return func(d time.Duration) foundation.ValidationResult {
		if d <= 0 {
			return foundation.Invalid(foundation.NewValidationError(field, "positive", "must be positive"))
		}
		return foundation.Valid()
	}
}

func notNegative(field string) foundation.Validator[time.Duration] {
	return func(d time.Duration) foundation.ValidationResult {
		if d < 0 {
			return foundation.Invalid(foundation.NewValidationError(field, "not_negative", "must not be negative"))
		}
		return foundation.Valid()
	}
}

// Validate checks the configuration for values a build cannot work with.
// Table of contents problems are reported first, as TOC errors; field
// problems are reported together.
func (c *Config) Validate() error {
	if len(c.TOC) == 0 {
		return errors.ValidationError("table of contents is empty").Build()
	}
	book, err := c.BuildTOC()
	if err != nil {
		return err
	}

	for field, page := range map[string]string{"book.title_page": c.Book.TitlePage, "book.contents_page": c.Book.ContentsPage} {
		if page == "" {
			continue
		}
		if _, err := book.NumberOf(page); err != nil {
			return errors.ValidationError("page is not in the table of contents").
				WithContext("field", field).
				WithContext("page", page).
				Build()
		}
	}

	return fieldValidators.Validate(c).ToError()
}
