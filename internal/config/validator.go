package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/extensibility"
	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/internal/production"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes each failure to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i := range e {
		out[i] = e[i]
	}
	return out
}

// Validate checks c and returns every problem found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if err := c.InitialNavigation.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "initial_navigation",
			Value:   string(c.InitialNavigation),
			Message: fmt.Sprintf("must be one of %v", bootnav.Policies()),
			Err:     err,
		})
	}
	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Log.Level)) {
		errs = append(errs, ValidationError{Field: "log.level", Value: c.Log.Level,
			Message: fmt.Sprintf("must be one of %v", logging.ValidLevels())})
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		errs = append(errs, ValidationError{Field: "log.format", Value: c.Log.Format,
			Message: "must be text or json"})
	}
	if c.Trace.Format != production.FormatJSON && c.Trace.Format != production.FormatYAML {
		errs = append(errs, ValidationError{Field: "trace.format", Value: c.Trace.Format,
			Message: "must be json or yaml"})
	}
	if c.Location.ReadyDelay < 0 {
		errs = append(errs, ValidationError{Field: "location.ready_delay", Value: c.Location.ReadyDelay,
			Message: "must not be negative"})
	}
	if !strings.HasPrefix(c.Location.Initial, "/") {
		errs = append(errs, ValidationError{Field: "location.initial", Value: c.Location.Initial,
			Message: "must start with /"})
	}
	errs = append(errs, c.validateRoutes()...)
	return errs
}

func (c *Config) validateRoutes() ValidationErrors {
	var errs ValidationErrors
	if len(c.Routes) == 0 {
		return append(errs, ValidationError{Field: "routes", Value: 0, Message: "at least one route is required"})
	}
	seen := map[string]bool{}
	for i, r := range c.Routes {
		field := fmt.Sprintf("routes[%d]", i)
		if !strings.HasPrefix(r.Path, "/") {
			errs = append(errs, ValidationError{Field: field + ".path", Value: r.Path, Message: "must start with /"})
		}
		if seen[r.Path] {
			errs = append(errs, ValidationError{Field: field + ".path", Value: r.Path, Message: "duplicate path"})
		}
		seen[r.Path] = true
		for j, g := range r.Guards {
			if _, err := extensibility.ParseExpression(g); err != nil {
				errs = append(errs, ValidationError{Field: fmt.Sprintf("%s.guards[%d]", field, j), Value: g,
					Message: "invalid expression", Err: err})
			}
		}
		if r.Delay < 0 {
			errs = append(errs, ValidationError{Field: field + ".delay", Value: r.Delay, Message: "must not be negative"})
		}
	}
	return errs
}
