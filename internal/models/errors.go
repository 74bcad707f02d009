// Package models defines typed errors for better error handling and context.
package models

import (
	"errors"
	"fmt"
)

// NavigationError means the document provider could not load the target page
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SelectorError represents a selector that is invalid or threw against the document.
// It is always recovered locally and never aborts a ranking pass.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("selector %q failed: %v", e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// MalformedCookieError represents a cookie file that is not a JSON array
type MalformedCookieError struct {
	Path string
	Err  error
}

func (e *MalformedCookieError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed cookie input: %v", e.Err)
	}
	return fmt.Sprintf("malformed cookie file %s: %v", e.Path, e.Err)
}

func (e *MalformedCookieError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvalidArgumentError represents a bad command line value
type InvalidArgumentError struct {
	Flag   string
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Flag == "" {
		return fmt.Sprintf("invalid argument: %s", e.Reason)
	}
	return fmt.Sprintf("invalid value %q for --%s: %s", e.Value, e.Flag, e.Reason)
}

// ErrEmptyResponse is returned when a provider produced no document at all
var ErrEmptyResponse = errors.New("empty response")

// ExitCode maps an error onto the CLI exit codes
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigurationError
	}
	var argErr *InvalidArgumentError
	if errors.As(err, &argErr) {
		return ExitInvalidArgument
	}
	return ExitFailure
}
