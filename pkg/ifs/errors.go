package ifs

import "github.com/pkg/errors"

// ErrEmptyDomain names the empty-domain condition. No code path returns or
// logs it: when a Variable has no candidate Values, StandardSelection
// records an "empty domain" SkipEvent instead, search proceeds and the
// variable stays unassigned. Never fatal.
var ErrEmptyDomain = errors.New("ifs: variable has an empty value domain")

// ErrUnknownConstructionClass is returned by the construction registry
// when the configured name has no registered constructor.
// BuildSimpleSearch passes it on to its caller; nothing falls back to a
// run without a construction phase.
type ErrUnknownConstructionClass string

func (e ErrUnknownConstructionClass) Error() string {
	return "ifs: unknown construction class " + string(e)
}

// ConfigError reports a problem discovered while validating DataProperties
// at Solver initialization. Unlike the other error kinds in this file, a
// ConfigError that prevents any component from initializing is the one
// truly fatal condition in the propagation policy.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return errors.Wrapf(e.Err, "ifs: invalid configuration for %q", e.Key).Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// newConfigError wraps err with the offending key, using pkg/errors.Wrapf
// to attach context without discarding the cause.
func newConfigError(key string, err error) error {
	return &ConfigError{Key: key, Err: err}
}
