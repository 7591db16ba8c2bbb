package main

import "fmt"

// ConfigurationError is a missing or invalid command line option. It is
// reported before any input is read.
type ConfigurationError struct {
	Option string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("--%s: %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
