package engine

import "fmt"

// EmptyInputError is returned when the text is empty or whitespace-only
// after trimming.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "empty text provided"
}

// InputTooLargeError is returned when the text exceeds the configured
// maximum length. Length and Limit carry the violated bound.
type InputTooLargeError struct {
	Length int
	Limit  int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("text length %d exceeds maximum of %d", e.Length, e.Limit)
}

// ConfigError is raised at configuration construction time, never per
// analysis call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
