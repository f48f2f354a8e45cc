package config

import "errors"

var (
	// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
	ErrMissingEnv = errors.New("config: missing required environment variables")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)
