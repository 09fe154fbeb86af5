package config

import "errors"

// Error variables for config loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrOutputEmpty        = errors.New("output cannot be empty")
	ErrHeaderMultiline    = errors.New("header must be a single line")
	ErrBlockKindInvalid   = errors.New("block kind must be a single word")
)
