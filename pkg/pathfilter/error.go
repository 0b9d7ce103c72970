package pathfilter

import "errors"

var (
	ErrEmptyPath     = errors.New("excluded path is empty")
	ErrLoggerMissing = errors.New("logger is missing")
)
