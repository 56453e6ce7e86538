package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidOutput   = errors.New("invalid output format, use table, json or yaml")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validation errors.
var (
	ErrInvalidBoolean    = errors.New("invalid boolean value, use true or false")
	ErrInvalidSeekParams = errors.New("seek takes exactly 7 space separated values")
	ErrNoPublisher       = errors.New("relay requires a publisher")
	ErrNoBus             = errors.New("relay requires a bus client")
	ErrNoPipeline        = errors.New("relay requires a pipeline name")
)
