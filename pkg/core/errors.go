package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConfiguration is the class of errors caused by an unusable setup.
	ErrConfiguration = errors.New("configuration error")

	// ErrFilesystemUnavailable is returned when the store has no filesystem to work on.
	ErrFilesystemUnavailable = fmt.Errorf("%w: filesystem access is not available in this environment", ErrConfiguration)

	ErrInvalidOperation = errors.New("invalid index operation")
	ErrInvalidValue     = errors.New("invalid value")
)
