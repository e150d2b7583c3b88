package tui

import "errors"

// ErrMissingMapService is returned when no map handle is provided.
var ErrMissingMapService = errors.New("tui: map service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
