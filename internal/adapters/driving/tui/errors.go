package tui

import "errors"

// ErrMissingQAService is returned when the question answering service is not provided.
var ErrMissingQAService = errors.New("tui: QA service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
