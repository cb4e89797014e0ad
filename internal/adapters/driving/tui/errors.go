package tui

import "errors"

// ErrMissingConsultationService is returned when the consultation service is not provided.
var ErrMissingConsultationService = errors.New("tui: consultation service is required")
