package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Lookup misses, distinct from transport failures so callers can
	// tell "searched and found nothing" apart from "request failed"
	ErrTrackNotFound  = fmt.Errorf("track not found")
	ErrVideoNotFound  = fmt.Errorf("video not found")
	ErrLyricsNotFound = fmt.Errorf("lyrics not found")

	// API and sheet access errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrSpreadsheetNotFound = fmt.Errorf("spreadsheet not found")
	ErrWorksheetNotFound   = fmt.Errorf("worksheet not found")
	ErrMissingColumns      = fmt.Errorf("required columns missing")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
