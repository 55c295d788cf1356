package domain

import "errors"

var (
	// ErrToolUnavailable means the analyzer could not be located or invoked.
	ErrToolUnavailable = errors.New("analyzer unavailable")
	// ErrNoSnapshot means no readable snapshot exists yet.
	ErrNoSnapshot = errors.New("no snapshot found")
	// ErrOutputTooLarge means the analyzer output exceeded the capture cap.
	ErrOutputTooLarge = errors.New("analyzer output exceeds capture limit")
)
