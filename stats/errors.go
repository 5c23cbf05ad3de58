package stats

import "errors"

var (
	// ErrStoreClosed is returned when operating on a closed store
	ErrStoreClosed = errors.New("stats: store is closed")

	// ErrUnknownEvent is returned when an event kind has no update rule
	ErrUnknownEvent = errors.New("stats: unknown event kind")
)
