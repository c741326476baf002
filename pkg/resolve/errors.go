package resolve

import (
	"errors"
	"fmt"
)

// Category classifies a resolution failure for callers.
type Category string

const (
	// CategoryBadRequest means the source URL was missing or malformed.
	// Never retried, surfaced immediately.
	CategoryBadRequest Category = "bad_request"

	// CategoryTimeout means the extractor exceeded its time bound.
	// Callers may retry.
	CategoryTimeout Category = "timeout"

	// CategoryToolError means the extractor ran but reported failure
	// (content unavailable, geo-blocked, unsupported site, ...).
	CategoryToolError Category = "tool_error"

	// CategoryEmptyResult means extraction succeeded but produced no
	// usable item, e.g. an empty playlist.
	CategoryEmptyResult Category = "empty_result"

	// CategoryNoPlayableFormat means a usable item was found but none
	// of its candidate streams has a direct URL.
	CategoryNoPlayableFormat Category = "no_playable_format"
)

// Error is a resolution failure with its category and a short diagnostic.
type Error struct {
	Category Category
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("resolve %s: %s", e.Category, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf extracts the failure category from err.
// Unrecognized errors map to CategoryToolError.
func CategoryOf(err error) Category {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Category
	}
	return CategoryToolError
}

func newError(category Category, message string, err error) *Error {
	return &Error{Category: category, Message: message, Err: err}
}
