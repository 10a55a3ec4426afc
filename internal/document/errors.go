package document

import "errors"

var (
	// ErrRangeInvalid indicates a span outside the text or with End < Start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrEditsOverlap indicates deletions overlap or are not in descending order.
	ErrEditsOverlap = errors.New("deletions overlap or are not in descending order")

	// ErrNoHandler indicates an action was invoked before a handler was set.
	ErrNoHandler = errors.New("no action handler registered")

	// ErrNoAction indicates no action is attached for the requested conflict.
	ErrNoAction = errors.New("no action attached")
)
