package conflict

import "errors"

var (
	// ErrNotFound indicates there is no conflict marker in the document, or
	// the requested conflict can no longer be resolved.
	ErrNotFound = errors.New("no conflict found")

	// ErrUnknownChoice indicates a resolution choice name was not recognised.
	ErrUnknownChoice = errors.New("unknown resolution choice")
)
