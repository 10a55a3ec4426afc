package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
)

var ErrHighlightedAll = errors.New("highlighted resolution needs a single conflict")

// Session is the per-document context: the text buffer, its region registry,
// the inline action surface, the user's selections and the conflict index
// built from the last parse. A Session must only be used from one goroutine.
type Session struct {
	doc        *document.Document
	regions    *document.Registry
	actions    *document.Actions[conflict.Choice]
	selections *document.Selections
	conflicts  []conflict.Conflict
	log        *slog.Logger
}

// Open creates a session for doc and builds its conflict index.
func Open(doc *document.Document, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		doc:        doc,
		regions:    document.NewRegistry(),
		actions:    document.NewActions[conflict.Choice](),
		selections: document.NewSelections(),
		log:        log.With("path", doc.Path()),
	}
	s.actions.SetHandler(s.Resolve)
	s.Rebuild()
	return s
}

func (s *Session) Document() *document.Document {
	return s.doc
}

func (s *Session) Registry() *document.Registry {
	return s.regions
}

func (s *Session) Actions() *document.Actions[conflict.Choice] {
	return s.actions
}

func (s *Session) Selections() *document.Selections {
	return s.selections
}

// Conflicts returns the conflict index from the last rebuild.
func (s *Session) Conflicts() []conflict.Conflict {
	out := make([]conflict.Conflict, len(s.conflicts))
	copy(out, s.conflicts)
	return out
}

func (s *Session) Len() int {
	return len(s.conflicts)
}

// Rebuild discards every region and action of the document, parses it again
// and registers fresh ones. It returns the number of conflicts found.
func (s *Session) Rebuild() int {
	s.clear()
	s.conflicts = conflict.Parse(s.doc)
	bind(s.doc, s.regions, s.actions, s.conflicts)
	s.log.Debug("rebuilt conflict index",
		"conflicts", len(s.conflicts),
		"regions", s.regions.Len(),
		"revision", s.doc.Revision())
	return len(s.conflicts)
}

// Reload replaces the document text, as after an external modification, and
// rebuilds. Selections refer to the old text and are dropped.
func (s *Session) Reload(text string) int {
	if text != s.doc.Text() {
		s.selections.Clear()
	}
	s.doc.SetText(text)
	return s.Rebuild()
}

// Resolve applies choice to the conflict with the given index. The regions
// registered for index are the source of truth: if any is missing the call
// fails with conflict.ErrNotFound and the document is left untouched.
// Selections inside the resolved conflict are consumed; the rest are kept.
func (s *Session) Resolve(index int, choice conflict.Choice) error {
	regions, ok := lookup(s.regions, index)
	if !ok {
		return fmt.Errorf("conflict %d: %w", index, conflict.ErrNotFound)
	}

	del := conflict.Deletions(regions, choice, s.selections.All())
	if err := s.doc.ApplyDeletions(del); err != nil {
		return fmt.Errorf("resolve conflict %d: %w", index, err)
	}

	s.log.Info("resolved conflict",
		"index", index,
		"choice", choice.String(),
		"deletions", len(del))

	removed := 0
	for _, d := range del {
		removed += d.Len()
	}
	s.selections.Rebase(regions.Span(), removed)
	s.Rebuild()
	return nil
}

// Preview returns the text conflict index would be replaced with under
// choice, without touching the document.
func (s *Session) Preview(index int, choice conflict.Choice) (string, error) {
	regions, ok := lookup(s.regions, index)
	if !ok {
		return "", fmt.Errorf("conflict %d: %w", index, conflict.ErrNotFound)
	}
	return conflict.Preview(s.doc, regions, choice, s.selections.All()), nil
}

// ResolveAll applies choice to every conflict, last first so earlier indices
// stay valid. It returns the number of conflicts resolved.
func (s *Session) ResolveAll(choice conflict.Choice) (int, error) {
	if choice == conflict.Highlighted {
		return 0, ErrHighlightedAll
	}
	n := 0
	for i := len(s.conflicts) - 1; i >= 0; i-- {
		if err := s.Resolve(i, choice); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Invoke dispatches a choice through the inline action menu of a conflict.
func (s *Session) Invoke(index int, choice conflict.Choice) error {
	return s.actions.Invoke(index, choice)
}

// FindNext returns the next marker at or after offset, wrapping to the top.
func (s *Session) FindNext(offset int) (conflict.Match, error) {
	return conflict.FindNext(s.doc, offset)
}

// FindNextConflict returns the next conflict header after offset, wrapping.
func (s *Session) FindNextConflict(offset int) (conflict.Match, error) {
	return conflict.FindNextConflict(s.doc, offset)
}

// ConflictAt returns the conflict whose block contains offset.
func (s *Session) ConflictAt(offset int) (conflict.Conflict, bool) {
	for _, c := range s.conflicts {
		if c.Block.ContainsOffset(offset) {
			return c, true
		}
	}
	return conflict.Conflict{}, false
}

// Close releases every region, action and selection held for the document.
func (s *Session) Close() {
	s.clear()
	s.selections.Clear()
	s.conflicts = nil
}

func (s *Session) clear() {
	s.regions.Clear()
	s.actions.Clear()
}
