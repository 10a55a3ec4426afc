package document

import (
	"fmt"
	"sort"
)

// Option is one entry of an inline action menu.
type Option[C comparable] struct {
	Label string
	Value C
}

// Anchor is an inline action menu attached at a document offset on behalf of
// a conflict.
type Anchor[C comparable] struct {
	At      int
	Index   int
	Options []Option[C]
}

// Actions is the inline action surface of a document. Invoking an option
// hands the conflict index and the typed choice to the registered handler.
type Actions[C comparable] struct {
	anchors map[int]Anchor[C]
	handler func(index int, choice C) error
}

func NewActions[C comparable]() *Actions[C] {
	return &Actions[C]{anchors: make(map[int]Anchor[C])}
}

func (a *Actions[C]) SetHandler(fn func(index int, choice C) error) {
	a.handler = fn
}

// Attach places a menu at offset for the conflict with the given index,
// replacing any menu previously attached for that index.
func (a *Actions[C]) Attach(at, index int, options []Option[C]) {
	cp := make([]Option[C], len(options))
	copy(cp, options)
	a.anchors[index] = Anchor[C]{At: at, Index: index, Options: cp}
}

// Get returns the menu attached for a conflict index.
func (a *Actions[C]) Get(index int) (Anchor[C], bool) {
	anchor, ok := a.anchors[index]
	return anchor, ok
}

// Anchors returns every attached menu ordered by offset.
func (a *Actions[C]) Anchors() []Anchor[C] {
	out := make([]Anchor[C], 0, len(a.anchors))
	for _, anchor := range a.anchors {
		out = append(out, anchor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

func (a *Actions[C]) Len() int {
	return len(a.anchors)
}

func (a *Actions[C]) Clear() {
	a.anchors = make(map[int]Anchor[C])
}

// Invoke runs the handler for a choice on the menu of conflict index.
func (a *Actions[C]) Invoke(index int, choice C) error {
	anchor, ok := a.anchors[index]
	if !ok {
		return fmt.Errorf("conflict %d: %w", index, ErrNoAction)
	}
	found := false
	for _, opt := range anchor.Options {
		if opt.Value == choice {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("conflict %d has no option %v: %w", index, choice, ErrNoAction)
	}
	if a.handler == nil {
		return ErrNoHandler
	}
	return a.handler(index, choice)
}
