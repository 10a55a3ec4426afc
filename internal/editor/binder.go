package editor

import (
	"fmt"

	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
)

// Region kinds registered for every conflict.
const (
	KindCurrent          = "current"
	KindCurrentColorized = "current-colorized"
	KindCurrentBody      = "current-body"
	KindBorder           = "conflict-border"
	KindIncomingBody     = "incoming-body"
	KindIncoming         = "incoming"
)

// Kinds lists the region kinds in the order they are registered.
var Kinds = []string{
	KindCurrent,
	KindCurrentColorized,
	KindCurrentBody,
	KindBorder,
	KindIncomingBody,
	KindIncoming,
}

// RegionKey names the region of the given kind for conflict index.
func RegionKey(kind string, index int) string {
	return fmt.Sprintf("cmt-%s-%d", kind, index)
}

func menu() []document.Option[conflict.Choice] {
	choices := conflict.Choices()
	opts := make([]document.Option[conflict.Choice], len(choices))
	for i, c := range choices {
		opts[i] = document.Option[conflict.Choice]{Label: c.Label(), Value: c}
	}
	return opts
}

// bind registers the regions and the inline action menu of every conflict.
func bind(doc *document.Document, reg *document.Registry, actions *document.Actions[conflict.Choice], conflicts []conflict.Conflict) {
	for _, c := range conflicts {
		i := c.Index
		reg.SetRegion(RegionKey(KindCurrent, i), []document.Span{c.CurrentBlock()}, document.Style{})
		reg.SetRegion(RegionKey(KindCurrentColorized, i), []document.Span{c.Header}, document.Style{Scope: document.ScopeString})
		reg.SetRegion(RegionKey(KindCurrentBody, i), []document.Span{c.CurrentBody}, document.Style{Scope: document.ScopeString, Outline: true})
		reg.SetRegion(RegionKey(KindBorder, i), []document.Span{c.Border()}, document.Style{Scope: document.ScopeComment})
		reg.SetRegion(RegionKey(KindIncomingBody, i), []document.Span{c.IncomingBody}, document.Style{Scope: document.ScopeParameter, Outline: true})
		reg.SetRegion(RegionKey(KindIncoming, i), []document.Span{c.IncomingBlock()}, document.Style{Scope: document.ScopeParameter})

		actions.Attach(doc.Line(c.Header.Start).End, i, menu())
	}
}

// lookup reads the regions of conflict index back from the registry.
func lookup(reg *document.Registry, index int) (conflict.Regions, bool) {
	var r conflict.Regions
	for _, f := range []struct {
		kind string
		dst  *document.Span
	}{
		{KindCurrent, &r.Current},
		{KindCurrentBody, &r.CurrentBody},
		{KindBorder, &r.Border},
		{KindIncomingBody, &r.IncomingBody},
		{KindIncoming, &r.Incoming},
	} {
		span, ok := reg.GetRegion(RegionKey(f.kind, index))
		if !ok {
			return conflict.Regions{}, false
		}
		*f.dst = span
	}
	return r, true
}
