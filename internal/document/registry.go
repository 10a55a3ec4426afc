package document

import "sort"

// Scope names used to style regions. They mirror common editor colour scopes
// so the renderer can map them onto a palette.
const (
	ScopeNone      = ""
	ScopeString    = "string"
	ScopeParameter = "variable.parameter"
	ScopeComment   = "comment"
	ScopeHighlight = "highlight"
)

// Style describes how a region is drawn.
type Style struct {
	Scope string
	// Outline draws the region without filling its background.
	Outline bool
}

// Region is a named set of spans registered on a document.
type Region struct {
	Key   string
	Spans []Span
	Style Style
}

// Registry holds the named regions of a single document. Keys are tracked so
// that a rebuild can erase every region it created before installing new ones.
type Registry struct {
	regions map[string]Region
}

func NewRegistry() *Registry {
	return &Registry{regions: make(map[string]Region)}
}

func (r *Registry) SetRegion(key string, spans []Span, style Style) {
	cp := make([]Span, len(spans))
	copy(cp, spans)
	r.regions[key] = Region{Key: key, Spans: cp, Style: style}
}

// GetRegion returns the first span of the region registered under key.
func (r *Registry) GetRegion(key string) (Span, bool) {
	region, ok := r.regions[key]
	if !ok || len(region.Spans) == 0 {
		return Span{}, false
	}
	return region.Spans[0], true
}

func (r *Registry) EraseRegion(key string) {
	delete(r.regions, key)
}

// Keys returns every registered key in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.regions))
	for k := range r.regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int {
	return len(r.regions)
}

// Clear erases every region.
func (r *Registry) Clear() {
	clear(r.regions)
}

// Regions returns all regions sorted by their first span start, then key.
func (r *Registry) Regions() []Region {
	out := make([]Region, 0, len(r.regions))
	for _, region := range r.regions {
		out = append(out, region)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		as, bs := firstStart(a), firstStart(b)
		if as != bs {
			return as < bs
		}
		return a.Key < b.Key
	})
	return out
}

func firstStart(r Region) int {
	if len(r.Spans) == 0 {
		return -1
	}
	return r.Spans[0].Start
}
