package document

import "slices"

// MarkStale records that the object's mesh must be rebuilt before the next render.
func (s *Scene) MarkStale(ref ObjectRef) {
	if s.stale == nil {
		s.stale = make(map[ObjectRef]struct{})
	}
	s.stale[ref] = struct{}{}
}

// MarkLayerStale marks objects from index `from` onward, plus one slot past
// the end so a removed trailing object is reported too. Inserting or removing
// an object shifts every later index.
func (s *Scene) MarkLayerStale(layer, from int) {
	l, ok := s.Layer(layer)
	if !ok {
		return
	}
	for i := max(from, 0); i <= len(l.Objects); i++ {
		s.MarkStale(ObjectRef{layer, i})
	}
}

// DrainStale returns the stale objects in document order and clears the set.
func (s *Scene) DrainStale() []ObjectRef {
	if len(s.stale) == 0 {
		return nil
	}
	refs := make([]ObjectRef, 0, len(s.stale))
	for ref := range s.stale {
		refs = append(refs, ref)
	}
	clear(s.stale)
	slices.SortFunc(refs, CompareObjects)
	return refs
}
