package ihop

import "reflect"

// FluentKind distinguishes the three shapes a named fluent can take.
type FluentKind int

const (
	FluentMap FluentKind = iota
	FluentSet
	FluentScalar
)

// Fluent is a single named slice of a State: a key/value map, a set of
// members, or a bare scalar. Domain authors never construct these
// directly; they go through State's Declare*/Get/Set/Contains surface.
type Fluent struct {
	kind    FluentKind
	mapping map[any]any
	set     map[any]struct{}
	scalar  any
}

func newMapFluent() Fluent    { return Fluent{kind: FluentMap, mapping: map[any]any{}} }
func newSetFluent() Fluent    { return Fluent{kind: FluentSet, set: map[any]struct{}{}} }
func newScalarFluent(v any) Fluent { return Fluent{kind: FluentScalar, scalar: v} }

func (f Fluent) copy() Fluent {
	switch f.kind {
	case FluentMap:
		m := make(map[any]any, len(f.mapping))
		for k, v := range f.mapping {
			m[k] = v
		}
		return Fluent{kind: FluentMap, mapping: m}
	case FluentSet:
		s := make(map[any]struct{}, len(f.set))
		for k := range f.set {
			s[k] = struct{}{}
		}
		return Fluent{kind: FluentSet, set: s}
	default:
		return Fluent{kind: FluentScalar, scalar: f.scalar}
	}
}

func (f Fluent) equal(o Fluent) bool {
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case FluentMap:
		if len(f.mapping) != len(o.mapping) {
			return false
		}
		for k, v := range f.mapping {
			ov, ok := o.mapping[k]
			if !ok || !reflect.DeepEqual(v, ov) {
				return false
			}
		}
		return true
	case FluentSet:
		if len(f.set) != len(o.set) {
			return false
		}
		for k := range f.set {
			if _, ok := o.set[k]; !ok {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(f.scalar, o.scalar)
	}
}

// State is the planner's world model: a named bundle of fluents, each a
// map, a set, or a scalar. Actions and methods read and write it through
// the accessors below; Copy gives every refinement step its own isolated
// snapshot so entry_state comparisons (branch-cycle detection, backtrack
// restoration) are never aliased.
type State struct {
	Name    string
	fluents map[string]Fluent
}

// NewState creates an empty, named state. Name is carried purely for
// debugging and interchange-format dumps.
func NewState(name string) *State {
	return &State{Name: name, fluents: map[string]Fluent{}}
}

// DeclareMap registers fluent as a key/value map, empty until populated
// with Set. Returns the receiver so declarations can be chained.
func (s *State) DeclareMap(fluent string) *State {
	s.fluents[fluent] = newMapFluent()
	return s
}

// DeclareSet registers fluent as a set, empty until populated with Add.
func (s *State) DeclareSet(fluent string) *State {
	s.fluents[fluent] = newSetFluent()
	return s
}

// DeclareScalar registers fluent as a bare scalar with an initial value.
func (s *State) DeclareScalar(fluent string, value any) *State {
	s.fluents[fluent] = newScalarFluent(value)
	return s
}

// Get looks up a map fluent's value for key. ok is false if the fluent
// is undeclared, not a map, or the key is absent.
func (s *State) Get(fluent string, key any) (value any, ok bool) {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentMap {
		return nil, false
	}
	value, ok = f.mapping[key]
	return value, ok
}

// Set assigns key to value within a map fluent, declaring it as a map
// first if it doesn't already exist.
func (s *State) Set(fluent string, key, value any) {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentMap {
		f = newMapFluent()
	}
	f.mapping[key] = value
	s.fluents[fluent] = f
}

// Contains reports whether key is a member of a set fluent.
func (s *State) Contains(fluent string, key any) bool {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentSet {
		return false
	}
	_, ok = f.set[key]
	return ok
}

// Add inserts key into a set fluent, declaring it first if needed.
func (s *State) Add(fluent string, key any) {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentSet {
		f = newSetFluent()
	}
	f.set[key] = struct{}{}
	s.fluents[fluent] = f
}

// Remove deletes key from a set or map fluent; a no-op if absent.
func (s *State) Remove(fluent string, key any) {
	f, ok := s.fluents[fluent]
	if !ok {
		return
	}
	switch f.kind {
	case FluentMap:
		delete(f.mapping, key)
	case FluentSet:
		delete(f.set, key)
	}
}

// Members returns the elements of a set fluent in unspecified order.
func (s *State) Members(fluent string) []any {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentSet {
		return nil
	}
	out := make([]any, 0, len(f.set))
	for k := range f.set {
		out = append(out, k)
	}
	return out
}

// Keys returns the declared keys of a map fluent in unspecified order;
// callers that need a stable order should sort the result themselves.
func (s *State) Keys(fluent string) []any {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentMap {
		return nil
	}
	out := make([]any, 0, len(f.mapping))
	for k := range f.mapping {
		out = append(out, k)
	}
	return out
}

// Scalar returns a scalar fluent's value.
func (s *State) Scalar(fluent string) (value any, ok bool) {
	f, ok := s.fluents[fluent]
	if !ok || f.kind != FluentScalar {
		return nil, false
	}
	return f.scalar, true
}

// SetScalar assigns a scalar fluent's value, declaring it first if needed.
func (s *State) SetScalar(fluent string, value any) {
	s.fluents[fluent] = newScalarFluent(value)
}

// Copy returns a deep, unaliased snapshot of s.
func (s *State) Copy() *State {
	out := &State{Name: s.Name, fluents: make(map[string]Fluent, len(s.fluents))}
	for name, f := range s.fluents {
		out.fluents[name] = f.copy()
	}
	return out
}

// Equal reports whether s and o hold identical fluents, used for
// branch-cycle detection and the interchange round-trip law.
func (s *State) Equal(o *State) bool {
	if o == nil || len(s.fluents) != len(o.fluents) {
		return false
	}
	for name, f := range s.fluents {
		of, ok := o.fluents[name]
		if !ok || !f.equal(of) {
			return false
		}
	}
	return true
}
