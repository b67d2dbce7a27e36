package ihop

// ActionFunc applies a ground action to a mutable copy of state and
// returns the resulting state, or nil if the action's preconditions do
// not hold (the planner's notion of inapplicable, written ⊥ in the
// design notes).
type ActionFunc func(s *State, args ...any) *State

// Actions is the Action Registry: the set of ground action
// implementations known to a Planner, plus the outcome-probability
// vectors the Monte-Carlo executor samples from and the scalar costs
// domains may attach for plan-quality reporting.
type Actions struct {
	funcs    map[string]ActionFunc
	outcomes map[string][]float64
	costs    map[string]float64
}

// NewActions returns an empty Action Registry.
func NewActions() *Actions {
	return &Actions{
		funcs:    map[string]ActionFunc{},
		outcomes: map[string][]float64{},
		costs:    map[string]float64{},
	}
}

// Register adds or replaces the implementation for a named action.
func (a *Actions) Register(name string, fn ActionFunc) *Actions {
	a.funcs[name] = fn
	return a
}

// RegisterOutcomeModel attaches an outcome-probability vector to a
// named action, for the Monte-Carlo executor. probs[0] is the
// probability of the nominal (non-deviating) outcome.
func (a *Actions) RegisterOutcomeModel(name string, probs []float64) *Actions {
	a.outcomes[name] = append([]float64(nil), probs...)
	return a
}

// RegisterCost attaches a scalar cost to a named action.
func (a *Actions) RegisterCost(name string, cost float64) *Actions {
	a.costs[name] = cost
	return a
}

func (a *Actions) lookup(name string) ActionFunc { return a.funcs[name] }

// Invoke applies the named action to a fresh copy of s, returning the
// resulting state and true, or (nil, false) if the action is
// unregistered or its preconditions fail.
func (a *Actions) Invoke(name string, s *State, args ...any) (*State, bool) {
	fn, ok := a.funcs[name]
	if !ok {
		return nil, false
	}
	result := fn(s.Copy(), args...)
	return result, result != nil
}

// OutcomeModel returns the registered outcome-probability vector for
// name, if any.
func (a *Actions) OutcomeModel(name string) ([]float64, bool) {
	v, ok := a.outcomes[name]
	return v, ok
}

// Cost returns the registered scalar cost for name, if any.
func (a *Actions) Cost(name string) (float64, bool) {
	v, ok := a.costs[name]
	return v, ok
}
