package ihop

import "math/rand"

// RandSource samples an outcome index given a weight vector, letting
// the Monte-Carlo executor's randomness be swapped out for tests.
type RandSource interface {
	Choice(weights []float64) int
}

type defaultRandSource struct{ r *rand.Rand }

// NewRandSource returns the default, seeded RandSource.
func NewRandSource(seed int64) RandSource {
	return &defaultRandSource{r: rand.New(rand.NewSource(seed))}
}

func (d *defaultRandSource) Choice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	x := d.r.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if x < cum {
			return i
		}
	}
	return len(weights) - 1
}

// DeviationHandler produces a deviated state when the Monte-Carlo
// executor samples a non-nominal outcome for an action. index is the
// action's position within plan; state is a copy of the state the
// nominal action would have been applied to.
type DeviationHandler interface {
	Deviate(index int, plan ToDoList, state *State) *State
}

// DeviationHandlerFunc adapts a plain function to a DeviationHandler.
type DeviationHandlerFunc func(index int, plan ToDoList, state *State) *State

// Deviate calls f.
func (f DeviationHandlerFunc) Deviate(index int, plan ToDoList, state *State) *State {
	return f(index, plan, state)
}

// ExecRecord is one entry of an execution trace: the action attempted
// (nil for the leading entry, which just records the starting state)
// and the resulting state, or nil if that action failed, terminating
// the trace.
type ExecRecord struct {
	Action *ToDo
	State  *State
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithDeviationHandler installs a handler invoked whenever the
// Monte-Carlo sampler selects a non-nominal outcome.
func WithDeviationHandler(h DeviationHandler) ExecutorOption {
	return func(e *Executor) { e.deviation = h }
}

// WithRandSource overrides the executor's source of randomness.
func WithRandSource(r RandSource) ExecutorOption {
	return func(e *Executor) { e.rand = r }
}

// Executor is the Monte-Carlo action executor: it runs a plan against
// a live state, sampling each action's registered outcome-probability
// vector to decide whether to apply it nominally or hand control to a
// deviation handler.
type Executor struct {
	actions   *Actions
	deviation DeviationHandler
	rand      RandSource
}

// NewExecutor builds an Executor over actions, defaulting to a
// RandSource seeded with 1.
func NewExecutor(actions *Actions, opts ...ExecutorOption) *Executor {
	e := &Executor{actions: actions, rand: NewRandSource(1)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes plan against state, sampling outcomes action by action,
// and returns the resulting trace. The trace is truncated at the first
// action whose resulting state is nil, whether because it failed
// nominally, because it was inapplicable to the state a deviation
// handler returned, or because a non-nominal outcome was sampled with
// no deviation handler configured.
func (e *Executor) Run(state *State, plan ToDoList) []ExecRecord {
	records := []ExecRecord{{State: state.Copy()}}
	cur := state.Copy()

	for i, step := range plan {
		probs, ok := e.actions.OutcomeModel(step.Name)
		if !ok {
			probs = []float64{1}
		}
		outcome := 0
		if len(probs) > 1 {
			outcome = e.rand.Choice(probs)
		}

		var result *State
		if outcome == 0 {
			result, _ = e.actions.Invoke(step.Name, cur, step.Args...)
		} else if e.deviation != nil {
			deviated := e.deviation.Deviate(i, plan, cur.Copy())
			// Overwrite the previous record's state with the deviated
			// state so downstream repair sees the true divergence
			// point, not the nominal state the plan assumed.
			records[len(records)-1].State = deviated
			result, _ = e.actions.Invoke(step.Name, deviated, step.Args...)
		}

		stepCopy := step
		records = append(records, ExecRecord{Action: &stepCopy, State: result})
		if result == nil {
			return records
		}
		cur = result.Copy()
	}
	return records
}
