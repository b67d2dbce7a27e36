package ihop

import "github.com/google/uuid"

// ActorOption configures an Actor.
type ActorOption func(*Actor)

// WithActorLogger installs a logger the Actor uses to trace each
// execute/replan cycle at verbosity level 1 and above.
func WithActorLogger(l Logger, verbose int) ActorOption {
	return func(a *Actor) {
		a.logger = l
		a.verbose = verbose
	}
}

// Actor drives the act-plan-repair loop: it plans once, executes
// through the Monte-Carlo executor, and on any execution failure hands
// the true divergence point to the planner's repair engine before
// resuming, until the to-do list is satisfied or no repair exists.
type Actor struct {
	planner  *Planner
	executor *Executor

	logger  Logger
	verbose int
}

// NewActor builds an Actor over the given planner and executor.
func NewActor(planner *Planner, executor *Executor, opts ...ActorOption) *Actor {
	a := &Actor{planner: planner, executor: executor, logger: discardLogger{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actor) logf(level int, format string, args ...any) {
	if a.verbose >= level {
		a.logger.Printf(format, args...)
	}
}

// Execute runs the complete act-plan-repair loop for todos starting
// from initial, returning the ground action history actually applied,
// or the first error the planner or repair engine raised.
func (a *Actor) Execute(initial *State, todos ToDoList) (ActionSeq, error) {
	runID := uuid.New()
	a.logf(1, "run %s: planning", runID)

	plan, err := a.planner.Plan(initial, todos)
	if err != nil {
		return nil, err
	}

	var history ActionSeq
	cursor := 0
	cur := initial.Copy()

	for {
		a.logf(2, "run %s: executing from cursor %d", runID, cursor)
		records := a.executor.Run(cur, plan[cursor:])

		if records[len(records)-1].State != nil {
			for _, r := range records[1:] {
				history = append(history, *r.Action)
			}
			a.logf(1, "run %s: succeeded, %d actions applied", runID, len(history))
			return history, nil
		}

		k := 1
		for k < len(records) && records[k].State != nil {
			k++
		}
		for _, r := range records[1:k] {
			history = append(history, *r.Action)
		}

		failState := records[k-1].State
		failIndex := cursor + (k - 1)
		a.logf(1, "run %s: failure at action index %d, repairing", runID, failIndex)

		newPlan, newCursor, err := a.planner.Replan(failState, failIndex)
		if err != nil {
			return nil, err
		}
		plan = newPlan
		cursor = newCursor
		cur = failState
	}
}
