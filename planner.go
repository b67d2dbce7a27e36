package ihop

import "fmt"

// Planner is the refinement and repair engine: given a Method/Action
// registry pair, it turns a to-do list into a ground action sequence,
// and can subsequently repair that sequence in place when execution
// deviates from what was planned.
type Planner struct {
	config
	methods *Methods
	actions *Actions

	blacklist map[string]struct{}

	tree       *Tree
	state      *State
	plan       ActionSeq
	iterations int

	maxDepth    int
	hasMaxDepth bool
}

// ActionSeq is a finished plan: an ordered list of ground action calls.
type ActionSeq = ToDoList

// New constructs a Planner over the given registries.
func New(methods *Methods, actions *Actions, opts ...Option) (*Planner, error) {
	if methods == nil {
		return nil, fmt.Errorf("ihop: nil method registry")
	}
	if actions == nil {
		return nil, fmt.Errorf("ihop: nil action registry")
	}
	c := config{logger: discardLogger{}}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}
	if c.verbose > 0 {
		if _, ok := c.logger.(discardLogger); ok {
			c.logger = NewStdLogger()
		}
	}
	return &Planner{
		config:    c,
		methods:   methods,
		actions:   actions,
		blacklist: map[string]struct{}{},
	}, nil
}

func (p *Planner) logf(level int, format string, args ...any) {
	if p.verbose >= level {
		p.logger.Printf(format, args...)
	}
}

// Iterations reports how many node-refinement steps have been performed
// since the most recent Plan call, including those of any Replan calls
// made after it.
func (p *Planner) Iterations() int { return p.iterations }

// Tree exposes the decomposition tree built by the most recent
// Plan/Replan call, for inspection, dumping, or tree-view rendering.
func (p *Planner) Tree() *Tree { return p.tree }

// Blacklist marks a ground action invocation as permanently unusable;
// the refinement engine treats any attempt to use it as an immediate
// failure of that action node, the same as an unmet precondition.
func (p *Planner) Blacklist(item ToDo) {
	p.blacklist[blacklistKey(item)] = struct{}{}
}

func (p *Planner) blacklisted(item ToDo) bool {
	_, ok := p.blacklist[blacklistKey(item)]
	return ok
}

func blacklistKey(item ToDo) string {
	return fmt.Sprintf("%s:%v", item.Name, item.Args)
}

// Plan builds a decomposition tree for todos against state from
// scratch and returns the resulting ground action sequence, or
// ErrInfeasible if no decomposition of todos succeeds.
func (p *Planner) Plan(state *State, todos ToDoList) (ActionSeq, error) {
	p.state = state.Copy()
	p.iterations = 0

	buildTree := func() ToDoList {
		p.tree = newTree(p.methods, p.actions)
		p.tree.expand(p.tree.Root, todos)
		return snapshotChildInfos(p.tree.Root.Children)
	}
	original := buildTree()

	p.hasMaxDepth = p.hasInitialMaxDepth || p.hasDepthStepSize
	if p.hasInitialMaxDepth {
		p.maxDepth = p.initialMaxDepth
	} else if p.hasDepthStepSize {
		p.maxDepth = p.depthStepSize
	}

	for {
		p.iterations += p.refineLoop(p.tree.Root)
		if len(p.tree.Root.Children) > 0 || !p.hasDepthStepSize {
			break
		}
		p.logf(1, "no solution at max depth %d, widening by %d", p.maxDepth, p.depthStepSize)
		p.state = state.Copy()
		buildTree()
		p.maxDepth += p.depthStepSize
		p.hasMaxDepth = true
	}

	plan := collectActions(p.tree.Root)
	newChildren := snapshotChildInfos(p.tree.Root.Children)
	if !equalToDoLists(newChildren, original) {
		return nil, ErrInfeasible
	}
	p.plan = plan
	return plan, nil
}

// Simulate deterministically replays the most recent plan's action
// functions from state starting at the given action index, with no
// Monte-Carlo sampling or deviation. It returns the state after each
// action, the first entry being state itself; an inapplicable action
// stops the replay early and returns an error.
func (p *Planner) Simulate(state *State, startIndex int) ([]*State, error) {
	if p.plan == nil {
		return nil, fmt.Errorf("ihop: simulate: no plan available")
	}
	states := []*State{state.Copy()}
	cur := state.Copy()
	for _, act := range p.plan[startIndex:] {
		next, ok := p.actions.Invoke(act.Name, cur, act.Args...)
		if !ok {
			return states, fmt.Errorf("ihop: simulate: action %q inapplicable", act.Name)
		}
		cur = next
		states = append(states, cur.Copy())
	}
	return states, nil
}

func (p *Planner) simulateDeterministic(state *State, plan ToDoList, startIndex int) (*State, int, bool) {
	cur := state.Copy()
	for i := startIndex; i < len(plan); i++ {
		next, ok := p.actions.Invoke(plan[i].Name, cur, plan[i].Args...)
		if !ok {
			return cur, i, false
		}
		cur = next
	}
	return cur, len(plan), true
}
