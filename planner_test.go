package ihop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal counter domain: one action "inc" that adds one to a map
// fluent "n" (single key "count") so long as it's below a cap, and a
// unigoal method on fluent "n" that decomposes into repeated "inc"
// calls. A map fluent is used, not a scalar, so UniGoal's built-in
// achieved-check (which reads state through State.Get) actually
// short-circuits when the goal already holds.

const counterKey = "count"

func counterActions(cap int) *Actions {
	a := NewActions()
	a.Register("inc", func(s *State, args ...any) *State {
		n, _ := s.Get("n", counterKey)
		v := n.(int)
		if v >= cap {
			return nil
		}
		s.Set("n", counterKey, v+1)
		return s
	})
	return a
}

func counterMethods() *Methods {
	m := NewMethods()
	m.Goal("n", func(s *State, args ...any) MethodIter {
		desired := args[1].(int)
		done := false
		return func() (ToDoList, bool) {
			if done {
				return nil, false
			}
			done = true
			n, _ := s.Get("n", counterKey)
			var todo ToDoList
			for i := n.(int); i < desired; i++ {
				todo = append(todo, Action("inc"))
			}
			return todo, true
		}
	})
	return m
}

func counterState(n int) *State {
	s := NewState("counter")
	s.DeclareMap("n")
	s.Set("n", counterKey, n)
	return s
}

func TestPlanSimpleSuccess(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	plan, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)
	assert.Len(t, plan, 3)
	for _, act := range plan {
		assert.Equal(t, "inc", act.Name)
	}
}

func TestPlanAlreadySatisfiedIsNoOp(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	plan, err := p.Plan(counterState(3), ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestPlanInfeasibleWhenCapTooLow(t *testing.T) {
	p, err := New(counterMethods(), counterActions(2))
	require.NoError(t, err)

	_, err = p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 3)})
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestPlanIdempotentOnSuccess(t *testing.T) {
	// Law: re-planning the same to-do list against the same state
	// yields an equivalent plan.
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	plan1, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 4)})
	require.NoError(t, err)
	plan2, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 4)})
	require.NoError(t, err)
	assert.True(t, equalToDoLists(plan1, plan2))
}

func TestPlanUnregisteredTaskIsInfeasible(t *testing.T) {
	p, err := New(NewMethods(), NewActions())
	require.NoError(t, err)

	_, err = p.Plan(NewState("s"), ToDoList{Task("does-not-exist")})
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestPlanUnregisteredActionIsInfeasible(t *testing.T) {
	p, err := New(NewMethods(), NewActions())
	require.NoError(t, err)

	_, err = p.Plan(NewState("s"), ToDoList{Action("does-not-exist")})
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestBlacklistForcesBacktrack(t *testing.T) {
	m := NewMethods()
	m.Goal("n", func(s *State, args ...any) MethodIter {
		alt := 0
		return func() (ToDoList, bool) {
			alt++
			switch alt {
			case 1:
				return ToDoList{Action("inc_by_one")}, true
			case 2:
				return ToDoList{Action("inc_by_two")}, true
			default:
				return nil, false
			}
		}
	})
	a := NewActions()
	a.Register("inc_by_one", func(s *State, args ...any) *State {
		n, _ := s.Get("n", counterKey)
		s.Set("n", counterKey, n.(int)+1)
		return s
	})
	a.Register("inc_by_two", func(s *State, args ...any) *State {
		n, _ := s.Get("n", counterKey)
		s.Set("n", counterKey, n.(int)+2)
		return s
	})

	p, err := New(m, a)
	require.NoError(t, err)
	p.Blacklist(Action("inc_by_one"))

	plan, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 2)})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "inc_by_two", plan[0].Name)
}
