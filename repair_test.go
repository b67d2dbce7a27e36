package ihop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReplanShrinksPlanOnPartialProgress exercises repair after a
// Monte-Carlo-style deviation advances the counter further than the
// plan assumed: re-decomposing the unigoal from the true state yields
// fewer remaining actions than originally planned.
func TestReplanShrinksPlanOnPartialProgress(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	plan, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	trueState := counterState(2) // deviation: one step did the work of two
	newPlan, resumeIndex, err := p.Replan(trueState, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, resumeIndex)
	require.Len(t, newPlan, 1)
	assert.Equal(t, "inc", newPlan[0].Name)
}

// TestReplanEmptiesPlanWhenGoalAlreadyAchieved covers the case where a
// deviation overshoots the goal entirely: repair must recognize the
// unigoal is already satisfied and produce no further actions.
func TestReplanEmptiesPlanWhenGoalAlreadyAchieved(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	plan, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	trueState := counterState(3)
	newPlan, resumeIndex, err := p.Replan(trueState, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, resumeIndex)
	assert.Empty(t, newPlan)
}

// TestReplanExhaustedWithoutTree covers Replan's guard when called
// before any Plan has built a tree.
func TestReplanExhaustedWithoutTree(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	_, _, err = p.Replan(counterState(0), 0)
	assert.ErrorIs(t, err, ErrRepairExhausted)
}

// TestReplanExhaustedOnOutOfRangeIndex covers the bounds check against
// the most recently collected action nodes.
func TestReplanExhaustedOnOutOfRangeIndex(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	_, err = p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, 1)})
	require.NoError(t, err)

	_, _, err = p.Replan(counterState(0), 99)
	assert.ErrorIs(t, err, ErrRepairExhausted)
}
