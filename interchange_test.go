package ihop

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intAwareMapper(v any) string {
	if n, ok := v.(int); ok {
		return "i:" + strconv.Itoa(n)
	}
	return defaultNameMapper(v)
}

func intAwareUnmapper(tok string) any {
	if n, ok := parseIntToken(tok); ok {
		return n
	}
	return tok
}

func parseIntToken(tok string) (int, bool) {
	const prefix = "i:"
	if len(tok) <= len(prefix) || tok[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(tok[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TestInterchangeRoundTrip covers the Dump/Read law: reconstructing a
// tree from its own dump, against the same initial state and
// registries, must recover the same ground action sequence and the
// same unigoal's key/desired arguments.
func TestInterchangeRoundTrip(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	initial := counterState(0)
	plan, err := p.Plan(initial, ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	text := p.Tree().Dump(intAwareMapper)
	require.NotEmpty(t, text)

	read, err := Read(text, initial, counterMethods(), counterActions(10), intAwareUnmapper)
	require.NoError(t, err)

	gotActions := collectActions(read.Root)
	assert.True(t, equalToDoLists(plan, gotActions))

	require.Len(t, read.Root.Children, 1)
	unigoalNode := read.Root.Children[0]
	assert.Equal(t, KindUniGoal, unigoalNode.Kind)
	assert.Equal(t, "n", unigoalNode.Info.Name)
	assert.Equal(t, counterKey, unigoalNode.Info.unigoalKey())
	assert.Equal(t, 3, unigoalNode.Info.unigoalDesired())
}

// TestInterchangeForwardSimulateAssignsEntryStates covers that replayed
// action nodes recover their pre-action entry_state from initial.
func TestInterchangeForwardSimulateAssignsEntryStates(t *testing.T) {
	p, err := New(counterMethods(), counterActions(10))
	require.NoError(t, err)

	initial := counterState(0)
	_, err = p.Plan(initial, ToDoList{UniGoal("n", counterKey, 3)})
	require.NoError(t, err)

	text := p.Tree().Dump(intAwareMapper)
	read, err := Read(text, initial, counterMethods(), counterActions(10), intAwareUnmapper)
	require.NoError(t, err)

	actionNodes := collectActionNodes(read.Root)
	require.Len(t, actionNodes, 3)
	for i, n := range actionNodes {
		require.NotNil(t, n.EntryState)
		v, ok := n.EntryState.Get("n", counterKey)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}
