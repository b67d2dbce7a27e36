package ihop

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPlannerLaws checks that re-planning is deterministic and the
// interchange round-trip law across a generated range of counter targets, rather
// than the single example each gets in
// planner_test.go/interchange_test.go.
func TestPlannerLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("re-planning the same to-do list against the same state yields an equivalent plan", prop.ForAll(
		func(target int) bool {
			p, err := New(counterMethods(), counterActions(50))
			if err != nil {
				return false
			}
			plan1, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, target)})
			if err != nil {
				return false
			}
			plan2, err := p.Plan(counterState(0), ToDoList{UniGoal("n", counterKey, target)})
			if err != nil {
				return false
			}
			return equalToDoLists(plan1, plan2)
		},
		gen.IntRange(0, 20),
	))

	properties.Property("dumping a plan's tree and reading it back recovers the same ground action sequence", prop.ForAll(
		func(target int) bool {
			p, err := New(counterMethods(), counterActions(50))
			if err != nil {
				return false
			}
			initial := counterState(0)
			plan, err := p.Plan(initial, ToDoList{UniGoal("n", counterKey, target)})
			if err != nil {
				return false
			}
			text := p.Tree().Dump(nil)
			read, err := Read(text, initial, counterMethods(), counterActions(50), nil)
			if err != nil {
				return false
			}
			return equalToDoLists(plan, collectActions(read.Root))
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
