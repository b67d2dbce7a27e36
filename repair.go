package ihop

// Replan repairs the most recent plan in place after execution diverged
// at the action with the given zero-based index within that plan,
// given the true state observed just before that action ran. It
// escalates from the failing action's parent up through ancestors,
// re-expanding the first one with alternatives left, re-simulating the
// tree's action sequence deterministically from the repair point, and
// pushing further up whenever that resimulation uncovers a new
// failure. It returns the repaired plan and the index execution should
// resume at, or ErrRepairExhausted if no repair exists.
func (p *Planner) Replan(state *State, failIndex int) (ActionSeq, int, error) {
	if p.tree == nil {
		return nil, 0, ErrRepairExhausted
	}
	originalChildren := snapshotChildInfos(p.tree.Root.Children)

	actionNodes := collectActionNodes(p.tree.Root)
	if failIndex < 0 || failIndex >= len(actionNodes) {
		return nil, 0, ErrRepairExhausted
	}
	failNode := actionNodes[failIndex]

	type frame struct {
		node  *Node
		state *State
	}
	stack := []frame{{node: failNode.Parent, state: state.Copy()}}

	for len(stack) > 0 {
		n := stack[0].node
		trueState := stack[0].state

		if n == p.tree.Root {
			return nil, 0, ErrRepairExhausted
		}

		parent := n.Parent
		hadMethods := len(n.availableMethods) > 0

		n.Children = nil
		n.Status = StatusOpen
		if n.methods != nil {
			n.availableMethods = append([]Method(nil), n.methods...)
		}
		n.selectedMethod = nil
		n.instances = nil
		n.EntryState = nil

		stack[0].node = parent

		if !hadMethods {
			if len(stack) > 1 {
				grandparent := parent.Parent
				prev := stack[1].node
				if grandparent == nil || !isDescendant(prev, grandparent) {
					stack = stack[1:]
				}
			}
			continue
		}

		p.state = trueState.Copy()
		p.iterations += p.refineLoop(parent)
		if n.Status == StatusOpen {
			continue
		}

		resumeIndex := actionsBeforeNode(p.tree.Root, n)
		newActionNodes := collectActionNodes(p.tree.Root)
		newPlan := toToDoList(newActionNodes)

		stateBeforeFailure, failPos, ok := p.simulateDeterministic(trueState, newPlan, resumeIndex)
		if !ok {
			failedNode := newActionNodes[failPos].Parent
			stack = append([]frame{{node: failedNode, state: stateBeforeFailure}}, stack...)
			continue
		}

		newChildren := snapshotChildInfos(p.tree.Root.Children)
		if !equalToDoLists(newChildren, originalChildren) {
			return nil, 0, ErrRepairExhausted
		}
		p.plan = newPlan
		return newPlan, resumeIndex, nil
	}

	return nil, 0, ErrRepairExhausted
}
