package ihop

import "reflect"

// refineLoop drives depth-first refinement of subtreeRoot's open
// descendants until none remain (subtreeRoot itself has no open child
// and its own ancestors are out of scope), returning how many nodes
// were visited. Both Plan (subtreeRoot = the tree root) and Replan
// (subtreeRoot = the re-expanded node's parent) share this loop.
func (p *Planner) refineLoop(subtreeRoot *Node) int {
	outOfScope := ancestorIDs(subtreeRoot)
	iterations := 0
	parent := subtreeRoot

	for {
		if _, above := outOfScope[parent]; above {
			break
		}
		var cur *Node
		for _, c := range parent.Children {
			if c.Status == StatusOpen {
				cur = c
				break
			}
		}
		if cur == nil {
			if parent == subtreeRoot || parent.Parent == nil {
				break
			}
			parent = parent.Parent
			continue
		}
		iterations++
		parent = p.refineNode(cur, parent)
	}
	return iterations
}

func (p *Planner) refineNode(cur, parent *Node) *Node {
	if cur.EntryState != nil {
		p.state = cur.EntryState.Copy()
	} else {
		cur.EntryState = p.state.Copy()
	}

	switch cur.Kind {
	case KindAction:
		return p.refineAction(cur, parent)
	case KindTask:
		return p.refineTask(cur, parent)
	case KindUniGoal:
		return p.refineUniGoal(cur, parent)
	case KindMultiGoal:
		return p.refineMultiGoal(cur, parent)
	case KindVerifyUniGoal:
		return p.refineVerifyUniGoal(cur, parent)
	case KindVerifyMultiGoal:
		return p.refineVerifyMultiGoal(cur, parent)
	}
	return parent
}

func (p *Planner) refineAction(cur, parent *Node) *Node {
	if p.blacklisted(cur.Info) {
		return p.backtrack(cur, parent)
	}
	newState, ok := p.actions.Invoke(cur.Info.Name, p.state, cur.Info.Args...)
	if !ok || p.branchCyclic(newState, cur) {
		return p.backtrack(cur, parent)
	}
	cur.Status = StatusClosed
	p.state = newState
	return parent
}

// branchCyclic reports whether s equals the entry_state of any proper
// ancestor of n, meaning the candidate action would return the
// decomposition to a state it has already explored along this branch.
func (p *Planner) branchCyclic(s *State, n *Node) bool {
	for anc := n.Parent; anc != nil; anc = anc.Parent {
		if anc.EntryState != nil && s.Equal(anc.EntryState) {
			return true
		}
	}
	return false
}

// tryDecompose pulls the next working decomposition from cur's
// available methods, advancing past any method that is exhausted (or
// that legitimately yields zero alternatives) until one succeeds or
// none remain.
func (p *Planner) tryDecompose(cur *Node, args ...any) (ToDoList, bool) {
	if p.hasMaxDepth && cur.Depth >= p.maxDepth {
		return nil, false
	}
	for len(cur.availableMethods) > 0 {
		if cur.instances == nil {
			cur.selectedMethod = cur.availableMethods[0]
			cur.instances = cur.selectedMethod(p.state, args...)
		}
		if decomp, ok := cur.instances(); ok {
			return decomp, true
		}
		cur.availableMethods = cur.availableMethods[1:]
		cur.instances = nil
		cur.selectedMethod = nil
	}
	return nil, false
}

func (p *Planner) refineTask(cur, parent *Node) *Node {
	decomp, ok := p.tryDecompose(cur, cur.Info.Args...)
	if !ok {
		return p.backtrack(cur, parent)
	}
	cur.Status = StatusClosed
	p.tree.expand(cur, decomp)
	return cur
}

func (p *Planner) refineUniGoal(cur, parent *Node) *Node {
	if p.unigoalAchieved(cur.Info) {
		cur.Status = StatusClosed
		return parent
	}
	decomp, ok := p.tryDecompose(cur, cur.Info.unigoalKey(), cur.Info.unigoalDesired())
	if !ok {
		return p.backtrack(cur, parent)
	}
	cur.Status = StatusClosed
	p.tree.expand(cur, decomp)
	return cur
}

func (p *Planner) refineMultiGoal(cur, parent *Node) *Node {
	mg := *cur.Info.MultiGoal
	if p.goalsAchieved(mg) {
		cur.Status = StatusClosed
		return parent
	}
	decomp, ok := p.tryDecompose(cur, mg)
	if !ok {
		return p.backtrack(cur, parent)
	}
	cur.Status = StatusClosed
	p.tree.expand(cur, decomp)
	return cur
}

func (p *Planner) refineVerifyUniGoal(cur, parent *Node) *Node {
	if p.unigoalAchieved(parent.Info) {
		cur.Status = StatusClosed
		return parent
	}
	return p.backtrack(cur, parent)
}

func (p *Planner) refineVerifyMultiGoal(cur, parent *Node) *Node {
	if p.goalsAchieved(*parent.Info.MultiGoal) {
		cur.Status = StatusClosed
		return parent
	}
	return p.backtrack(cur, parent)
}

func (p *Planner) unigoalAchieved(info ToDo) bool {
	val, _ := p.state.Get(info.Name, info.unigoalKey())
	return reflect.DeepEqual(val, info.unigoalDesired())
}

func (p *Planner) goalsAchieved(mg MultiGoal) bool {
	for _, g := range mg.Goals {
		val, _ := p.state.Get(g.Fluent, g.Key)
		if !reflect.DeepEqual(val, g.Desired) {
			return false
		}
	}
	return true
}

// backtrack reopens the nearest Closed ancestor of node (walking up
// from parent), discards its subtree, and restores the engine's live
// state from that ancestor's entry_state. If no ancestor is Closed —
// which only happens once backtracking has unwound all the way past
// the root — the whole problem is infeasible under the current set of
// top-level to-do items.
func (p *Planner) backtrack(node, parent *Node) *Node {
	node.reset()
	for anc := parent; anc != nil; anc = anc.Parent {
		if anc.Status != StatusClosed {
			continue
		}
		anc.Status = StatusOpen
		anc.Children = nil
		if anc.Parent == nil {
			return anc
		}
		p.state = anc.EntryState.Copy()
		return anc.Parent
	}
	p.tree.Root.Children = nil
	return p.tree.Root
}
