package ihop

import (
	bt "github.com/joeycumines/go-behaviortree"
)

// BehaviorTree adapts a read-only view of the decomposition tree to
// github.com/joeycumines/go-behaviortree's Node interface, purely so
// its tree-printing (bt.Node.String(), bt.TreePrinter) can be reused
// for the CLI's dump command. The tick itself is a placeholder: every
// node reports Success unconditionally, since this view exists to show
// the shape of a finished or in-progress decomposition, not to drive
// it — the refinement engine's own loop (refine.go) owns actual
// control flow, which a re-entrant Tick/Status contract can't express
// (there is no notion, in a Tick, of "the next alternative
// decomposition of this same node").
func (t *Tree) BehaviorTree() bt.Node {
	return behaviorTreeNode(t.Root)
}

func behaviorTreeNode(n *Node) bt.Node {
	return func() (bt.Tick, []bt.Node) {
		tick := func([]bt.Node) (bt.Status, error) { return bt.Success, nil }
		children := make([]bt.Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = behaviorTreeNode(c)
		}
		return tick, children
	}
}

// String renders the tree using go-behaviortree's default printer.
func (t *Tree) String() string {
	return t.BehaviorTree().String()
}
