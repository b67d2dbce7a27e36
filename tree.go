package ihop

// Status is a node's refinement status: Open (not yet successfully
// decomposed/verified, a candidate for the engine to visit) or Closed
// (currently decomposed, with live children standing in for it).
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
)

// Kind identifies what a decomposition-tree node stands for.
type Kind int

const (
	KindRoot Kind = iota
	KindTask
	KindAction
	KindUniGoal
	KindMultiGoal
	KindVerifyUniGoal
	KindVerifyMultiGoal
)

// Node is one vertex of the decomposition tree. Status, EntryState,
// availableMethods, selectedMethod and instances are per-visit state
// that reset restores to their unvisited values; backtrack resets the
// node that failed, while an ancestor it reopens keeps its live method
// iterator.
type Node struct {
	ID     int
	Kind   Kind
	Info   ToDo
	Status Status
	Depth  int

	// EntryState is the live world state as of the moment this node was
	// first entered; nil means the node has never been visited, or was
	// reset by a backtrack/repair step.
	EntryState *State

	methods          []Method
	availableMethods []Method
	selectedMethod   Method
	instances        MethodIter

	action ActionFunc

	Parent   *Node
	Children []*Node
}

func (n *Node) reset() {
	n.EntryState = nil
	n.selectedMethod = nil
	n.instances = nil
	n.availableMethods = append([]Method(nil), n.methods...)
	n.Status = StatusOpen
}

// Tree is the decomposition tree built and mutated by a single Plan or
// Replan run. Node IDs are assigned from a monotonically increasing
// counter and are never reused, so an ID that has appeared once always
// refers to the same logical node for the life of the tree, even
// across backtracking.
type Tree struct {
	Root *Node

	nextID  int
	methods *Methods
	actions *Actions
}

func newTree(methods *Methods, actions *Actions) *Tree {
	t := &Tree{methods: methods, actions: actions}
	t.Root = &Node{ID: 0, Kind: KindRoot, Status: StatusClosed}
	t.nextID = 1
	return t
}

func (t *Tree) nextNodeID() int {
	id := t.nextID
	t.nextID++
	return id
}

// expand installs items as children of parent, instantiating each
// child's candidate method list from the registries, then (for
// unigoal/multigoal parents) appends a synthetic verify leaf.
func (t *Tree) expand(parent *Node, items ToDoList) []*Node {
	children := make([]*Node, 0, len(items))
	for _, item := range items {
		children = append(children, t.build(parent, item))
	}
	parent.Children = append(parent.Children, children...)

	switch parent.Kind {
	case KindUniGoal:
		parent.Children = append(parent.Children, &Node{
			ID: t.nextNodeID(), Kind: KindVerifyUniGoal, Status: StatusOpen,
			Depth: parent.Depth + 1, Parent: parent,
		})
	case KindMultiGoal:
		parent.Children = append(parent.Children, &Node{
			ID: t.nextNodeID(), Kind: KindVerifyMultiGoal, Status: StatusOpen,
			Depth: parent.Depth + 1, Parent: parent,
		})
	}
	return children
}

func (t *Tree) build(parent *Node, item ToDo) *Node {
	n := &Node{
		ID: t.nextNodeID(), Info: item, Status: StatusOpen,
		Depth: parent.Depth + 1, Parent: parent,
	}
	switch item.Kind {
	case ToDoAction:
		n.Kind = KindAction
		n.action = t.actions.lookup(item.Name)
	case ToDoTask:
		n.Kind = KindTask
		n.methods = t.methods.taskMethods(item.Name)
		n.availableMethods = append([]Method(nil), n.methods...)
	case ToDoUniGoal:
		n.Kind = KindUniGoal
		n.methods = t.methods.goalMethods(item.Name)
		n.availableMethods = append([]Method(nil), n.methods...)
	case ToDoMultiGoal:
		n.Kind = KindMultiGoal
		n.methods = t.methods.multiGoalMethods(item.MultiGoal.Tag, *item.MultiGoal)
		n.availableMethods = append([]Method(nil), n.methods...)
	}
	return n
}

func collectActionNodes(root *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == KindAction {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

func toToDoList(nodes []*Node) ToDoList {
	out := make(ToDoList, len(nodes))
	for i, n := range nodes {
		out[i] = n.Info
	}
	return out
}

func collectActions(root *Node) ToDoList {
	return toToDoList(collectActionNodes(root))
}

// actionsBeforeNode counts how many action nodes appear, in preorder,
// strictly before n — the index execution should resume at once n's
// subtree has been replaced, since every action before it is
// untouched history and everything from there on (possibly zero new
// actions) must be (re)considered.
func actionsBeforeNode(root, n *Node) int {
	count := 0
	var walk func(*Node) bool
	walk = func(x *Node) bool {
		if x == n {
			return true
		}
		if x.Kind == KindAction {
			count++
		}
		for _, c := range x.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return count
}

func isDescendant(x, ancestor *Node) bool {
	for cur := x; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func ancestorIDs(n *Node) map[*Node]struct{} {
	set := map[*Node]struct{}{}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		set[cur] = struct{}{}
	}
	return set
}
