package ihop

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// NameMapper renders an argument value as interchange-format text;
// NameUnmapper is its inverse, given the same token back. The defaults
// use fmt.Sprint/keep-as-string, adequate whenever a domain's argument
// values are themselves strings (the common case); domains with richer
// argument types supply their own pair.
type NameMapper func(v any) string
type NameUnmapper func(token string) any

func defaultNameMapper(v any) string    { return fmt.Sprint(v) }
func defaultNameUnmapper(tok string) any { return tok }

func methodDisplayName(m Method) string {
	if m == nil {
		return ""
	}
	pc := reflect.ValueOf(m).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// Dump renders the tree in the persisted interchange text format: an
// action section bracketed by "==>"/a blank line, then a decomposition
// section bracketed by a blank line/"<==". Every non-root, non-action
// line carries, right after its node id, a one-word kind tag (task:/
// unigoal:/multigoal:/verify-unigoal/verify-multigoal) so Read can
// recover each node's kind
// without guessing from its argument count.
func (t *Tree) Dump(names NameMapper) string {
	if names == nil {
		names = defaultNameMapper
	}
	var actionsBuf, decompBuf strings.Builder

	var walk func(n *Node)
	walk = func(n *Node) {
		switch {
		case n.Kind == KindAction:
			fmt.Fprintf(&actionsBuf, "%d %s", n.ID, n.Info.Name)
			for _, a := range n.Info.Args {
				fmt.Fprintf(&actionsBuf, " %s", names(a))
			}
			actionsBuf.WriteByte('\n')
		case n == t.Root:
			decompBuf.WriteString("root")
			for _, c := range n.Children {
				fmt.Fprintf(&decompBuf, " %d", c.ID)
			}
			decompBuf.WriteByte('\n')
		default:
			fmt.Fprintf(&decompBuf, "%d %s", n.ID, nodeLabel(n, names))
			if n.Kind != KindVerifyUniGoal && n.Kind != KindVerifyMultiGoal {
				fmt.Fprintf(&decompBuf, " -> %s", methodDisplayName(n.selectedMethod))
				for _, c := range n.Children {
					fmt.Fprintf(&decompBuf, " %d", c.ID)
				}
			}
			decompBuf.WriteByte('\n')
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)

	var out strings.Builder
	out.WriteString("==>\n")
	out.WriteString(actionsBuf.String())
	out.WriteByte('\n')
	out.WriteString(decompBuf.String())
	out.WriteString("<==\n")
	return out.String()
}

func nodeLabel(n *Node, names NameMapper) string {
	switch n.Kind {
	case KindTask:
		parts := []string{"task:" + n.Info.Name}
		for _, a := range n.Info.Args {
			parts = append(parts, names(a))
		}
		return strings.Join(parts, " ")
	case KindUniGoal:
		return fmt.Sprintf("unigoal:%s %s %s", n.Info.Name, names(n.Info.unigoalKey()), names(n.Info.unigoalDesired()))
	case KindMultiGoal:
		return "multigoal:" + n.Info.MultiGoal.Tag
	case KindVerifyUniGoal:
		return "verify-unigoal"
	case KindVerifyMultiGoal:
		return "verify-multigoal"
	}
	return ""
}

// Read reconstructs a Tree from interchange-format text, looking up
// methods by their recorded name among the kind-appropriate candidate
// list and forward-simulating actions from initial to recover every
// node's entry_state, including ancestors that own no action
// themselves (which inherit the state of the nearest following node
// in reverse preorder, exactly as the node that follows them first
// observed it).
//
// MultiGoal nodes are reconstructed with only their Tag populated:
// the individual desired fluent values aren't recoverable from text
// once a multigoal has already been decomposed, and aren't needed to
// replay the already-recorded edges and states.
func Read(text string, initial *State, methods *Methods, actions *Actions, unmap NameUnmapper) (*Tree, error) {
	if unmap == nil {
		unmap = defaultNameUnmapper
	}
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) != "==>" {
		i++
	}
	if i >= len(lines) {
		return nil, fmt.Errorf("ihop: interchange: missing %q header", "==>")
	}
	i++

	actionLines := []string{}
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		actionLines = append(actionLines, lines[i])
		i++
	}
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	decompLines := []string{}
	for i < len(lines) && strings.TrimSpace(lines[i]) != "<==" {
		decompLines = append(decompLines, lines[i])
		i++
	}

	actionInfo := map[int]ToDo{}
	for _, line := range actionLines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("ihop: interchange: bad action id %q: %w", fields[0], err)
		}
		args := make([]any, 0, len(fields)-2)
		for _, tok := range fields[2:] {
			args = append(args, unmap(tok))
		}
		actionInfo[id] = Action(fields[1], args...)
	}

	t := &Tree{methods: methods, actions: actions}
	nodes := map[int]*Node{0: {ID: 0, Kind: KindRoot, Status: StatusClosed}}
	t.Root = nodes[0]
	var rootChildren []int
	maxID := 0

	ensure := func(id int) *Node {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := &Node{ID: id, Status: StatusClosed}
		if act, ok := actionInfo[id]; ok {
			n.Kind = KindAction
			n.Info = act
			n.action = actions.lookup(act.Name)
		}
		nodes[id] = n
		if id > maxID {
			maxID = id
		}
		return n
	}

	for _, line := range decompLines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "root" {
			for _, tok := range fields[1:] {
				id, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("ihop: interchange: bad root child %q: %w", tok, err)
				}
				rootChildren = append(rootChildren, id)
			}
			continue
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("ihop: interchange: bad node id %q: %w", fields[0], err)
		}
		n := ensure(id)
		if act, ok := actionInfo[id]; ok {
			n.Kind = KindAction
			n.Info = act
			n.action = actions.lookup(act.Name)
			continue
		}

		label := fields[1]
		switch {
		case label == "verify-unigoal":
			n.Kind = KindVerifyUniGoal
			continue
		case label == "verify-multigoal":
			n.Kind = KindVerifyMultiGoal
			continue
		case strings.HasPrefix(label, "task:"):
			n.Kind = KindTask
			n.Info.Kind = ToDoTask
			n.Info.Name = strings.TrimPrefix(label, "task:")
		case strings.HasPrefix(label, "unigoal:"):
			n.Kind = KindUniGoal
			n.Info.Kind = ToDoUniGoal
			n.Info.Name = strings.TrimPrefix(label, "unigoal:")
		case strings.HasPrefix(label, "multigoal:"):
			n.Kind = KindMultiGoal
			n.Info.Kind = ToDoMultiGoal
			n.Info.MultiGoal = &MultiGoal{Tag: strings.TrimPrefix(label, "multigoal:")}
		default:
			return nil, fmt.Errorf("ihop: interchange: unrecognized node label %q", label)
		}

		arrow := indexOf(fields, "->")
		if arrow < 0 {
			return nil, fmt.Errorf("ihop: interchange: missing '->' on line %q", line)
		}
		argTokens := fields[2:arrow]
		switch n.Kind {
		case KindTask:
			for _, tok := range argTokens {
				n.Info.Args = append(n.Info.Args, unmap(tok))
			}
		case KindUniGoal:
			if len(argTokens) != 2 {
				return nil, fmt.Errorf("ihop: interchange: unigoal needs 2 args, got %d", len(argTokens))
			}
			n.Info.Args = []any{unmap(argTokens[0]), unmap(argTokens[1])}
		}

		rest := fields[arrow+1:]
		if len(rest) > 0 {
			methodName := rest[0]
			candidates := candidateMethods(methods, n)
			n.selectedMethod, _ = findMethodByName(candidates, methodName)
			n.methods = candidates
			rest = rest[1:]
		}
		for _, tok := range rest {
			childID, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("ihop: interchange: bad child id %q: %w", tok, err)
			}
			child := ensure(childID)
			child.Parent = n
			n.Children = append(n.Children, child)
		}
	}

	for _, id := range rootChildren {
		c := ensure(id)
		c.Parent = t.Root
		t.Root.Children = append(t.Root.Children, c)
	}
	t.nextID = maxID + 1

	assignDepths(t.Root)
	if err := forwardSimulate(t, initial, actions); err != nil {
		return nil, err
	}
	return t, nil
}

func indexOf(fields []string, target string) int {
	for i, f := range fields {
		if f == target {
			return i
		}
	}
	return -1
}

func candidateMethods(methods *Methods, n *Node) []Method {
	switch n.Kind {
	case KindTask:
		return methods.taskMethods(n.Info.Name)
	case KindUniGoal:
		return methods.goalMethods(n.Info.Name)
	case KindMultiGoal:
		return methods.multiGoalMethods(n.Info.MultiGoal.Tag, *n.Info.MultiGoal)
	}
	return nil
}

func findMethodByName(candidates []Method, name string) (Method, bool) {
	for _, m := range candidates {
		if methodDisplayName(m) == name {
			return m, true
		}
	}
	return nil, false
}

func assignDepths(root *Node) {
	root.Depth = 0
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			c.Depth = n.Depth + 1
			walk(c)
		}
	}
	walk(root)
}

// forwardSimulate replays every action node's recorded call against
// initial, in preorder, assigning each action its pre-action state as
// entry_state. It then back-fills every remaining node (verify leaves,
// already-closed task/goal nodes) by walking the full node set in
// reverse preorder and copying the nearest following node's
// entry_state forward, exactly mirroring how a node that owns no
// action of its own nonetheless has a well-defined state when it was
// first entered. Nodes with no following action in preorder (such as
// a trailing verify leaf) receive the state after the last action.
func forwardSimulate(t *Tree, initial *State, actions *Actions) error {
	var preorder []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		preorder = append(preorder, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)

	cur := initial.Copy()
	for _, n := range preorder {
		if n.Kind != KindAction {
			continue
		}
		n.EntryState = cur.Copy()
		next, ok := actions.Invoke(n.Info.Name, cur, n.Info.Args...)
		if !ok {
			return fmt.Errorf("ihop: interchange: action %q inapplicable during replay", n.Info.Name)
		}
		cur = next
	}

	following := cur
	for i := len(preorder) - 1; i >= 0; i-- {
		n := preorder[i]
		if n.EntryState == nil {
			n.EntryState = following
		}
		if n.EntryState != nil {
			following = n.EntryState
		}
	}
	return nil
}
