package syntax

// Walk traverses the subtree at id depth-first. pre is called before a
// node's children and may return false to skip them; post is called after
// them. Either callback may be nil.
func Walk(t *Tree, id NodeID, pre func(NodeID) bool, post func(NodeID)) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if pre != nil && !pre(id) {
		return
	}
	for _, c := range Children(n) {
		Walk(t, c, pre, post)
	}
	if post != nil {
		post(id)
	}
}

// Functions returns every function definition under id in post-order, so a
// nested function always precedes the function enclosing it.
func Functions(t *Tree, id NodeID) []NodeID {
	var fns []NodeID
	Walk(t, id, nil, func(n NodeID) {
		if t.Kind(n).IsFunction() {
			fns = append(fns, n)
		}
	})
	return fns
}

// EnclosingFunction returns the nearest function definition strictly above
// id, or NoNode.
func EnclosingFunction(t *Tree, id NodeID) NodeID {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		if t.Kind(p).IsFunction() {
			return p
		}
	}
	return NoNode
}

// FunctionName returns the name a function is known by: its own name, the
// variable or property it is assigned to, or "anonymous".
func FunctionName(t *Tree, fn NodeID) string {
	f, ok := t.Node(fn).(*Function)
	if !ok {
		return ""
	}
	if f.Name != NoNode {
		return t.Name(f.Name)
	}
	switch p := t.Node(t.Parent(fn)).(type) {
	case *Declarator:
		if name := t.Name(p.Target); name != "" {
			return name
		}
	case *Property:
		if !p.Computed && p.Value == fn {
			if name := t.Name(p.Key); name != "" {
				return name
			}
		}
	case *Assign:
		if p.Value == fn {
			if m, ok := t.Node(p.Target).(*Member); ok && !m.Computed {
				return t.Name(m.Property)
			}
			if name := t.Name(p.Target); name != "" {
				return name
			}
		}
	}
	return "anonymous"
}
