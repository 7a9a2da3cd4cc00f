package paramreassign

import (
	"errors"
	"fmt"

	"paramcheck/internal/syntax"
)

// ErrDetached is returned when a node's parent chain ends before reaching a
// terminal node, which only happens for trees not rooted at a Program.
var ErrDetached = errors.New("node is detached from its program")

// IsPropertyMutation walks up from ident and reports whether the value it
// reads has a reachable property written to, as in `p.a = 0`,
// `p.get(0).a = 0`, `++p.a` or `delete p.a`.
func IsPropertyMutation(t *syntax.Tree, ident syntax.NodeID) (bool, error) {
	if !t.Valid(ident) {
		return false, fmt.Errorf("%w: identifier %d not in tree", ErrDetached, ident)
	}

	node := ident
	for {
		parent := t.Parent(node)
		if parent == syntax.NoNode {
			return false, fmt.Errorf("%w: walk from %s at %s reached %s %d without a terminal",
				ErrDetached, t.Name(ident), t.Span(ident), t.Kind(node), node)
		}
		if t.Kind(parent).Terminal() {
			return false, nil
		}

		switch p := t.Node(parent).(type) {
		case *syntax.Assign:
			return p.Target == node, nil
		case *syntax.Update:
			return true, nil
		case *syntax.Unary:
			if p.Op == "delete" {
				return true, nil
			}
		case *syntax.Call:
			// cache.get(p.a).b = 0 writes to the call's result.
			if p.Callee != node {
				return false, nil
			}
		case *syntax.Member:
			// cache[p.a] = 0 only reads p.a as a key.
			if p.Property == node {
				return false, nil
			}
		}
		node = parent
	}
}
