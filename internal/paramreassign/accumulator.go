package paramreassign

import (
	"slices"

	"paramcheck/internal/syntax"
)

// IsAccumulatorCallback reports whether fn is passed directly to a method
// call such as `xs.reduce(fn, init)` whose method name is in names.
func IsAccumulatorCallback(t *syntax.Tree, fn syntax.NodeID, names []string) bool {
	if len(names) == 0 {
		return false
	}
	call, ok := t.Node(t.Parent(fn)).(*syntax.Call)
	if !ok || !slices.Contains(call.Args, fn) {
		return false
	}
	member, ok := t.Node(call.Callee).(*syntax.Member)
	if !ok || member.Computed {
		return false
	}
	prop, ok := t.Node(member.Property).(*syntax.PropName)
	if !ok {
		return false
	}
	return slices.Contains(names, prop.Name)
}
