package syntax

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned by Builder.Finish for trees whose parent links do
// not match their child lists.
var ErrMalformed = errors.New("malformed syntax tree")

// Span locates a node in its source. Lines and columns are 1-based.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	StartByte int
	EndByte   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
}

type entry struct {
	node   Node
	parent NodeID
	span   Span
}

// Tree is an immutable arena of nodes produced by a Builder.
type Tree struct {
	entries []entry
	root    NodeID
}

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) Len() int { return len(t.entries) }

// Valid reports whether id names a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.entries)
}

// Node returns the variant stored at id, or nil for NoNode.
func (t *Tree) Node(id NodeID) Node {
	if !t.Valid(id) {
		return nil
	}
	return t.entries[id].node
}

// Kind returns the kind of id, or KindInvalid for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.Valid(id) {
		return KindInvalid
	}
	return t.entries[id].node.Kind()
}

// Parent returns the enclosing node of id; NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.entries[id].parent
}

func (t *Tree) Span(id NodeID) Span {
	if !t.Valid(id) {
		return Span{}
	}
	return t.entries[id].span
}

// Name returns the name carried by an Ident or PropName node, or "".
func (t *Tree) Name(id NodeID) string {
	switch n := t.Node(id).(type) {
	case *Ident:
		return n.Name
	case *PropName:
		return n.Name
	}
	return ""
}

// Builder assembles a Tree top-down: a node is opened with its parent before
// its children are built, then filled once the children exist.
type Builder struct {
	entries []entry
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Open reserves an id for a node enclosed by parent.
func (b *Builder) Open(parent NodeID, span Span) NodeID {
	b.entries = append(b.entries, entry{parent: parent, span: span})
	return NodeID(len(b.entries) - 1)
}

// Fill stores the variant for an id returned by Open.
func (b *Builder) Fill(id NodeID, n Node) {
	b.entries[id].node = n
}

// Add opens and fills a node in one step; used for leaves.
func (b *Builder) Add(parent NodeID, span Span, n Node) NodeID {
	id := b.Open(parent, span)
	b.Fill(id, n)
	return id
}

// Finish validates the arena and returns the tree rooted at root. Every node
// must be filled, reachable from root exactly once, and point back at the
// node that lists it.
func (b *Builder) Finish(root NodeID) (*Tree, error) {
	t := &Tree{entries: b.entries, root: root}
	if !t.Valid(root) {
		return nil, fmt.Errorf("%w: root %d out of range", ErrMalformed, root)
	}
	if p := t.entries[root].parent; p != NoNode {
		return nil, fmt.Errorf("%w: root %d has parent %d", ErrMalformed, root, p)
	}
	for id, e := range t.entries {
		if e.node == nil {
			return nil, fmt.Errorf("%w: node %d opened but never filled", ErrMalformed, id)
		}
	}

	seen := make([]bool, len(t.entries))
	seen[root] = true
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range Children(t.entries[id].node) {
			if !t.Valid(c) {
				return nil, fmt.Errorf("%w: node %d lists missing child %d", ErrMalformed, id, c)
			}
			if t.entries[c].parent != id {
				return nil, fmt.Errorf("%w: child %d of %s %d links to parent %d",
					ErrMalformed, c, t.Kind(id), id, t.entries[c].parent)
			}
			if seen[c] {
				return nil, fmt.Errorf("%w: node %d listed twice", ErrMalformed, c)
			}
			seen[c] = true
			stack = append(stack, c)
		}
	}
	for id, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: node %d unreachable from root", ErrMalformed, id)
		}
	}

	b.entries = nil
	return t, nil
}
