package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAssign builds `a.b = 1;` as Program > Statement > Assign.
func buildAssign(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	b := NewBuilder()
	ids := map[string]NodeID{}

	prog := b.Open(NoNode, Span{})
	stmt := b.Open(prog, Span{})
	assign := b.Open(stmt, Span{})
	member := b.Open(assign, Span{})
	obj := b.Add(member, Span{StartLine: 1, StartCol: 1}, &Ident{Name: "a"})
	prop := b.Add(member, Span{}, &PropName{Name: "b"})
	b.Fill(member, &Member{Object: obj, Property: prop})
	val := b.Add(assign, Span{}, &Other{})
	b.Fill(assign, &Assign{Op: "=", Target: member, Value: val})
	b.Fill(stmt, &Statement{Children: []NodeID{assign}})
	b.Fill(prog, &Program{Body: []NodeID{stmt}})

	tree, err := b.Finish(prog)
	require.NoError(t, err)

	ids["prog"], ids["stmt"], ids["assign"], ids["member"] = prog, stmt, assign, member
	ids["obj"], ids["prop"], ids["val"] = obj, prop, val
	return tree, ids
}

func TestBuilder_ParentLinks(t *testing.T) {
	tree, ids := buildAssign(t)

	assert.Equal(t, NoNode, tree.Parent(ids["prog"]))
	assert.Equal(t, ids["member"], tree.Parent(ids["obj"]))
	assert.Equal(t, ids["assign"], tree.Parent(ids["member"]))
	assert.Equal(t, KindAssignment, tree.Kind(ids["assign"]))
	assert.Equal(t, "a", tree.Name(ids["obj"]))
	assert.Equal(t, "b", tree.Name(ids["prop"]))
	assert.Equal(t, 1, tree.Span(ids["obj"]).StartLine)
	assert.Equal(t, KindInvalid, tree.Kind(NoNode))
	assert.Nil(t, tree.Node(NoNode))
}

func TestBuilder_RejectsUnfilledNode(t *testing.T) {
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})
	stmt := b.Open(prog, Span{})
	b.Fill(prog, &Program{Body: []NodeID{stmt}})

	_, err := b.Finish(prog)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestBuilder_RejectsWrongParent(t *testing.T) {
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})
	stmt := b.Open(prog, Span{})
	id := b.Add(prog, Span{}, &Ident{Name: "x"}) // claims prog, listed by stmt
	b.Fill(stmt, &Statement{Children: []NodeID{id}})
	b.Fill(prog, &Program{Body: []NodeID{stmt}})

	_, err := b.Finish(prog)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "links to parent")
}

func TestBuilder_RejectsUnreachableNode(t *testing.T) {
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})
	b.Add(prog, Span{}, &Ident{Name: "orphan"})
	b.Fill(prog, &Program{})

	_, err := b.Finish(prog)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestBuilder_RejectsRootWithParent(t *testing.T) {
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})
	inner := b.Add(prog, Span{}, &Program{})
	b.Fill(prog, &Program{Body: []NodeID{inner}})

	_, err := b.Finish(inner)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestWalk_PrePostOrder(t *testing.T) {
	tree, ids := buildAssign(t)

	var pre, post []NodeID
	Walk(tree, tree.Root(), func(id NodeID) bool {
		pre = append(pre, id)
		return true
	}, func(id NodeID) {
		post = append(post, id)
	})

	require.Len(t, pre, tree.Len())
	assert.Equal(t, ids["prog"], pre[0])
	assert.Equal(t, ids["prog"], post[len(post)-1])
	assert.Equal(t, []NodeID{ids["obj"], ids["prop"], ids["member"], ids["val"], ids["assign"], ids["stmt"], ids["prog"]}, post)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree, ids := buildAssign(t)

	var visited []NodeID
	Walk(tree, tree.Root(), func(id NodeID) bool {
		visited = append(visited, id)
		return tree.Kind(id) != KindAssignment
	}, nil)

	assert.Equal(t, []NodeID{ids["prog"], ids["stmt"], ids["assign"]}, visited)
}

func TestKind_Terminal(t *testing.T) {
	terminal := []Kind{KindProgram, KindBlock, KindStatement, KindForIn, KindVarDecl,
		KindClassDecl, KindImportDecl, KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction}
	for _, k := range terminal {
		assert.True(t, k.Terminal(), k.String())
	}

	open := []Kind{KindDeclarator, KindCatchClause, KindIdent, KindAssignment, KindCompoundAssignment,
		KindUpdate, KindUnary, KindCall, KindMember, KindProperty, KindObjectPattern, KindArrayPattern,
		KindDefaultPattern, KindRestPattern, KindOther}
	for _, k := range open {
		assert.False(t, k.Terminal(), k.String())
	}
}

func TestFunctions_PostOrder(t *testing.T) {
	// function outer() { (() => {}); }
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})
	outer := b.Open(prog, Span{})
	body := b.Open(outer, Span{})
	stmt := b.Open(body, Span{})
	arrow := b.Open(stmt, Span{})
	arrowBody := b.Add(arrow, Span{}, &Block{})
	b.Fill(arrow, &Function{Form: FormArrow, Name: NoNode, Body: arrowBody})
	b.Fill(stmt, &Statement{Children: []NodeID{arrow}})
	b.Fill(body, &Block{Body: []NodeID{stmt}})
	b.Fill(outer, &Function{Form: FormDeclaration, Name: NoNode, Body: body})
	b.Fill(prog, &Program{Body: []NodeID{outer}})
	tree, err := b.Finish(prog)
	require.NoError(t, err)

	assert.Equal(t, []NodeID{arrow, outer}, Functions(tree, tree.Root()))
	assert.Equal(t, outer, EnclosingFunction(tree, arrow))
	assert.Equal(t, NoNode, EnclosingFunction(tree, outer))
	assert.Equal(t, KindArrowFunction, tree.Kind(arrow))
}

func TestFunctionName(t *testing.T) {
	b := NewBuilder()
	prog := b.Open(NoNode, Span{})

	// function named() {}
	named := b.Open(prog, Span{})
	name := b.Add(named, Span{}, &Ident{Name: "named"})
	b.Fill(named, &Function{Form: FormDeclaration, Name: name, Body: NoNode})

	// const bound = () => {}
	decl := b.Open(prog, Span{})
	declarator := b.Open(decl, Span{})
	target := b.Add(declarator, Span{}, &Ident{Name: "bound"})
	arrow := b.Add(declarator, Span{}, &Function{Form: FormArrow, Name: NoNode, Body: NoNode})
	b.Fill(declarator, &Declarator{Target: target, Init: arrow})
	b.Fill(decl, &VarDecl{Decl: DeclConst, Declarators: []NodeID{declarator}})

	// obj.method = function () {}
	stmt := b.Open(prog, Span{})
	assign := b.Open(stmt, Span{})
	member := b.Open(assign, Span{})
	obj := b.Add(member, Span{}, &Ident{Name: "obj"})
	prop := b.Add(member, Span{}, &PropName{Name: "method"})
	b.Fill(member, &Member{Object: obj, Property: prop})
	expr := b.Add(assign, Span{}, &Function{Form: FormExpression, Name: NoNode, Body: NoNode})
	b.Fill(assign, &Assign{Op: "=", Target: member, Value: expr})
	b.Fill(stmt, &Statement{Children: []NodeID{assign}})

	// (() => {})
	anon := b.Add(prog, Span{}, &Function{Form: FormArrow, Name: NoNode, Body: NoNode})

	b.Fill(prog, &Program{Body: []NodeID{named, decl, stmt, anon}})
	tree, err := b.Finish(prog)
	require.NoError(t, err)

	assert.Equal(t, "named", FunctionName(tree, named))
	assert.Equal(t, "bound", FunctionName(tree, arrow))
	assert.Equal(t, "method", FunctionName(tree, expr))
	assert.Equal(t, "anonymous", FunctionName(tree, anon))
	assert.Equal(t, "", FunctionName(tree, prog))
}
