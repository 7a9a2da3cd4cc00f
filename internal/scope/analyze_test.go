package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramcheck/internal/jsparse"
	"paramcheck/internal/scope"
	"paramcheck/internal/syntax"
)

func analyze(t *testing.T, src string) (*syntax.Tree, *scope.Manager) {
	t.Helper()
	tree, err := jsparse.NewParser().ParseLanguage(jsparse.JavaScript, []byte(src))
	require.NoError(t, err)
	m, err := scope.Analyze(tree)
	require.NoError(t, err)
	return tree, m
}

func params(t *testing.T, src string) []*scope.Variable {
	t.Helper()
	tree, m := analyze(t, src)
	fns := syntax.Functions(tree, tree.Root())
	require.NotEmpty(t, fns)
	vars, err := m.Parameters(fns[len(fns)-1])
	require.NoError(t, err)
	return vars
}

type refShape struct {
	flags scope.Flags
	init  bool
}

func shapes(v *scope.Variable) []refShape {
	var out []refShape
	for _, r := range v.References {
		out = append(out, refShape{r.Flags, r.Init})
	}
	return out
}

func TestParameters_Order(t *testing.T) {
	vars := params(t, `function f(a, {b, c: [d]}, ...e) {}`)

	var names []string
	for _, v := range vars {
		names = append(names, v.Name)
		assert.True(t, v.IsParameter())
	}
	assert.Equal(t, []string{"a", "b", "d", "e"}, names)
}

func TestReferences_Flags(t *testing.T) {
	vars := params(t, `function f(a) { a; a = 1; a += 1; a++; a.b = 2; }`)
	require.Len(t, vars, 1)

	assert.Equal(t, []refShape{
		{scope.Read, false},
		{scope.Write, false},
		{scope.ReadWrite, false},
		{scope.ReadWrite, false},
		{scope.Read, false},
	}, shapes(vars[0]))
}

func TestReferences_DefaultsRepeat(t *testing.T) {
	vars := params(t, `function f(a = 1, {b = 2} = {}) { ({x: [a = 0]} = {}); }`)
	require.Len(t, vars, 2)

	assert.Equal(t, []refShape{
		{scope.Write, true},
		{scope.Write, false},
		{scope.Write, false},
	}, shapes(vars[0]))
	assert.Equal(t, []refShape{
		{scope.Write, true},
		{scope.Write, true},
	}, shapes(vars[1]))

	ids := vars[0].References
	assert.Equal(t, ids[1].Identifier, ids[2].Identifier)
}

func TestReferences_NestedFunctionResolvesOuterParam(t *testing.T) {
	tree, m := analyze(t, `function outer(a) { return function () { a = 1; }; }`)
	fns := syntax.Functions(tree, tree.Root())
	require.Len(t, fns, 2)

	vars, err := m.Parameters(fns[1])
	require.NoError(t, err)
	require.Len(t, vars, 1)
	require.Len(t, vars[0].References, 1)

	ref := vars[0].References[0]
	assert.True(t, ref.IsWriteOnly())
	assert.Equal(t, fns[0], m.Scope(fns[0]).Node)
	assert.Equal(t, scope.ScopeFunction, ref.From.Kind)
	assert.Equal(t, fns[0], ref.From.Node)
}

func TestReferences_ShadowingHidesParam(t *testing.T) {
	vars := params(t, `function f(a) { (function () { var a = 12; a++; })(); }`)
	require.Len(t, vars, 1)
	assert.Empty(t, vars[0].References)
}

func TestReferences_VarRedeclarationSharesParam(t *testing.T) {
	vars := params(t, `function f(a) { var a = 2; }`)
	require.Len(t, vars, 1)

	v := vars[0]
	require.Len(t, v.Defs, 2)
	assert.Equal(t, scope.DefParameter, v.Defs[0].Kind)
	assert.Equal(t, scope.DefVariable, v.Defs[1].Kind)
	assert.Equal(t, []refShape{{scope.Write, true}}, shapes(v))
}

func TestReferences_BlockScopedLetShadows(t *testing.T) {
	vars := params(t, `function f(a) { { let a = 1; a = 2; } a = 3; }`)
	require.Len(t, vars, 1)
	assert.Equal(t, []refShape{{scope.Write, false}}, shapes(vars[0]))
}

func TestReferences_Hoisting(t *testing.T) {
	tree, m := analyze(t, `function f() { g = 1; var g; h(); function h() {} }`)
	fns := syntax.Functions(tree, tree.Root())
	outer := m.Scope(fns[len(fns)-1])
	require.NotNil(t, outer)

	g := outer.LookupLocal("g")
	require.NotNil(t, g)
	assert.Len(t, g.References, 1)

	h := outer.LookupLocal("h")
	require.NotNil(t, h)
	assert.Equal(t, scope.DefFunctionName, h.Defs[0].Kind)
	assert.Len(t, h.References, 1)
	assert.Empty(t, m.Global.Through)
}

func TestReferences_ForInHeads(t *testing.T) {
	vars := params(t, `function f(a, b) { for (a in o) {} for (const b of xs) { b; } }`)
	require.Len(t, vars, 2)
	assert.Equal(t, []refShape{{scope.Write, false}}, shapes(vars[0]))
	assert.Empty(t, vars[1].References)
}

func TestReferences_CatchAndClass(t *testing.T) {
	vars := params(t, `function f(e, C) { try {} catch (e) { e = 1; } { class C {} new C(); } }`)
	require.Len(t, vars, 2)
	assert.Empty(t, vars[0].References)
	assert.Empty(t, vars[1].References)
}

func TestReferences_Unresolved(t *testing.T) {
	_, m := analyze(t, `function f() { global = 13; }`)
	require.Len(t, m.Global.Through, 1)
	assert.Nil(t, m.Global.Through[0].Resolved)
}

func TestDeclaredVariables(t *testing.T) {
	tree, m := analyze(t, `function f(a, b) {}`)
	fn := syntax.Functions(tree, tree.Root())[0]

	var names []string
	for _, v := range m.DeclaredVariables(fn) {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"f", "a", "b"}, names)
}

func TestParameters_NotFunction(t *testing.T) {
	tree, m := analyze(t, `var x = 1;`)
	_, err := m.Parameters(tree.Root())
	require.ErrorIs(t, err, scope.ErrNotFunction)
}

func TestAnalyze_RequiresProgram(t *testing.T) {
	b := syntax.NewBuilder()
	root := b.Add(syntax.NoNode, syntax.Span{}, &syntax.Other{})
	tree, err := b.Finish(root)
	require.NoError(t, err)

	_, err = scope.Analyze(tree)
	require.ErrorIs(t, err, syntax.ErrMalformed)
}
