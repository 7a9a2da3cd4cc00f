package paramreassign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramcheck/internal/scope"
	"paramcheck/internal/syntax"
)

type fakeParams map[syntax.NodeID][]*scope.Variable

func (f fakeParams) Parameters(fn syntax.NodeID) ([]*scope.Variable, error) {
	vars, ok := f[fn]
	if !ok {
		return nil, scope.ErrNotFunction
	}
	return vars, nil
}

type reduceTree struct {
	tree   *syntax.Tree
	fn     syntax.NodeID
	acc    syntax.NodeID // acc in acc[v] = true
	accSet syntax.NodeID // acc in acc = 1
	v      syntax.NodeID // v in acc[v]
}

// buildReduce builds `xs.<method>(function(acc, v) { acc[v] = true; acc = 1; })`.
func buildReduce(t *testing.T, method string) reduceTree {
	t.Helper()
	var r reduceTree
	b := syntax.NewBuilder()

	prog := b.Open(syntax.NoNode, syntax.Span{})
	stmt := b.Open(prog, syntax.Span{})
	call := b.Open(stmt, syntax.Span{})
	callee := member(b, call, func(m syntax.NodeID) syntax.NodeID {
		return b.Add(m, syntax.Span{}, &syntax.Ident{Name: "xs"})
	}, method)

	r.fn = b.Open(call, syntax.Span{})
	pAcc := b.Add(r.fn, syntax.Span{}, &syntax.Ident{Name: "acc"})
	pV := b.Add(r.fn, syntax.Span{}, &syntax.Ident{Name: "v"})
	block := b.Open(r.fn, syntax.Span{})

	s1 := b.Open(block, syntax.Span{})
	a1 := b.Open(s1, syntax.Span{})
	target := b.Open(a1, syntax.Span{})
	r.acc = b.Add(target, syntax.Span{}, &syntax.Ident{Name: "acc"})
	r.v = b.Add(target, syntax.Span{}, &syntax.Ident{Name: "v"})
	b.Fill(target, &syntax.Member{Object: r.acc, Property: r.v, Computed: true})
	val1 := b.Add(a1, syntax.Span{}, &syntax.Other{})
	b.Fill(a1, &syntax.Assign{Op: "=", Target: target, Value: val1})
	b.Fill(s1, &syntax.Statement{Children: []syntax.NodeID{a1}})

	s2 := b.Open(block, syntax.Span{})
	a2 := b.Open(s2, syntax.Span{})
	r.accSet = b.Add(a2, syntax.Span{}, &syntax.Ident{Name: "acc"})
	val2 := b.Add(a2, syntax.Span{}, &syntax.Other{})
	b.Fill(a2, &syntax.Assign{Op: "=", Target: r.accSet, Value: val2})
	b.Fill(s2, &syntax.Statement{Children: []syntax.NodeID{a2}})

	b.Fill(block, &syntax.Block{Body: []syntax.NodeID{s1, s2}})
	b.Fill(r.fn, &syntax.Function{Form: syntax.FormExpression, Name: syntax.NoNode, Params: []syntax.NodeID{pAcc, pV}, Body: block})
	b.Fill(call, &syntax.Call{Callee: callee, Args: []syntax.NodeID{r.fn}})
	b.Fill(stmt, &syntax.Statement{Children: []syntax.NodeID{call}})
	b.Fill(prog, &syntax.Program{Body: []syntax.NodeID{stmt}})

	tree, err := b.Finish(prog)
	require.NoError(t, err)
	r.tree = tree
	return r
}

func param(name string, fn syntax.NodeID, refs ...*scope.Reference) *scope.Variable {
	v := &scope.Variable{
		Name: name,
		Defs: []scope.Definition{{Kind: scope.DefParameter, Node: fn}},
	}
	for _, ref := range refs {
		ref.Resolved = v
	}
	v.References = refs
	return v
}

func (r reduceTree) params() fakeParams {
	return fakeParams{r.fn: {
		param("acc", r.fn,
			&scope.Reference{Identifier: r.acc, Flags: scope.Read},
			&scope.Reference{Identifier: r.accSet, Flags: scope.Write},
		),
		param("v", r.fn,
			&scope.Reference{Identifier: r.v, Flags: scope.Read},
		),
	}}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		method string
		opts   Options
		want   []Finding
	}{
		{
			name:   "rebinding only without props",
			method: "reduce",
			want:   []Finding{{Kind: Rebinding, Name: "acc"}},
		},
		{
			name:   "props reports property write and rebinding",
			method: "reduce",
			opts:   Options{Props: true},
			want:   []Finding{{Kind: PropertyMutation, Name: "acc"}, {Kind: Rebinding, Name: "acc"}},
		},
		{
			name:   "accumulator exempts first parameter",
			method: "reduce",
			opts:   Options{Props: true, Accumulators: []string{"reduce"}},
			want:   nil,
		},
		{
			name:   "other method is not exempt",
			method: "map",
			opts:   Options{Accumulators: []string{"reduce"}},
			want:   []Finding{{Kind: Rebinding, Name: "acc"}},
		},
		{
			name:   "accumulator names are case sensitive",
			method: "Reduce",
			opts:   Options{Accumulators: []string{"reduce"}},
			want:   []Finding{{Kind: Rebinding, Name: "acc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildReduce(t, tt.method)
			got, err := New(tt.opts).Scan(r.tree, r.params(), r.fn)
			require.NoError(t, err)

			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.want[i].Kind, got[i].Kind)
				assert.Equal(t, tt.want[i].Name, got[i].Name)
			}
		})
	}
}

func TestScan_SkipsInitAndDuplicates(t *testing.T) {
	r := buildReduce(t, "map")
	src := fakeParams{r.fn: {
		param("acc", r.fn,
			&scope.Reference{Identifier: r.accSet, Flags: scope.Write, Init: true},
			&scope.Reference{Identifier: r.accSet, Flags: scope.Write},
			&scope.Reference{Identifier: r.accSet, Flags: scope.Write},
			&scope.Reference{Identifier: r.acc, Flags: scope.Read},
			&scope.Reference{Identifier: r.acc, Flags: scope.Read},
		),
	}}

	got, err := New(Options{Props: true}).Scan(r.tree, src, r.fn)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Finding{Identifier: r.accSet, Kind: Rebinding, Name: "acc", Function: r.fn}, got[0])
	assert.Equal(t, Finding{Identifier: r.acc, Kind: PropertyMutation, Name: "acc", Function: r.fn}, got[1])
}

func TestScan_InitNeverReported(t *testing.T) {
	r := buildReduce(t, "map")
	src := fakeParams{r.fn: {
		param("acc", r.fn, &scope.Reference{Identifier: r.acc, Flags: scope.Write, Init: true}),
	}}

	for _, opts := range []Options{{}, {Props: true}} {
		got, err := New(opts).Scan(r.tree, src, r.fn)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestScan_NotAFunction(t *testing.T) {
	r := buildReduce(t, "reduce")
	_, err := New(Options{}).Scan(r.tree, r.params(), r.tree.Root())
	require.ErrorIs(t, err, scope.ErrNotFunction)
}

func TestIsAccumulatorCallback(t *testing.T) {
	r := buildReduce(t, "reduce")
	assert.True(t, IsAccumulatorCallback(r.tree, r.fn, []string{"map", "reduce"}))
	assert.False(t, IsAccumulatorCallback(r.tree, r.fn, nil))
	assert.False(t, IsAccumulatorCallback(r.tree, r.fn, []string{"reduceRight"}))
	assert.False(t, IsAccumulatorCallback(r.tree, r.tree.Root(), []string{"reduce"}))
}

func TestFindingMessage(t *testing.T) {
	assert.Equal(t, "Assignment to function parameter 'bar'.",
		Finding{Kind: Rebinding, Name: "bar"}.Message())
	assert.Equal(t, "Assignment to property of function parameter 'bar'.",
		Finding{Kind: PropertyMutation, Name: "bar"}.Message())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassInit, Classify(&scope.Reference{Flags: scope.Write, Init: true}))
	assert.Equal(t, ClassWrite, Classify(&scope.Reference{Flags: scope.Write}))
	assert.Equal(t, ClassWrite, Classify(&scope.Reference{Flags: scope.ReadWrite}))
	assert.Equal(t, ClassRead, Classify(&scope.Reference{Flags: scope.Read}))
}
