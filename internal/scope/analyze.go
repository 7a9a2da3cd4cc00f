package scope

import (
	"errors"
	"fmt"

	"paramcheck/internal/syntax"
)

// ErrNotFunction is returned when a function-only query is made for a node
// that is not a function definition.
var ErrNotFunction = errors.New("node is not a function definition")

// Manager holds the result of analysing one tree.
type Manager struct {
	Global *Scope

	tree     *syntax.Tree
	scopes   map[syntax.NodeID]*Scope
	declared map[syntax.NodeID][]*Variable
	params   map[syntax.NodeID][]*Variable
}

// Analyze builds the scope chain for t and resolves every reference. The
// root of t must be a Program.
func Analyze(t *syntax.Tree) (*Manager, error) {
	root := t.Root()
	if t.Kind(root) != syntax.KindProgram {
		return nil, fmt.Errorf("%w: root is %s, want Program", syntax.ErrMalformed, t.Kind(root))
	}

	m := &Manager{
		tree:     t,
		scopes:   make(map[syntax.NodeID]*Scope),
		declared: make(map[syntax.NodeID][]*Variable),
		params:   make(map[syntax.NodeID][]*Variable),
	}
	m.Global = newScope(ScopeGlobal, root, nil)
	m.scopes[root] = m.Global

	a := &analyzer{t: t, m: m, scope: m.Global}
	a.visit(root)
	a.resolve()
	return m, nil
}

// Tree returns the analysed tree.
func (m *Manager) Tree() *syntax.Tree { return m.tree }

// Scope returns the scope introduced by node, or nil. For functions this is
// the scope holding the parameters.
func (m *Manager) Scope(node syntax.NodeID) *Scope {
	return m.scopes[node]
}

// DeclaredVariables returns the variables whose definitions name node as
// their declaring node, in definition order.
func (m *Manager) DeclaredVariables(node syntax.NodeID) []*Variable {
	return m.declared[node]
}

// Parameters returns the parameter variables of fn in declaration order.
func (m *Manager) Parameters(fn syntax.NodeID) ([]*Variable, error) {
	if !m.tree.Kind(fn).IsFunction() {
		return nil, fmt.Errorf("%w: node %d is %s", ErrNotFunction, fn, m.tree.Kind(fn))
	}
	return m.params[fn], nil
}

type analyzer struct {
	t       *syntax.Tree
	m       *Manager
	scope   *Scope
	pending []*Reference
}

func (a *analyzer) push(kind Kind, node syntax.NodeID) *Scope {
	a.scope = newScope(kind, node, a.scope)
	if _, ok := a.m.scopes[node]; !ok {
		a.m.scopes[node] = a.scope
	}
	return a.scope
}

func (a *analyzer) pop() {
	a.scope = a.scope.Parent
}

func (a *analyzer) define(s *Scope, ident syntax.NodeID, kind DefKind, node syntax.NodeID) *Variable {
	v := s.define(a.t.Name(ident), Definition{Kind: kind, Name: ident, Node: node})
	a.m.declared[node] = appendUnique(a.m.declared[node], v)
	return v
}

func (a *analyzer) reference(ident syntax.NodeID, flags Flags, init bool) {
	a.pending = append(a.pending, &Reference{
		Identifier: ident,
		Flags:      flags,
		Init:       init,
		From:       a.scope,
	})
}

// resolve runs after every definition is known, which gives var and
// function declarations their hoisting.
func (a *analyzer) resolve() {
	for _, ref := range a.pending {
		v := ref.From.Lookup(a.t.Name(ref.Identifier))
		if v == nil {
			a.m.Global.Through = append(a.m.Global.Through, ref)
			continue
		}
		ref.Resolved = v
		v.References = append(v.References, ref)
	}
	a.pending = nil
}

func (a *analyzer) visitAll(ids []syntax.NodeID) {
	for _, id := range ids {
		a.visit(id)
	}
}

func (a *analyzer) visit(id syntax.NodeID) {
	switch n := a.t.Node(id).(type) {
	case nil:
	case *syntax.Program:
		a.visitAll(n.Body)
	case *syntax.Block:
		a.push(ScopeBlock, id)
		a.visitAll(n.Body)
		a.pop()
	case *syntax.Statement:
		if n.Scoped {
			a.push(ScopeBlock, id)
			a.visitAll(n.Children)
			a.pop()
			return
		}
		a.visitAll(n.Children)
	case *syntax.ForIn:
		a.visitForIn(id, n)
	case *syntax.VarDecl:
		a.visitVarDecl(id, n, false)
	case *syntax.ClassDecl:
		if n.Name != syntax.NoNode {
			a.define(a.scope, n.Name, DefClassName, id)
		}
		a.push(ScopeClass, id)
		a.visitAll(n.Body)
		a.pop()
	case *syntax.ImportDecl:
		for _, b := range n.Bindings {
			a.define(a.scope, b, DefImport, id)
		}
	case *syntax.Function:
		a.visitFunction(id, n)
	case *syntax.CatchClause:
		a.push(ScopeCatch, id)
		if n.Param != syntax.NoNode {
			s := a.scope
			a.bindPattern(n.Param, func(ident syntax.NodeID, _ int) {
				a.define(s, ident, DefCatchParam, id)
			})
		}
		a.visit(n.Body)
		a.pop()
	case *syntax.Ident:
		a.reference(id, Read, false)
	case *syntax.PropName:
	case *syntax.Assign:
		if n.Op == "=" {
			a.assignTarget(n.Target)
		} else if a.t.Kind(n.Target) == syntax.KindIdent {
			a.reference(n.Target, ReadWrite, false)
		} else {
			a.visit(n.Target)
		}
		a.visit(n.Value)
	case *syntax.Update:
		if a.t.Kind(n.Arg) == syntax.KindIdent {
			a.reference(n.Arg, ReadWrite, false)
		} else {
			a.visit(n.Arg)
		}
	case *syntax.Member:
		a.visit(n.Object)
		if n.Computed {
			a.visit(n.Property)
		}
	case *syntax.Property:
		if n.Computed {
			a.visit(n.Key)
		}
		a.visit(n.Value)
	default:
		a.visitAll(syntax.Children(n))
	}
}

func (a *analyzer) visitFunction(id syntax.NodeID, fn *syntax.Function) {
	if fn.Form == syntax.FormDeclaration && fn.Name != syntax.NoNode {
		a.define(a.scope, fn.Name, DefFunctionName, id)
	}

	outer := a.scope
	if fn.Form == syntax.FormExpression && fn.Name != syntax.NoNode {
		s := newScope(ScopeFunctionName, id, a.scope)
		a.scope = s
		a.define(s, fn.Name, DefFunctionName, id)
	}

	fs := newScope(ScopeFunction, id, a.scope)
	a.m.scopes[id] = fs
	a.scope = fs

	for _, p := range fn.Params {
		a.bindPattern(p, func(ident syntax.NodeID, defaults int) {
			v := a.define(fs, ident, DefParameter, id)
			a.m.params[id] = appendUnique(a.m.params[id], v)
			for i := 0; i < defaults; i++ {
				a.reference(ident, Write, true)
			}
		})
	}

	if body, ok := a.t.Node(fn.Body).(*syntax.Block); ok {
		a.visitAll(body.Body)
	} else {
		a.visit(fn.Body)
	}
	a.scope = outer
}

func (a *analyzer) visitVarDecl(id syntax.NodeID, n *syntax.VarDecl, initialized bool) {
	target := a.scope
	if n.Decl == syntax.DeclVar {
		target = a.scope.variableScope()
	}
	for _, d := range n.Declarators {
		decl, ok := a.t.Node(d).(*syntax.Declarator)
		if !ok {
			a.visit(d)
			continue
		}
		hasInit := initialized || decl.Init != syntax.NoNode
		a.bindPattern(decl.Target, func(ident syntax.NodeID, defaults int) {
			v := a.define(target, ident, DefVariable, d)
			a.m.declared[id] = appendUnique(a.m.declared[id], v)
			for i := 0; i < defaults; i++ {
				a.reference(ident, Write, true)
			}
			if hasInit {
				a.reference(ident, Write, true)
			}
		})
		a.visit(decl.Init)
	}
}

func (a *analyzer) visitForIn(id syntax.NodeID, n *syntax.ForIn) {
	a.visit(n.Right)

	decl, isDecl := a.t.Node(n.Left).(*syntax.VarDecl)
	scoped := isDecl && decl.Decl != syntax.DeclVar
	if scoped {
		a.push(ScopeFor, id)
	}
	if isDecl {
		a.visitVarDecl(n.Left, decl, true)
	} else {
		a.assignTarget(n.Left)
	}
	a.visit(n.Body)
	if scoped {
		a.pop()
	}
}

// assignTarget records the writes of a plain assignment or for-in/of target.
// Every destructuring default enclosing an identifier adds one more write to
// that identifier.
func (a *analyzer) assignTarget(target syntax.NodeID) {
	a.bindPattern(target, func(ident syntax.NodeID, defaults int) {
		for i := 0; i < defaults; i++ {
			a.reference(ident, Write, false)
		}
		a.reference(ident, Write, false)
	})
}

// bindPattern calls bind for every identifier a pattern binds, with the
// number of DefaultPattern nodes enclosing it. Default values, computed keys
// and member targets are visited as expressions once the whole pattern has
// been bound.
func (a *analyzer) bindPattern(id syntax.NodeID, bind func(ident syntax.NodeID, defaults int)) {
	var rhs []syntax.NodeID
	var walk func(id syntax.NodeID, defaults int)
	walk = func(id syntax.NodeID, defaults int) {
		switch n := a.t.Node(id).(type) {
		case nil:
		case *syntax.Ident:
			bind(id, defaults)
		case *syntax.DefaultPattern:
			walk(n.Target, defaults+1)
			rhs = append(rhs, n.Default)
		case *syntax.ObjectPattern:
			for _, p := range n.Props {
				walk(p, defaults)
			}
		case *syntax.Property:
			if n.Computed {
				rhs = append(rhs, n.Key)
			}
			walk(n.Value, defaults)
		case *syntax.ArrayPattern:
			for _, e := range n.Elems {
				walk(e, defaults)
			}
		case *syntax.RestPattern:
			walk(n.Arg, defaults)
		default:
			rhs = append(rhs, id)
		}
	}
	walk(id, 0)
	a.visitAll(rhs)
}

func appendUnique(vs []*Variable, v *Variable) []*Variable {
	for _, x := range vs {
		if x == v {
			return vs
		}
	}
	return append(vs, v)
}
