// Package scope resolves every identifier of a syntax.Tree to the variable it
// names. It produces, per variable, the ordered list of references the rule
// engine consumes.
package scope

import (
	"paramcheck/internal/syntax"
)

// Kind classifies a scope.
type Kind int

const (
	ScopeGlobal       Kind = iota // program level
	ScopeFunction                 // function parameters and body
	ScopeFunctionName             // name of a named function expression
	ScopeBlock                    // braced block
	ScopeFor                      // for-in / for-of head
	ScopeCatch                    // catch parameter
	ScopeClass                    // class body
)

func (k Kind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeFunctionName:
		return "function-name"
	case ScopeBlock:
		return "block"
	case ScopeFor:
		return "for"
	case ScopeCatch:
		return "catch"
	case ScopeClass:
		return "class"
	default:
		return "unknown"
	}
}

// Scope is one lexical scope.
type Scope struct {
	Kind      Kind
	Node      syntax.NodeID // node that introduced the scope
	Parent    *Scope
	Children  []*Scope
	Variables []*Variable // in definition order

	// Through holds references that left this scope unresolved. Only the
	// global scope's list is populated.
	Through []*Reference

	byName map[string]*Variable
}

func newScope(kind Kind, node syntax.NodeID, parent *Scope) *Scope {
	s := &Scope{
		Kind:   kind,
		Node:   node,
		Parent: parent,
		byName: make(map[string]*Variable),
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// define adds a definition for name, reusing an existing variable of the
// same name in this scope.
func (s *Scope) define(name string, def Definition) *Variable {
	if v, ok := s.byName[name]; ok {
		v.Defs = append(v.Defs, def)
		return v
	}
	v := &Variable{Name: name, Defs: []Definition{def}, Scope: s}
	s.byName[name] = v
	s.Variables = append(s.Variables, v)
	return v
}

// Lookup resolves name by walking the parent chain. Returns nil if no scope
// declares it.
func (s *Scope) Lookup(name string) *Variable {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.byName[name]; ok {
			return v
		}
	}
	return nil
}

// LookupLocal resolves name in this scope only.
func (s *Scope) LookupLocal(name string) *Variable {
	return s.byName[name]
}

// variableScope returns the nearest scope that hoists var declarations.
func (s *Scope) variableScope() *Scope {
	scope := s
	for scope.Kind != ScopeFunction && scope.Kind != ScopeGlobal && scope.Parent != nil {
		scope = scope.Parent
	}
	return scope
}
