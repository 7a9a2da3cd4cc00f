// Package paramreassign reports code that reassigns function parameters or,
// optionally, writes to properties reachable through them. The first
// parameter of a callback handed to a configured accumulator method such as
// reduce is exempt.
package paramreassign

import (
	"fmt"

	"paramcheck/internal/scope"
	"paramcheck/internal/syntax"
)

// MessageKind selects the message a Finding is reported with.
type MessageKind int

const (
	Rebinding MessageKind = iota
	PropertyMutation
)

func (k MessageKind) String() string {
	if k == PropertyMutation {
		return "property-mutation"
	}
	return "rebinding"
}

// Finding is one offending parameter reference.
type Finding struct {
	Identifier syntax.NodeID
	Kind       MessageKind
	Name       string

	// Function declares the parameter; the reference may sit in a nested
	// function.
	Function syntax.NodeID
}

func (f Finding) Message() string {
	if f.Kind == PropertyMutation {
		return fmt.Sprintf("Assignment to property of function parameter '%s'.", f.Name)
	}
	return fmt.Sprintf("Assignment to function parameter '%s'.", f.Name)
}

// ParameterSource yields the parameter variables of a function with their
// resolved references. *scope.Manager implements it.
type ParameterSource interface {
	Parameters(fn syntax.NodeID) ([]*scope.Variable, error)
}

// Scanner checks functions against one set of Options. It holds no state
// between calls and may be shared.
type Scanner struct {
	opts Options
}

func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

func (s *Scanner) Options() Options { return s.opts }

// Scan checks the parameters of the function fn. The tree must be complete:
// every identifier under fn needs its parent chain up to the program.
func (s *Scanner) Scan(t *syntax.Tree, params ParameterSource, fn syntax.NodeID) ([]Finding, error) {
	vars, err := params.Parameters(fn)
	if err != nil {
		return nil, err
	}
	if len(vars) > 0 && IsAccumulatorCallback(t, fn, s.opts.Accumulators) {
		vars = vars[1:]
	}

	var findings []Finding
	seen := make(map[syntax.NodeID]bool)
	for _, v := range vars {
		if !v.IsParameter() {
			continue
		}
		for _, ref := range v.References {
			class := Classify(ref)
			if class == ClassInit || seen[ref.Identifier] {
				continue
			}
			seen[ref.Identifier] = true

			switch {
			case class == ClassWrite:
				findings = append(findings, Finding{Identifier: ref.Identifier, Kind: Rebinding, Name: v.Name, Function: fn})
			case s.opts.Props:
				mutated, err := IsPropertyMutation(t, ref.Identifier)
				if err != nil {
					return nil, fmt.Errorf("checking parameter %q: %w", v.Name, err)
				}
				if mutated {
					findings = append(findings, Finding{Identifier: ref.Identifier, Kind: PropertyMutation, Name: v.Name, Function: fn})
				}
			}
		}
	}
	return findings, nil
}

// ScanTree scans every function in t, innermost first.
func (s *Scanner) ScanTree(t *syntax.Tree, params ParameterSource) ([]Finding, error) {
	var findings []Finding
	for _, fn := range syntax.Functions(t, t.Root()) {
		found, err := s.Scan(t, params, fn)
		if err != nil {
			return nil, fmt.Errorf("function at %s: %w", t.Span(fn), err)
		}
		findings = append(findings, found...)
	}
	return findings, nil
}

// Check resolves the scopes of t and scans every function in it.
func (s *Scanner) Check(t *syntax.Tree) ([]Finding, error) {
	m, err := scope.Analyze(t)
	if err != nil {
		return nil, err
	}
	return s.ScanTree(t, m)
}
