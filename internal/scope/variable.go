package scope

import "paramcheck/internal/syntax"

// DefKind classifies how a variable was introduced.
type DefKind int

const (
	DefParameter DefKind = iota
	DefVariable
	DefFunctionName
	DefClassName
	DefCatchParam
	DefImport
)

func (k DefKind) String() string {
	switch k {
	case DefParameter:
		return "parameter"
	case DefVariable:
		return "variable"
	case DefFunctionName:
		return "function-name"
	case DefClassName:
		return "class-name"
	case DefCatchParam:
		return "catch-param"
	case DefImport:
		return "import"
	default:
		return "unknown"
	}
}

// Definition records one binding site of a variable.
type Definition struct {
	Kind DefKind
	Name syntax.NodeID // the binding identifier
	Node syntax.NodeID // the function, declarator, class, catch or import
}

// Variable is a named binding with every reference that resolved to it.
type Variable struct {
	Name       string
	Defs       []Definition
	References []*Reference
	Scope      *Scope
}

// IsParameter reports whether the variable was first defined as a function
// parameter.
func (v *Variable) IsParameter() bool {
	return len(v.Defs) > 0 && v.Defs[0].Kind == DefParameter
}

// Flags describe what a reference does to its variable.
type Flags uint8

const (
	Read Flags = 1 << iota
	Write
	ReadWrite = Read | Write
)

// Reference is one occurrence of an identifier that names a variable.
type Reference struct {
	Identifier syntax.NodeID
	Flags      Flags

	// Init marks the write performed by a declaration's own initializer or a
	// parameter default.
	Init bool

	From     *Scope    // scope the occurrence appears in
	Resolved *Variable // nil while unresolved
}

func (r *Reference) IsRead() bool      { return r.Flags&Read != 0 }
func (r *Reference) IsWrite() bool     { return r.Flags&Write != 0 }
func (r *Reference) IsReadOnly() bool  { return r.Flags == Read }
func (r *Reference) IsWriteOnly() bool { return r.Flags == Write }
func (r *Reference) IsReadWrite() bool { return r.Flags == ReadWrite }
