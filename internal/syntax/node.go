// Package syntax holds the language-neutral syntax tree the rule engine runs
// on. Nodes are stored in an arena owned by a Tree and refer to each other by
// NodeID; every node records the id of its enclosing node so that analyses
// can walk upward without holding pointers into the tree.
package syntax

// NodeID identifies a node inside one Tree.
type NodeID int32

// NoNode is the zero reference: the parent of the root, an absent optional
// child, or a hole in an array pattern.
const NoNode NodeID = -1

// Node is implemented by every variant in this file and nothing else.
type Node interface {
	Kind() Kind
	node()
}

// DeclKind distinguishes var, let and const declarations.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (d DeclKind) String() string {
	switch d {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// FuncForm distinguishes the three function definition forms.
type FuncForm uint8

const (
	FormDeclaration FuncForm = iota
	FormExpression
	FormArrow
)

type (
	Program struct {
		Body []NodeID
	}

	// Block is a braced statement list.
	Block struct {
		Body []NodeID
	}

	// Statement covers every statement without a dedicated variant. Scoped is
	// set for statements that open a lexical scope of their own (for, switch).
	Statement struct {
		Children []NodeID
		Scoped   bool
	}

	// ForIn is a for-in or for-of loop.
	ForIn struct {
		Left  NodeID
		Right NodeID
		Body  NodeID
	}

	VarDecl struct {
		Decl        DeclKind
		Declarators []NodeID
	}

	Declarator struct {
		Target NodeID
		Init   NodeID
	}

	ClassDecl struct {
		Name NodeID
		Body []NodeID
	}

	// ImportDecl lists the local binding identifiers an import introduces.
	ImportDecl struct {
		Bindings []NodeID
	}

	Function struct {
		Form   FuncForm
		Name   NodeID
		Params []NodeID
		Body   NodeID
	}

	CatchClause struct {
		Param NodeID
		Body  NodeID
	}

	// Ident is a name that may refer to a variable.
	Ident struct {
		Name string
	}

	// PropName is a non-computed property or key name. It never refers to a
	// variable.
	PropName struct {
		Name string
	}

	// Assign is a plain (Op "=") or compound assignment.
	Assign struct {
		Op     string
		Target NodeID
		Value  NodeID
	}

	Update struct {
		Op     string
		Prefix bool
		Arg    NodeID
	}

	Unary struct {
		Op  string
		Arg NodeID
	}

	Call struct {
		Callee NodeID
		Args   []NodeID
	}

	// Member is a property access. Computed accesses (x[k]) hold the key
	// expression in Property; others hold a PropName.
	Member struct {
		Object   NodeID
		Property NodeID
		Computed bool
	}

	// Property is a key/value entry of an object literal or object pattern.
	Property struct {
		Key      NodeID
		Value    NodeID
		Computed bool
	}

	ObjectPattern struct {
		Props []NodeID
	}

	ArrayPattern struct {
		Elems []NodeID
	}

	// DefaultPattern is a pattern with a default value: Target = Default.
	DefaultPattern struct {
		Target  NodeID
		Default NodeID
	}

	RestPattern struct {
		Arg NodeID
	}

	// Other is any expression with no bearing on the analyses.
	Other struct {
		Children []NodeID
	}
)

func (*Program) Kind() Kind        { return KindProgram }
func (*Block) Kind() Kind          { return KindBlock }
func (*Statement) Kind() Kind      { return KindStatement }
func (*ForIn) Kind() Kind          { return KindForIn }
func (*VarDecl) Kind() Kind        { return KindVarDecl }
func (*Declarator) Kind() Kind     { return KindDeclarator }
func (*ClassDecl) Kind() Kind      { return KindClassDecl }
func (*ImportDecl) Kind() Kind     { return KindImportDecl }
func (*CatchClause) Kind() Kind    { return KindCatchClause }
func (*Ident) Kind() Kind          { return KindIdent }
func (*PropName) Kind() Kind       { return KindPropName }
func (*Update) Kind() Kind         { return KindUpdate }
func (*Unary) Kind() Kind          { return KindUnary }
func (*Call) Kind() Kind           { return KindCall }
func (*Member) Kind() Kind         { return KindMember }
func (*Property) Kind() Kind       { return KindProperty }
func (*ObjectPattern) Kind() Kind  { return KindObjectPattern }
func (*ArrayPattern) Kind() Kind   { return KindArrayPattern }
func (*DefaultPattern) Kind() Kind { return KindDefaultPattern }
func (*RestPattern) Kind() Kind    { return KindRestPattern }
func (*Other) Kind() Kind          { return KindOther }

func (f *Function) Kind() Kind {
	switch f.Form {
	case FormExpression:
		return KindFunctionExpression
	case FormArrow:
		return KindArrowFunction
	default:
		return KindFunctionDeclaration
	}
}

func (a *Assign) Kind() Kind {
	if a.Op == "=" {
		return KindAssignment
	}
	return KindCompoundAssignment
}

func (*Program) node()        {}
func (*Block) node()          {}
func (*Statement) node()      {}
func (*ForIn) node()          {}
func (*VarDecl) node()        {}
func (*Declarator) node()     {}
func (*ClassDecl) node()      {}
func (*ImportDecl) node()     {}
func (*Function) node()       {}
func (*CatchClause) node()    {}
func (*Ident) node()          {}
func (*PropName) node()       {}
func (*Assign) node()         {}
func (*Update) node()         {}
func (*Unary) node()          {}
func (*Call) node()           {}
func (*Member) node()         {}
func (*Property) node()       {}
func (*ObjectPattern) node()  {}
func (*ArrayPattern) node()   {}
func (*DefaultPattern) node() {}
func (*RestPattern) node()    {}
func (*Other) node()          {}

// Children returns the direct children of n in source order, skipping
// NoNode slots.
func Children(n Node) []NodeID {
	var ids []NodeID
	add := func(xs ...NodeID) {
		for _, x := range xs {
			if x != NoNode {
				ids = append(ids, x)
			}
		}
	}
	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *Block:
		add(n.Body...)
	case *Statement:
		add(n.Children...)
	case *ForIn:
		add(n.Left, n.Right, n.Body)
	case *VarDecl:
		add(n.Declarators...)
	case *Declarator:
		add(n.Target, n.Init)
	case *ClassDecl:
		add(n.Name)
		add(n.Body...)
	case *ImportDecl:
		add(n.Bindings...)
	case *Function:
		add(n.Name)
		add(n.Params...)
		add(n.Body)
	case *CatchClause:
		add(n.Param, n.Body)
	case *Ident, *PropName:
	case *Assign:
		add(n.Target, n.Value)
	case *Update:
		add(n.Arg)
	case *Unary:
		add(n.Arg)
	case *Call:
		add(n.Callee)
		add(n.Args...)
	case *Member:
		add(n.Object, n.Property)
	case *Property:
		add(n.Key, n.Value)
	case *ObjectPattern:
		add(n.Props...)
	case *ArrayPattern:
		add(n.Elems...)
	case *DefaultPattern:
		add(n.Target, n.Default)
	case *RestPattern:
		add(n.Arg)
	case *Other:
		add(n.Children...)
	}
	return ids
}
