package syntax

// Kind tags every node variant. The upward walks in the rule engine switch on
// Kind rather than on concrete types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindBlock
	KindStatement
	KindForIn
	KindVarDecl
	KindClassDecl
	KindImportDecl
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindDeclarator
	KindCatchClause
	KindIdent
	KindPropName
	KindAssignment
	KindCompoundAssignment
	KindUpdate
	KindUnary
	KindCall
	KindMember
	KindProperty
	KindObjectPattern
	KindArrayPattern
	KindDefaultPattern
	KindRestPattern
	KindOther
)

var kindNames = [...]string{
	KindInvalid:             "Invalid",
	KindProgram:             "Program",
	KindBlock:               "Block",
	KindStatement:           "Statement",
	KindForIn:               "ForIn",
	KindVarDecl:             "VarDecl",
	KindClassDecl:           "ClassDecl",
	KindImportDecl:          "ImportDecl",
	KindFunctionDeclaration: "FunctionDeclaration",
	KindFunctionExpression:  "FunctionExpression",
	KindArrowFunction:       "ArrowFunction",
	KindDeclarator:          "Declarator",
	KindCatchClause:         "CatchClause",
	KindIdent:               "Ident",
	KindPropName:            "PropName",
	KindAssignment:          "Assignment",
	KindCompoundAssignment:  "CompoundAssignment",
	KindUpdate:              "Update",
	KindUnary:               "Unary",
	KindCall:                "Call",
	KindMember:              "Member",
	KindProperty:            "Property",
	KindObjectPattern:       "ObjectPattern",
	KindArrayPattern:        "ArrayPattern",
	KindDefaultPattern:      "DefaultPattern",
	KindRestPattern:         "RestPattern",
	KindOther:               "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Terminal reports whether k is a statement, declaration, function
// definition or the program root.
func (k Kind) Terminal() bool {
	switch k {
	case KindProgram,
		KindBlock,
		KindStatement,
		KindForIn,
		KindVarDecl,
		KindClassDecl,
		KindImportDecl,
		KindFunctionDeclaration,
		KindFunctionExpression,
		KindArrowFunction:
		return true
	default:
		return false
	}
}

// IsFunction reports whether k is one of the three function definition forms.
func (k Kind) IsFunction() bool {
	return k == KindFunctionDeclaration || k == KindFunctionExpression || k == KindArrowFunction
}

// IsPattern reports whether k is a destructuring pattern container.
func (k Kind) IsPattern() bool {
	switch k {
	case KindObjectPattern, KindArrayPattern, KindDefaultPattern, KindRestPattern:
		return true
	default:
		return false
	}
}
