package jsparse

import (
	"strings"

	"paramcheck/internal/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeOnly lists TypeScript node kinds that carry no runtime behaviour and
// are dropped during conversion.
var typeOnly = map[string]bool{
	"type_annotation":           true,
	"type_arguments":            true,
	"type_parameters":           true,
	"type_identifier":           true,
	"predefined_type":           true,
	"generic_type":              true,
	"nested_type_identifier":    true,
	"object_type":               true,
	"union_type":                true,
	"intersection_type":         true,
	"array_type":                true,
	"tuple_type":                true,
	"function_type":             true,
	"constructor_type":          true,
	"literal_type":              true,
	"type_query":                true,
	"index_type_query":          true,
	"lookup_type":               true,
	"conditional_type":          true,
	"parenthesized_type":        true,
	"readonly_type":             true,
	"template_literal_type":     true,
	"infer_type":                true,
	"asserts_annotation":        true,
	"type_predicate_annotation": true,
	"opting_type_annotation":    true,
	"omitting_type_annotation":  true,
	"adding_type_annotation":    true,
	"accessibility_modifier":    true,
	"override_modifier":         true,
}

// declarationOnly lists TypeScript declarations with no runtime body.
var declarationOnly = map[string]bool{
	"interface_declaration":     true,
	"type_alias_declaration":    true,
	"ambient_declaration":       true,
	"function_signature":        true,
	"abstract_method_signature": true,
	"index_signature":           true,
	"method_signature":          true,
	"property_signature":        true,
	"import_alias":              true,
}

type converter struct {
	b   *syntax.Builder
	src []byte
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return syntax.Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Utf8Text(c.src)
}

// named returns the named children of n that survive conversion.
func named(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.IsExtra() || child.Kind() == "comment" || typeOnly[child.Kind()] {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if kids := named(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

func isStatement(kind string) bool {
	return strings.HasSuffix(kind, "_statement") || strings.HasSuffix(kind, "_declaration")
}

func (c *converter) leaf(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	return c.b.Add(parent, c.span(n), &syntax.Other{})
}

func (c *converter) ident(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	return c.b.Add(parent, c.span(n), &syntax.Ident{Name: c.text(n)})
}

func (c *converter) nodes(ns []*sitter.Node, parent syntax.NodeID) []syntax.NodeID {
	ids := make([]syntax.NodeID, 0, len(ns))
	for _, n := range ns {
		if id := c.node(n, parent); id != syntax.NoNode {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *converter) program(n *sitter.Node) syntax.NodeID {
	id := c.b.Open(syntax.NoNode, c.span(n))
	c.b.Fill(id, &syntax.Program{Body: c.nodes(named(n), id)})
	return id
}

// node converts n in expression or statement position.
func (c *converter) node(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	if n == nil {
		return syntax.NoNode
	}
	kind := n.Kind()
	switch kind {
	case "parenthesized_expression", "non_null_expression":
		if inner := firstNamed(n); inner != nil {
			return c.node(inner, parent)
		}
		return c.leaf(n, parent)
	case "identifier", "shorthand_property_identifier":
		if kind == "shorthand_property_identifier" {
			return c.shorthand(n, parent)
		}
		return c.ident(n, parent)
	case "property_identifier", "private_property_identifier":
		return c.b.Add(parent, c.span(n), &syntax.PropName{Name: c.text(n)})
	case "statement_block":
		id := c.b.Open(parent, c.span(n))
		c.b.Fill(id, &syntax.Block{Body: c.nodes(named(n), id)})
		return id
	case "function_declaration", "generator_function_declaration":
		return c.function(n, parent, syntax.FormDeclaration)
	case "function_expression", "function", "generator_function":
		return c.function(n, parent, syntax.FormExpression)
	case "arrow_function":
		return c.function(n, parent, syntax.FormArrow)
	case "method_definition":
		return c.method(n, parent)
	case "variable_declaration":
		return c.varDecl(n, parent, syntax.DeclVar)
	case "lexical_declaration":
		return c.varDecl(n, parent, c.declKind(n))
	case "for_in_statement":
		return c.forIn(n, parent)
	case "for_statement", "switch_statement":
		id := c.b.Open(parent, c.span(n))
		c.b.Fill(id, &syntax.Statement{Children: c.nodes(named(n), id), Scoped: true})
		return id
	case "catch_clause":
		id := c.b.Open(parent, c.span(n))
		param := c.pattern(n.ChildByFieldName("parameter"), id)
		body := c.node(n.ChildByFieldName("body"), id)
		c.b.Fill(id, &syntax.CatchClause{Param: param, Body: body})
		return id
	case "class_declaration", "abstract_class_declaration":
		return c.class(n, parent, true)
	case "class":
		return c.class(n, parent, false)
	case "import_statement":
		return c.importDecl(n, parent)
	case "assignment_expression":
		id := c.b.Open(parent, c.span(n))
		target := c.pattern(n.ChildByFieldName("left"), id)
		value := c.node(n.ChildByFieldName("right"), id)
		c.b.Fill(id, &syntax.Assign{Op: "=", Target: target, Value: value})
		return id
	case "augmented_assignment_expression":
		id := c.b.Open(parent, c.span(n))
		op := "op="
		if o := n.ChildByFieldName("operator"); o != nil {
			op = c.text(o)
		}
		target := c.node(n.ChildByFieldName("left"), id)
		value := c.node(n.ChildByFieldName("right"), id)
		c.b.Fill(id, &syntax.Assign{Op: op, Target: target, Value: value})
		return id
	case "update_expression":
		id := c.b.Open(parent, c.span(n))
		op := ""
		if o := n.ChildByFieldName("operator"); o != nil {
			op = c.text(o)
		}
		prefix := n.ChildCount() > 0 && !n.Child(0).IsNamed()
		arg := c.node(n.ChildByFieldName("argument"), id)
		c.b.Fill(id, &syntax.Update{Op: op, Prefix: prefix, Arg: arg})
		return id
	case "unary_expression":
		id := c.b.Open(parent, c.span(n))
		op := ""
		if o := n.ChildByFieldName("operator"); o != nil {
			op = c.text(o)
		}
		arg := c.node(n.ChildByFieldName("argument"), id)
		c.b.Fill(id, &syntax.Unary{Op: op, Arg: arg})
		return id
	case "call_expression":
		return c.call(n, parent)
	case "member_expression":
		id := c.b.Open(parent, c.span(n))
		obj := c.node(n.ChildByFieldName("object"), id)
		prop := c.node(n.ChildByFieldName("property"), id)
		c.b.Fill(id, &syntax.Member{Object: obj, Property: prop})
		return id
	case "subscript_expression":
		id := c.b.Open(parent, c.span(n))
		obj := c.node(n.ChildByFieldName("object"), id)
		index := c.node(n.ChildByFieldName("index"), id)
		c.b.Fill(id, &syntax.Member{Object: obj, Property: index, Computed: true})
		return id
	case "pair":
		id := c.b.Open(parent, c.span(n))
		key, computed := c.key(n.ChildByFieldName("key"), id)
		value := c.node(n.ChildByFieldName("value"), id)
		c.b.Fill(id, &syntax.Property{Key: key, Value: value, Computed: computed})
		return id
	case "field_definition", "public_field_definition":
		return c.field(n, parent)
	}

	if declarationOnly[kind] {
		return c.b.Add(parent, c.span(n), &syntax.Statement{})
	}
	id := c.b.Open(parent, c.span(n))
	children := c.nodes(named(n), id)
	if isStatement(kind) {
		c.b.Fill(id, &syntax.Statement{Children: children})
	} else {
		c.b.Fill(id, &syntax.Other{Children: children})
	}
	return id
}

// shorthand converts `{a}` as a property whose value is the identifier a.
func (c *converter) shorthand(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	value := c.ident(n, id)
	c.b.Fill(id, &syntax.Property{Key: syntax.NoNode, Value: value})
	return id
}

// key converts a property key; computed keys yield their inner expression.
func (c *converter) key(n *sitter.Node, parent syntax.NodeID) (syntax.NodeID, bool) {
	if n == nil {
		return syntax.NoNode, false
	}
	switch n.Kind() {
	case "computed_property_name":
		if inner := firstNamed(n); inner != nil {
			return c.node(inner, parent), true
		}
		return c.leaf(n, parent), true
	case "property_identifier", "private_property_identifier", "identifier":
		return c.b.Add(parent, c.span(n), &syntax.PropName{Name: c.text(n)}), false
	default:
		return c.node(n, parent), false
	}
}

func (c *converter) function(n *sitter.Node, parent syntax.NodeID, form syntax.FuncForm) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	fn := &syntax.Function{Form: form, Name: syntax.NoNode, Body: syntax.NoNode}

	if name := n.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
		fn.Name = c.ident(name, id)
	}
	if p := n.ChildByFieldName("parameter"); p != nil {
		fn.Params = append(fn.Params, c.pattern(p, id))
	}
	if ps := n.ChildByFieldName("parameters"); ps != nil {
		for _, p := range named(ps) {
			if pid := c.param(p, id); pid != syntax.NoNode {
				fn.Params = append(fn.Params, pid)
			}
		}
	}
	fn.Body = c.node(n.ChildByFieldName("body"), id)

	c.b.Fill(id, fn)
	return id
}

// method converts a class or object method into a property whose value is
// an anonymous function expression.
func (c *converter) method(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	key, computed := c.key(n.ChildByFieldName("name"), id)
	fn := c.function(n, id, syntax.FormExpression)
	c.b.Fill(id, &syntax.Property{Key: key, Value: fn, Computed: computed})
	return id
}

func (c *converter) field(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	keyNode := n.ChildByFieldName("property")
	if keyNode == nil {
		keyNode = n.ChildByFieldName("name")
	}
	key, computed := c.key(keyNode, id)
	value := c.node(n.ChildByFieldName("value"), id)
	c.b.Fill(id, &syntax.Property{Key: key, Value: value, Computed: computed})
	return id
}

// param converts one formal parameter, unwrapping TypeScript parameter
// wrappers.
func (c *converter) param(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	switch n.Kind() {
	case "required_parameter", "optional_parameter":
		pat := n.ChildByFieldName("pattern")
		value := n.ChildByFieldName("value")
		if value == nil {
			return c.pattern(pat, parent)
		}
		id := c.b.Open(parent, c.span(n))
		target := c.pattern(pat, id)
		def := c.node(value, id)
		c.b.Fill(id, &syntax.DefaultPattern{Target: target, Default: def})
		return id
	default:
		return c.pattern(n, parent)
	}
}

// pattern converts n in binding or assignment-target position. Object and
// array literals found there become patterns.
func (c *converter) pattern(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	if n == nil {
		return syntax.NoNode
	}
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return c.ident(n, parent)
	case "parenthesized_expression", "non_null_expression":
		if inner := firstNamed(n); inner != nil {
			return c.pattern(inner, parent)
		}
		return c.leaf(n, parent)
	case "object_pattern", "object":
		id := c.b.Open(parent, c.span(n))
		var props []syntax.NodeID
		for _, p := range named(n) {
			props = append(props, c.patternProperty(p, id))
		}
		c.b.Fill(id, &syntax.ObjectPattern{Props: props})
		return id
	case "array_pattern", "array":
		id := c.b.Open(parent, c.span(n))
		var elems []syntax.NodeID
		for _, e := range named(n) {
			elems = append(elems, c.pattern(e, id))
		}
		c.b.Fill(id, &syntax.ArrayPattern{Elems: elems})
		return id
	case "assignment_pattern", "assignment_expression":
		id := c.b.Open(parent, c.span(n))
		target := c.pattern(n.ChildByFieldName("left"), id)
		def := c.node(n.ChildByFieldName("right"), id)
		c.b.Fill(id, &syntax.DefaultPattern{Target: target, Default: def})
		return id
	case "rest_pattern", "spread_element":
		id := c.b.Open(parent, c.span(n))
		arg := c.pattern(firstNamed(n), id)
		c.b.Fill(id, &syntax.RestPattern{Arg: arg})
		return id
	default:
		return c.node(n, parent)
	}
}

func (c *converter) patternProperty(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	switch n.Kind() {
	case "pair_pattern", "pair":
		id := c.b.Open(parent, c.span(n))
		key, computed := c.key(n.ChildByFieldName("key"), id)
		value := c.pattern(n.ChildByFieldName("value"), id)
		c.b.Fill(id, &syntax.Property{Key: key, Value: value, Computed: computed})
		return id
	case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return c.shorthand(n, parent)
	case "object_assignment_pattern":
		id := c.b.Open(parent, c.span(n))
		def := c.b.Open(id, c.span(n))
		target := c.pattern(n.ChildByFieldName("left"), def)
		value := c.node(n.ChildByFieldName("right"), def)
		c.b.Fill(def, &syntax.DefaultPattern{Target: target, Default: value})
		c.b.Fill(id, &syntax.Property{Key: syntax.NoNode, Value: def})
		return id
	default:
		return c.pattern(n, parent)
	}
}

func (c *converter) declKind(n *sitter.Node) syntax.DeclKind {
	word := ""
	if k := n.ChildByFieldName("kind"); k != nil {
		word = c.text(k)
	} else if n.ChildCount() > 0 {
		word = c.text(n.Child(0))
	}
	switch word {
	case "let":
		return syntax.DeclLet
	case "const":
		return syntax.DeclConst
	default:
		return syntax.DeclVar
	}
}

func (c *converter) varDecl(n *sitter.Node, parent syntax.NodeID, decl syntax.DeclKind) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	var decls []syntax.NodeID
	for _, d := range named(n) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		did := c.b.Open(id, c.span(d))
		target := c.pattern(d.ChildByFieldName("name"), did)
		init := c.node(d.ChildByFieldName("value"), did)
		c.b.Fill(did, &syntax.Declarator{Target: target, Init: init})
		decls = append(decls, did)
	}
	c.b.Fill(id, &syntax.VarDecl{Decl: decl, Declarators: decls})
	return id
}

func (c *converter) forIn(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	leftNode := n.ChildByFieldName("left")

	left := syntax.NoNode
	if kind := n.ChildByFieldName("kind"); kind != nil && leftNode != nil {
		decl := syntax.DeclVar
		switch c.text(kind) {
		case "let":
			decl = syntax.DeclLet
		case "const":
			decl = syntax.DeclConst
		}
		left = c.b.Open(id, c.span(leftNode))
		did := c.b.Open(left, c.span(leftNode))
		target := c.pattern(leftNode, did)
		c.b.Fill(did, &syntax.Declarator{Target: target, Init: syntax.NoNode})
		c.b.Fill(left, &syntax.VarDecl{Decl: decl, Declarators: []syntax.NodeID{did}})
	} else {
		left = c.pattern(leftNode, id)
	}
	right := c.node(n.ChildByFieldName("right"), id)
	body := c.node(n.ChildByFieldName("body"), id)

	c.b.Fill(id, &syntax.ForIn{Left: left, Right: right, Body: body})
	return id
}

func (c *converter) call(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	callee := c.node(n.ChildByFieldName("function"), id)
	var args []syntax.NodeID
	if a := n.ChildByFieldName("arguments"); a != nil {
		if a.Kind() == "arguments" {
			args = c.nodes(named(a), id)
		} else {
			args = append(args, c.node(a, id))
		}
	}
	c.b.Fill(id, &syntax.Call{Callee: callee, Args: args})
	return id
}

// class converts a class. Declarations bind their name; the name of a class
// expression is dropped.
func (c *converter) class(n *sitter.Node, parent syntax.NodeID, declaration bool) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	name := syntax.NoNode
	if nm := n.ChildByFieldName("name"); declaration && nm != nil {
		name = c.ident(nm, id)
	}

	var body []syntax.NodeID
	for _, child := range named(n) {
		if child.Kind() == "class_heritage" {
			body = append(body, c.node(child, id))
		}
	}
	if b := n.ChildByFieldName("body"); b != nil {
		bid := c.b.Open(id, c.span(b))
		c.b.Fill(bid, &syntax.Other{Children: c.nodes(named(b), bid)})
		body = append(body, bid)
	}

	if declaration {
		c.b.Fill(id, &syntax.ClassDecl{Name: name, Body: body})
	} else {
		c.b.Fill(id, &syntax.Other{Children: body})
	}
	return id
}

func (c *converter) importDecl(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.b.Open(parent, c.span(n))
	var binds []syntax.NodeID

	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		switch n.Kind() {
		case "identifier":
			binds = append(binds, c.ident(n, id))
		case "import_specifier":
			local := n.ChildByFieldName("alias")
			if local == nil {
				local = n.ChildByFieldName("name")
			}
			if local != nil && local.Kind() == "identifier" {
				binds = append(binds, c.ident(local, id))
			}
		case "string":
		default:
			for _, child := range named(n) {
				collect(child)
			}
		}
	}
	for _, child := range named(n) {
		collect(child)
	}

	c.b.Fill(id, &syntax.ImportDecl{Bindings: binds})
	return id
}
