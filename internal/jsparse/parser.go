// Package jsparse turns JavaScript and TypeScript source into syntax trees
// using the tree-sitter grammars.
package jsparse

import (
	"errors"
	"fmt"

	"paramcheck/internal/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	ErrUnsupported = errors.New("unsupported source language")
	ErrSyntax      = errors.New("syntax error")
)

// SyntaxError locates the first parse error in a file. It matches ErrSyntax
// under errors.Is.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", ErrSyntax, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parser parses source files. One Parser may be shared by many goroutines.
type Parser struct {
	pools map[Language]*parserPool
}

func NewParser() *Parser {
	p := &Parser{pools: make(map[Language]*parserPool)}
	for _, lang := range []Language{JavaScript, TypeScript, TSX} {
		p.pools[lang] = newParserPool(grammar(lang))
	}
	return p
}

// Parse picks the language from path and parses src.
func (p *Parser) Parse(path string, src []byte) (*syntax.Tree, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return p.ParseLanguage(lang, src)
}

// ParseLanguage parses src as lang. Source containing syntax errors is
// rejected with ErrSyntax.
func (p *Parser) ParseLanguage(lang Language, src []byte) (*syntax.Tree, error) {
	pool, ok := p.pools[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, lang)
	}

	sp := pool.get()
	defer pool.put(sp)

	tree := sp.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrSyntax)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
		}
		return nil, ErrSyntax
	}

	c := &converter{b: syntax.NewBuilder(), src: src}
	id := c.program(root)
	out, err := c.b.Finish(id)
	if err != nil {
		return nil, fmt.Errorf("converting %s tree: %w", lang, err)
	}
	return out, nil
}

// firstError returns the first ERROR or MISSING node in source order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
