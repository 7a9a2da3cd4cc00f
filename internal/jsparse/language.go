package jsparse

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language is a source dialect the front end can parse.
type Language int

const (
	JavaScript Language = iota
	TypeScript
	TSX
)

func (l Language) String() string {
	switch l {
	case JavaScript:
		return "javascript"
	case TypeScript:
		return "typescript"
	case TSX:
		return "tsx"
	default:
		return "unknown"
	}
}

var extensions = map[string]Language{
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// LanguageForPath picks a language from a file extension.
func LanguageForPath(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// SupportedExtensions returns every recognised extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsDeclarationFile reports whether path is a TypeScript declaration file,
// which has no function bodies to check.
func IsDeclarationFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".d.ts") || strings.HasSuffix(base, ".d.mts") || strings.HasSuffix(base, ".d.cts")
}

func grammar(lang Language) *sitter.Language {
	switch lang {
	case TypeScript:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case TSX:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	default:
		return sitter.NewLanguage(tree_sitter_javascript.Language())
	}
}

// parserPool recycles tree-sitter parsers for one grammar. Safe for
// concurrent use.
type parserPool struct {
	lang *sitter.Language
	pool sync.Pool
}

func newParserPool(lang *sitter.Language) *parserPool {
	p := &parserPool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			_ = sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

func (p *parserPool) get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	_ = sp.SetLanguage(p.lang)
	return sp
}

// put resets sp so that no parse state outlives the lease.
func (p *parserPool) put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.pool.Put(sp)
}
