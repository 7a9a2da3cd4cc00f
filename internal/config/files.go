package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"paramcheck/internal/jsparse"
)

// FileFilter decides which files under a root are analysed. Patterns are
// matched against slash-separated paths relative to the root.
type FileFilter struct {
	include      []glob.Glob
	exclude      []glob.Glob
	includeTests bool
	includeDecls bool
	maxSize      int64
}

// Compile builds a FileFilter from the files section.
func (f FilesConfig) Compile() (*FileFilter, error) {
	ff := &FileFilter{
		includeTests: f.IncludeTests,
		includeDecls: f.IncludeDeclarations,
		maxSize:      int64(f.MaxFileSize) * 1024,
	}

	for _, p := range f.Include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		ff.include = append(ff.include, g)
	}

	for _, p := range f.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		ff.exclude = append(ff.exclude, g)
	}

	return ff, nil
}

// SkipDir reports whether a directory and everything below it is excluded.
func (f *FileFilter) SkipDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	return matchAny(f.exclude, rel) || matchAny(f.exclude, rel+"/")
}

// Match reports whether the file at rel should be analysed.
func (f *FileFilter) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if _, ok := jsparse.LanguageForPath(rel); !ok {
		return false
	}
	if !f.includeDecls && jsparse.IsDeclarationFile(rel) {
		return false
	}
	if !f.includeTests && IsTestFile(rel) {
		return false
	}
	if len(f.include) > 0 && !matchAny(f.include, rel) {
		return false
	}
	return !matchAny(f.exclude, rel)
}

// TooLarge reports whether a file of size bytes exceeds max_file_size. A
// zero limit disables the check.
func (f *FileFilter) TooLarge(size int64) bool {
	return f.maxSize > 0 && size > f.maxSize
}

// IsTestFile recognises the common JavaScript test layouts: *.test.*,
// *.spec.* and anything under __tests__.
func IsTestFile(rel string) bool {
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "__tests__/") || strings.Contains(rel, "/__tests__/") {
		return true
	}
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec")
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
