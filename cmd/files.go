package cmd

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"paramcheck/internal/config"
)

// collectSourceFiles finds the files under root accepted by filter. A root
// naming a single file is returned as is when its language is supported.
func collectSourceFiles(root string, filter *config.FileFilter, log zerolog.Logger) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filter.Match(filepath.Base(root)) || filter.Match(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !filter.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if filter.TooLarge(info.Size()) {
			log.Debug().Str("file", path).Int64("bytes", info.Size()).Msg("skipping large file")
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}
