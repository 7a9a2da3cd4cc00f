package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"paramcheck/internal/config"
)

const defaultDebounce = 500 * time.Millisecond

type FileWatcher struct {
	watcher     *fsnotify.Watcher
	filter      *config.FileFilter
	roots       []string
	watchedDirs map[string]bool
	mu          sync.Mutex
	debouncer   *debouncer
	log         zerolog.Logger
}

// FileChangeEvent is the latest change seen for one path.
type FileChangeEvent struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// FileChangeHandler receives the sorted paths changed during one quiet
// period.
type FileChangeHandler func([]string) error

func NewFileWatcher(cfg *config.Config, log zerolog.Logger) (*FileWatcher, error) {
	return newFileWatcher(cfg, log, defaultDebounce)
}

func newFileWatcher(cfg *config.Config, log zerolog.Logger, debounce time.Duration) (*FileWatcher, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	filter, err := cfg.Files.Compile()
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw := &FileWatcher{
		watcher:     watcher,
		filter:      filter,
		watchedDirs: make(map[string]bool),
		debouncer:   newDebouncer(debounce, log),
		log:         log,
	}
	return fw, nil
}

func (fw *FileWatcher) Watch(paths []string, handler FileChangeHandler) error {
	for _, path := range paths {
		root, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		fw.roots = append(fw.roots, root)
		if err := fw.addPath(root); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	go fw.eventLoop(handler)
	return nil
}

// addPath watches dir and every directory below it that the filter keeps.
func (fw *FileWatcher) addPath(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.shouldSkipDir(path) {
			return filepath.SkipDir
		}

		fw.mu.Lock()
		defer fw.mu.Unlock()
		if fw.watchedDirs[path] {
			return nil
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		fw.watchedDirs[path] = true
		return nil
	})
}

func (fw *FileWatcher) eventLoop(handler FileChangeHandler) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, handler)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Error().Err(err).Msg("file watcher error")
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, handler FileChangeHandler) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addPath(event.Name); err != nil {
				fw.log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
			}
			return
		}
	}
	// Removed files have nothing left to analyse.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !fw.isSourceFile(event.Name) || fw.shouldSkipFile(event.Name) {
		return
	}

	fw.log.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("change queued")
	fw.debouncer.add(FileChangeEvent{Path: event.Name, Op: event.Op, At: time.Now()}, handler)
}

// relPath returns path relative to the watch root containing it.
func (fw *FileWatcher) relPath(path string) (string, bool) {
	for _, root := range fw.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rel, true
		}
	}
	return "", false
}

func (fw *FileWatcher) isSourceFile(path string) bool {
	rel, ok := fw.relPath(path)
	return ok && fw.filter.Match(rel)
}

func (fw *FileWatcher) shouldSkipDir(path string) bool {
	rel, ok := fw.relPath(path)
	if !ok {
		return false
	}
	if rel != "." && strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return fw.filter.SkipDir(rel)
}

// editorSuffixes mark swap, backup and temporary files written by editors.
var editorSuffixes = []string{".tmp", "~", ".swp", ".swo", ".swx"}

func (fw *FileWatcher) shouldSkipFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, suffix := range editorSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) Close() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) GetWatchedPaths() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	paths := make([]string, 0, len(fw.watchedDirs))
	for path := range fw.watchedDirs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
