package filesystem

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Walker walks a directory tree and reports every non-directory entry.
// Symbolic links are reported as entries and never descended into.
type Walker struct {
	fs      afero.Fs
	logger  *zap.Logger
	exclude []string
}

// NewWalker creates a new filesystem walker. Exclude patterns are doublestar
// globs matched against slash separated paths relative to the walk root.
func NewWalker(fsys afero.Fs, logger *zap.Logger, exclude []string) *Walker {
	patterns := make([]string, 0, len(exclude))
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			logger.Warn("Ignoring invalid exclude pattern", zap.String("pattern", p))
			continue
		}
		patterns = append(patterns, p)
	}

	return &Walker{
		fs:      fsys,
		logger:  logger,
		exclude: patterns,
	}
}

// Walk recursively walks the directory tree. Unreadable subtrees are skipped;
// only an error returned by callback stops the walk.
func (w *Walker) Walk(root string, callback func(path string) error) error {
	return afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Debug("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil // Continue walking
		}

		if path != root && w.shouldExclude(root, path) {
			if info.IsDir() {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		return callback(path)
	})
}

// shouldExclude checks the path against the exclude patterns
func (w *Walker) shouldExclude(root, path string) bool {
	if len(w.exclude) == 0 {
		return false
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)
	name := filepath.Base(path)

	for _, pattern := range w.exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
