package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type nowFunc func() time.Time

var defaultNow nowFunc = time.Now

// RecentFiles lists regular files under root modified within the last days.
// Hidden directories are not descended into and unreadable entries are skipped.
// An empty root means the user's home directory.
func (c *Collector) RecentFiles(root string, days int) []models.RecentFile {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			c.logger.Warn("Cannot determine home directory", zap.Error(err))
			return []models.RecentFile{}
		}
		root = home
	}

	cutoff := c.now().Add(-time.Duration(days) * 24 * time.Hour)
	c.logger.Info("Scanning for recent files",
		zap.String("root", root),
		zap.Int("days", days))

	recent := []models.RecentFile{}
	_ = afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if info.ModTime().After(cutoff) {
			recent = append(recent, models.RecentFile{
				Path:     path,
				Modified: models.EpochSeconds(info.ModTime()),
			})
		}
		return nil
	})

	c.logger.Info("Recent files collected", zap.Int("count", len(recent)))
	return recent
}
