package artifacts

import (
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Collector gathers host artifacts that live outside a scanned tree
type Collector struct {
	logger *zap.Logger
	fs     afero.Fs
	now    nowFunc
}

// NewCollector creates a collector working on the OS filesystem
func NewCollector(logger *zap.Logger) *Collector {
	return &Collector{
		logger: logger,
		fs:     afero.NewOsFs(),
		now:    defaultNow,
	}
}

// SetFS replaces the filesystem used by RecentFiles
func (c *Collector) SetFS(fsys afero.Fs) {
	c.fs = fsys
}

// Collect runs every collector and assembles the artifacts report.
// Collectors never fail the report; problems are logged.
func (c *Collector) Collect(recentRoot string, recentDays int, historyPath string, historyLimit int) *models.ArtifactsReport {
	report := &models.ArtifactsReport{
		SystemInfo:     c.SystemInfo(),
		RecentFiles:    c.RecentFiles(recentRoot, recentDays),
		BrowserHistory: c.BrowserHistory(historyPath, historyLimit),
	}
	return report
}
