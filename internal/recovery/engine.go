package recovery

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/sleuth/internal/filesystem"
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Engine copies scanned files into a recovery directory
type Engine struct {
	outputDir string
	logger    *zap.Logger
	srcFs     afero.Fs
	dstFs     afero.Fs
}

// NewEngine creates a recovery engine working on the OS filesystem
func NewEngine(outputDir string, logger *zap.Logger) *Engine {
	return &Engine{
		outputDir: outputDir,
		logger:    logger,
		srcFs:     afero.NewOsFs(),
		dstFs:     afero.NewOsFs(),
	}
}

// SetFS replaces the source and destination filesystems
func (e *Engine) SetFS(src, dst afero.Fs) {
	e.srcFs = src
	e.dstFs = dst
}

// OutputDir returns the recovery directory
func (e *Engine) OutputDir() string {
	return e.outputDir
}

// ParseFilter splits a comma separated extension list. Case is kept as given.
// An empty list means no filter.
func ParseFilter(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// Recover copies the records whose effective type is in filter (all records
// when filter is empty) and returns the number of files copied. Copy failures
// are logged and skipped; only failing to create the output directory is an error.
func (e *Engine) Recover(records []*models.FileRecord, filter []string) (int, error) {
	if err := e.dstFs.MkdirAll(e.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.logger.Info("Starting recovery",
		zap.String("output", e.outputDir),
		zap.Strings("filter", filter),
		zap.Int("candidates", len(records)))

	allowed := make(map[string]bool, len(filter))
	for _, ext := range filter {
		allowed[ext] = true
	}

	recovered := 0
	for _, record := range records {
		if len(allowed) > 0 && !allowed[record.EffectiveType()] {
			continue
		}

		dest, err := e.destination(record)
		if err != nil {
			e.logger.Error("Failed to recover file",
				zap.String("path", record.Path),
				zap.Error(err))
			continue
		}

		atime := models.EpochTime(record.Accessed)
		if err := filesystem.CopyFile(e.srcFs, e.dstFs, record.Path, dest, atime); err != nil {
			e.logger.Error("Failed to recover file",
				zap.String("path", record.Path),
				zap.Error(err))
			continue
		}

		recovered++
		e.logger.Info("Recovered file",
			zap.String("path", record.Path),
			zap.String("dest", dest))
	}

	e.logger.Info("Recovery complete", zap.Int("recovered", recovered))
	return recovered, nil
}

// destination returns outputDir/basename, or basename_<created>.ext when that
// name is taken. Two same-named files created in the same second still collide.
func (e *Engine) destination(record *models.FileRecord) (string, error) {
	name := filepath.Base(record.Path)
	dest := filepath.Join(e.outputDir, name)

	exists, err := afero.Exists(e.dstFs, dest)
	if err != nil {
		return "", err
	}
	if !exists {
		return dest, nil
	}

	stem, ext := filesystem.SplitExt(name)
	return filepath.Join(e.outputDir, fmt.Sprintf("%s_%d%s", stem, int64(record.Created), ext)), nil
}
