package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/IvanShishkin/sleuth/internal/config"
	"github.com/IvanShishkin/sleuth/internal/filesystem"
	"github.com/IvanShishkin/sleuth/internal/heuristic"
	"github.com/IvanShishkin/sleuth/internal/signatures"
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// ErrRootNotFound is returned when the scan target does not exist
	ErrRootNotFound = errors.New("scan target does not exist")
	// ErrRootNotDir is returned when the scan target is not a directory
	ErrRootNotDir = errors.New("scan target is not a directory")
	// ErrRootUnlistable is returned when the scan target cannot be listed
	ErrRootUnlistable = errors.New("scan target cannot be listed")
)

// ProgressCallback is called once for every inspected file, in walk order.
// The walk waits for it to return.
type ProgressCallback func(record *models.FileRecord)

// Scanner walks a directory tree, inspects and classifies every file
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	fs               afero.Fs
	catalog          *signatures.Catalog
	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance working on the OS filesystem
func NewScanner(cfg *config.Config, logger *zap.Logger, catalog *signatures.Catalog) *Scanner {
	if catalog == nil {
		catalog = signatures.DefaultCatalog()
	}
	return &Scanner{
		config:  cfg,
		logger:  logger,
		fs:      afero.NewOsFs(),
		catalog: catalog,
	}
}

// SetFS replaces the filesystem the scanner reads from
func (s *Scanner) SetFS(fsys afero.Fs) {
	s.fs = fsys
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// Scan scans root and returns the records in walk order
func (s *Scanner) Scan(root string) (*models.ScanResult, error) {
	return s.ScanContext(context.Background(), root)
}

// ScanContext is Scan with cooperative cancellation. A cancelled scan returns
// the context error and no result. The result keeps target as given; record
// paths are absolute.
func (s *Scanner) ScanContext(ctx context.Context, target string) (*models.ScanResult, error) {
	root, err := s.checkRoot(target)
	if err != nil {
		return nil, err
	}

	workers := s.config.GetWorkers()
	s.logger.Info("Starting scan",
		zap.String("path", root),
		zap.Int("workers", workers))

	run := &scanRun{
		scanner:    s,
		classifier: heuristic.NewClassifier(s.logger),
		inspector:  filesystem.NewInspector(s.fs, s.catalog, s.config.HeaderSize),
		result: &models.ScanResult{
			Root:        target,
			StartTime:   time.Now(),
			Files:       []*models.FileRecord{},
			WorkersUsed: workers,
		},
	}

	walker := filesystem.NewWalker(s.fs, s.logger, s.config.Exclude)

	if workers == 1 {
		err = run.scanSequential(ctx, walker, root)
	} else {
		err = run.scanParallel(ctx, walker, root, workers)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := run.result
	result.Suspicious = run.classifier.Suspicious()
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.logger.Info("Scan completed",
		zap.Duration("duration", result.Duration),
		zap.Int("files", len(result.Files)),
		zap.Int("suspicious", len(result.Suspicious)),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}

// checkRoot verifies the scan target is a listable directory and returns its
// absolute path
func (s *Scanner) checkRoot(root string) (string, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	info, err := s.fs.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrRootUnlistable, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}
	if _, err := afero.ReadDir(s.fs, root); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRootUnlistable, root, err)
	}
	return root, nil
}

// scanRun holds the state of a single scan
type scanRun struct {
	scanner    *Scanner
	classifier *heuristic.Classifier
	inspector  *filesystem.Inspector
	result     *models.ScanResult
}

// scanSequential inspects every file on the walking goroutine
func (r *scanRun) scanSequential(ctx context.Context, walker *filesystem.Walker, root string) error {
	return walker.Walk(root, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := r.inspector.Inspect(path)
		r.handle(path, record, err)
		return nil
	})
}

// inspection is the outcome of inspecting the file with walk index seq
type inspection struct {
	seq    int
	path   string
	record *models.FileRecord
	err    error
}

// scanParallel inspects files on a worker pool. A single collector restores
// walk order before classifying, so results match a sequential run.
func (r *scanRun) scanParallel(ctx context.Context, walker *filesystem.Walker, root string, workers int) error {
	// Create channels
	jobs := make(chan inspection, workers*2)
	results := make(chan inspection, workers*2)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(ctx, &wg, jobs, results)
	}

	// Start results collector
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go r.collect(&collectWg, results)

	// Walk filesystem and send files to workers
	seq := 0
	walkErr := walker.Walk(root, func(path string) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case jobs <- inspection{seq: seq, path: path}:
			seq++
			return nil
		}
	})

	// Close channels and wait
	close(jobs)
	wg.Wait()
	close(results)
	collectWg.Wait()

	return walkErr
}

// worker inspects files from the channel
func (r *scanRun) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan inspection, results chan<- inspection) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			job.err = ctx.Err()
		} else {
			job.record, job.err = r.inspector.Inspect(job.path)
		}
		results <- job
	}
}

// collect reorders inspections by walk index and handles them one at a time
func (r *scanRun) collect(wg *sync.WaitGroup, results <-chan inspection) {
	defer wg.Done()

	pending := make(map[int]inspection)
	next := 0

	for res := range results {
		pending[res.seq] = res
		for {
			item, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			r.handle(item.path, item.record, item.err)
		}
	}
}

// handle accumulates one inspection outcome. Only called from one goroutine at a time.
func (r *scanRun) handle(path string, record *models.FileRecord, err error) {
	logger := r.scanner.logger

	if err != nil {
		switch {
		case errors.Is(err, filesystem.ErrPermission):
			logger.Warn("Permission denied", zap.String("path", path))
			r.result.Warnings = append(r.result.Warnings, models.Warning{
				Path:    path,
				Message: "permission denied",
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// scan is being abandoned
		default:
			logger.Debug("Skipping file", zap.String("path", path), zap.Error(err))
			r.result.Skipped++
		}
		return
	}

	r.classifier.Classify(record)
	r.result.Files = append(r.result.Files, record)

	if cb := r.scanner.progressCallback; cb != nil {
		cb(record)
	}
}
