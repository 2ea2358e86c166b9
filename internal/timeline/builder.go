package timeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// TimeFormat is the layout of the formatted_time field
const TimeFormat = "2006-01-02 15:04:05"

// Builder turns scan records into a chronological event list
type Builder struct {
	logger *zap.Logger
	fs     afero.Fs
}

// NewBuilder creates a timeline builder that exports to the OS filesystem
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{
		logger: logger,
		fs:     afero.NewOsFs(),
	}
}

// SetFS replaces the filesystem used for export
func (b *Builder) SetFS(fsys afero.Fs) {
	b.fs = fsys
}

// Build emits created, modified and accessed events for every record and
// sorts them by timestamp. Equal timestamps keep generation order.
func (b *Builder) Build(records []*models.FileRecord) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(records)*3)
	for _, record := range records {
		events = append(events,
			newEvent(record.Created, models.EventCreated, record.Path),
			newEvent(record.Modified, models.EventModified, record.Path),
			newEvent(record.Accessed, models.EventAccessed, record.Path),
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	b.logger.Info("Timeline built", zap.Int("events", len(events)))
	return events
}

// ExportJSON writes the events as an indented JSON array. A failed export
// leaves the events untouched.
func (b *Builder) ExportJSON(events []models.TimelineEvent, path string) error {
	if events == nil {
		events = []models.TimelineEvent{}
	}

	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		b.logger.Error("Failed to export timeline", zap.Error(err))
		return fmt.Errorf("failed to encode timeline: %w", err)
	}

	if err := afero.WriteFile(b.fs, path, data, 0644); err != nil {
		b.logger.Error("Failed to export timeline", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to write timeline: %w", err)
	}

	b.logger.Info("Timeline exported", zap.String("path", path))
	return nil
}

func newEvent(ts float64, kind models.EventKind, path string) models.TimelineEvent {
	return models.TimelineEvent{
		Timestamp:     ts,
		FormattedTime: models.EpochTime(ts).Local().Format(TimeFormat),
		Kind:          kind,
		File:          path,
	}
}
