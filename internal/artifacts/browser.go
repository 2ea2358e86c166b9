package artifacts

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/IvanShishkin/sleuth/internal/filesystem"
	"github.com/IvanShishkin/sleuth/pkg/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BrowserChrome is the browser label of Chrome history entries
const BrowserChrome = "Chrome"

const historyQuery = `
	SELECT url, title, last_visit_time
	FROM urls
	ORDER BY last_visit_time DESC
	LIMIT ?
`

// BrowserHistory reads the most recent limit entries of a Chrome History
// database. The database is copied first so a running browser's lock does
// not block the read. A missing database yields an empty list.
func (c *Collector) BrowserHistory(path string, limit int) []models.HistoryEntry {
	entries := []models.HistoryEntry{}

	if path == "" {
		c.logger.Warn("Chrome history path not configured")
		return entries
	}
	if _, err := os.Stat(path); err != nil {
		c.logger.Warn("Chrome history file not found", zap.String("path", path))
		return entries
	}

	rows, err := c.readHistory(path, limit)
	if err != nil {
		c.logger.Error("Failed to extract Chrome history", zap.String("path", path), zap.Error(err))
		return entries
	}

	c.logger.Info("Parsed Chrome history", zap.Int("entries", len(rows)))
	return append(entries, rows...)
}

func (c *Collector) readHistory(path string, limit int) ([]models.HistoryEntry, error) {
	tmp, err := os.CreateTemp("", "sleuth-history-*.db")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	osFs := afero.NewOsFs()
	if err := filesystem.CopyFile(osFs, osFs, path, tmpPath, time.Time{}); err != nil {
		return nil, fmt.Errorf("failed to copy history database: %w", err)
	}

	db, err := sql.Open("sqlite3", tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(historyQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			url       string
			title     sql.NullString
			visitTime int64
		)
		if err := rows.Scan(&url, &title, &visitTime); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, models.HistoryEntry{
			Browser:   BrowserChrome,
			URL:       url,
			Title:     title.String,
			Timestamp: visitTime,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return entries, nil
}
