package models

import "time"

// Warning is a non-fatal problem surfaced during a scan
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ScanResult contains the records of one scan in walk-encounter order
type ScanResult struct {
	Root      string        `json:"scan_target"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Files      []*FileRecord `json:"all_files"`
	Suspicious []*FileRecord `json:"suspicious_files"` // Each flagged record appears once
	Warnings   []Warning     `json:"warnings,omitempty"`

	Skipped     int `json:"skipped"` // Entries dropped silently (vanished, special files)
	WorkersUsed int `json:"workers_used"`
}

// TotalSize returns the sum of all record sizes
func (r *ScanResult) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}
