package models

import (
	"encoding/json"
	"math"
	"time"
)

// TypeID identifies a file format (e.g. "jpg", "zip"). The empty value means unknown.
type TypeID string

// MarshalJSON encodes an unknown type as null
func (t TypeID) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts null as unknown
func (t *TypeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TypeID(s)
	return nil
}

// FileRecord describes one inspected file
type FileRecord struct {
	Path         string  `json:"path"`               // Absolute file path
	Size         int64   `json:"size"`               // Size in bytes
	Created      float64 `json:"created"`            // Platform "created" time (ctime on unix), epoch seconds
	Modified     float64 `json:"modified"`           // Modification time, epoch seconds
	Accessed     float64 `json:"accessed"`           // Access time, epoch seconds
	ClaimedType  string  `json:"extension_claimed"`  // Lowercase extension from the file name
	DetectedType TypeID  `json:"extension_detected"` // Type from magic bytes, empty if unknown
	Suspicious   bool    `json:"suspicious"`
	Reason       string  `json:"reason,omitempty"` // Set together with Suspicious
}

// HasDetectedType reports whether a signature matched the header
func (f *FileRecord) HasDetectedType() bool {
	return f.DetectedType != ""
}

// EffectiveType returns the detected type if known, the claimed one otherwise
func (f *FileRecord) EffectiveType() string {
	if f.HasDetectedType() {
		return string(f.DetectedType)
	}
	return f.ClaimedType
}

// Flag marks the record suspicious. Only the first reason is kept.
// Returns false if the record was already flagged.
func (f *FileRecord) Flag(reason string) bool {
	if f.Suspicious {
		return false
	}
	f.Suspicious = true
	f.Reason = reason
	return true
}

// EpochSeconds converts a time to fractional seconds since the epoch
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// EpochTime converts fractional epoch seconds back to a time
func EpochTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9)))
}
