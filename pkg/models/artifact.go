package models

// RecentFile is a file modified within the recent-files cutoff
type RecentFile struct {
	Path     string  `json:"path"`
	Modified float64 `json:"modified"`
}

// HistoryEntry is a single browser history row
type HistoryEntry struct {
	Browser   string `json:"browser"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"` // Raw browser value (Chrome: microseconds since 1601)
}

// ArtifactsReport groups the host artifacts collected outside of a scan
type ArtifactsReport struct {
	SystemInfo     map[string]string `json:"system_info"`
	RecentFiles    []RecentFile      `json:"recent_files"`
	BrowserHistory []HistoryEntry    `json:"browser_history"`
}
