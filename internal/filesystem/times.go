package filesystem

import (
	"os"
	"time"
)

// FileTimes holds the three timestamps kept for every record.
// Created is whatever the platform reports: inode change time on unix,
// creation time on Windows.
type FileTimes struct {
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

// fileTimes extracts timestamps. Filesystems without platform stat data
// (e.g. in-memory ones) report the modification time for all three.
func fileTimes(info os.FileInfo) FileTimes {
	times := FileTimes{
		Created:  info.ModTime(),
		Modified: info.ModTime(),
		Accessed: info.ModTime(),
	}
	if info.Sys() == nil {
		return times
	}
	platformTimes(info, &times)
	return times
}
