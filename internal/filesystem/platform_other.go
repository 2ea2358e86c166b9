//go:build !linux && !darwin && !windows

package filesystem

import "os"

// platformTimes keeps the modification time for all timestamps
func platformTimes(info os.FileInfo, times *FileTimes) {}
