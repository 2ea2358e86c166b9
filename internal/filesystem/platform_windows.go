//go:build windows

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// platformTimes reads creation and access time (Windows)
func platformTimes(info os.FileInfo, times *FileTimes) {
	stat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return
	}
	times.Created = time.Unix(0, stat.CreationTime.Nanoseconds())
	times.Accessed = time.Unix(0, stat.LastAccessTime.Nanoseconds())
}
