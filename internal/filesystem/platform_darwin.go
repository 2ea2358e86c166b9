//go:build darwin

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// platformTimes reads atime and ctime from the stat data (macOS)
func platformTimes(info os.FileInfo, times *FileTimes) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	times.Created = time.Unix(int64(stat.Ctimespec.Sec), int64(stat.Ctimespec.Nsec))
	times.Accessed = time.Unix(int64(stat.Atimespec.Sec), int64(stat.Atimespec.Nsec))
}
