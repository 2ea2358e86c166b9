//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// platformTimes reads atime and ctime from the stat data (Linux)
func platformTimes(info os.FileInfo, times *FileTimes) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	times.Created = time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec))
	times.Accessed = time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec))
}
