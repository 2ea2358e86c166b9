package filesystem

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

// CopyFile copies src from srcFs to dst on dstFs, keeping the permission bits
// and, when possible, the modification and access times.
func CopyFile(srcFs, dstFs afero.Fs, src, dst string, atime time.Time) error {
	info, err := srcFs.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", src)
	}

	sourceFile, err := srcFs.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := dstFs.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err = destFile.Sync(); err != nil {
		destFile.Close()
		return err
	}
	if err = destFile.Close(); err != nil {
		return err
	}

	// Metadata is best effort
	_ = dstFs.Chmod(dst, info.Mode().Perm())
	if atime.IsZero() {
		atime = info.ModTime()
	}
	_ = dstFs.Chtimes(dst, atime, info.ModTime())

	return nil
}

// SplitExt splits a file name into stem and extension (with dot).
// Leading dots belong to the stem, so ".bashrc" has no extension.
func SplitExt(name string) (string, string) {
	i := len(name) - 1
	for i >= 0 && name[i] != '.' {
		i--
	}
	if i <= 0 {
		return name, ""
	}
	// all dots before i are leading dots
	leading := true
	for j := 0; j < i; j++ {
		if name[j] != '.' {
			leading = false
			break
		}
	}
	if leading {
		return name, ""
	}
	return name[:i], name[i:]
}
