package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/sleuth/internal/signatures"
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
)

var (
	// ErrPermission is returned when a file cannot be read for lack of permission.
	// Callers surface it as a warning.
	ErrPermission = errors.New("permission denied")

	// ErrSkipped is returned for files that vanished, are not regular files or
	// could not be read for another reason. Callers drop these silently.
	ErrSkipped = errors.New("file skipped")
)

// Inspector reads file metadata and header bytes and classifies the content
type Inspector struct {
	fs         afero.Fs
	catalog    *signatures.Catalog
	headerSize int
}

// NewInspector creates a new inspector. headerSize <= 0 selects signatures.HeaderSize.
func NewInspector(fsys afero.Fs, catalog *signatures.Catalog, headerSize int) *Inspector {
	if headerSize <= 0 || headerSize > signatures.HeaderSize {
		headerSize = signatures.HeaderSize
	}
	return &Inspector{
		fs:         fsys,
		catalog:    catalog,
		headerSize: headerSize,
	}
}

// Inspect builds a FileRecord for path. Errors wrap ErrPermission or ErrSkipped.
func (i *Inspector) Inspect(path string) (*models.FileRecord, error) {
	info, err := i.fs.Stat(path)
	if err != nil {
		return nil, classifyError(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrSkipped, path)
	}

	header, err := i.readHeader(path)
	if err != nil {
		return nil, classifyError(path, err)
	}

	times := fileTimes(info)

	return &models.FileRecord{
		Path:         path,
		Size:         info.Size(),
		Created:      models.EpochSeconds(times.Created),
		Modified:     models.EpochSeconds(times.Modified),
		Accessed:     models.EpochSeconds(times.Accessed),
		ClaimedType:  ClaimedType(path),
		DetectedType: i.catalog.Match(header),
	}, nil
}

// readHeader reads at most headerSize bytes. The file is closed before returning.
func (i *Inspector) readHeader(path string) ([]byte, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, i.headerSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

func classifyError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %w", ErrPermission, path, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrSkipped, path, err)
}

// ClaimedType returns the lowercase text after the last dot of the file name,
// or "" when the name has no dot.
func ClaimedType(path string) string {
	name := filepath.Base(path)
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
