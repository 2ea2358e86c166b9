package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IvanShishkin/sleuth/internal/signatures"
	"github.com/spf13/afero"
)

// denyFs returns a permission error when opening the listed paths
type denyFs struct {
	afero.Fs
	denied map[string]bool
}

func (d *denyFs) Open(name string) (afero.File, error) {
	if d.denied[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

func TestClaimedType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/path/to/photo.jpg", "jpg"},
		{"/path/to/PHOTO.JPG", "jpg"},
		{"/path/to/archive.tar.gz", "gz"},
		{"/path/to/photo.jpg.exe", "exe"},
		{"/path/to/.htaccess", "htaccess"},
		{"/path/to/Makefile", ""},
		{"/path.with.dots/Makefile", ""},
		{"/path/to/trailing.", ""},
		{"file.PDF", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ClaimedType(tt.path); got != tt.expected {
				t.Errorf("ClaimedType(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestInspector_Inspect(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "image.png")
	content := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 100)...)

	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	mtime := time.Unix(1700000000, 0)
	if err := os.Chtimes(testFile, mtime, mtime); err != nil {
		t.Fatalf("Failed to set times: %v", err)
	}

	inspector := NewInspector(afero.NewOsFs(), signatures.DefaultCatalog(), 0)
	record, err := inspector.Inspect(testFile)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if record.Path != testFile {
		t.Errorf("Path = %q, want %q", record.Path, testFile)
	}
	if record.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", record.Size, len(content))
	}
	if record.ClaimedType != "png" {
		t.Errorf("ClaimedType = %q, want %q", record.ClaimedType, "png")
	}
	if record.DetectedType != "png" {
		t.Errorf("DetectedType = %q, want %q", record.DetectedType, "png")
	}
	if record.Modified != 1700000000 {
		t.Errorf("Modified = %v, want %v", record.Modified, 1700000000)
	}
	if record.Created <= 0 || record.Accessed <= 0 {
		t.Errorf("Created = %v, Accessed = %v, want positive epoch values", record.Created, record.Accessed)
	}
	if record.Suspicious || record.Reason != "" {
		t.Error("Inspect() must not flag records")
	}
}

func TestInspector_ShortFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	// "MZ" alone is a complete exe signature, a lone "M" is not
	afero.WriteFile(fsys, "/data/a.bin", []byte("MZ"), 0644)
	afero.WriteFile(fsys, "/data/b.bin", []byte("M"), 0644)
	afero.WriteFile(fsys, "/data/empty.txt", []byte{}, 0644)

	inspector := NewInspector(fsys, signatures.DefaultCatalog(), 0)

	tests := []struct {
		path     string
		expected string
	}{
		{"/data/a.bin", "exe"},
		{"/data/b.bin", ""},
		{"/data/empty.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			record, err := inspector.Inspect(tt.path)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if string(record.DetectedType) != tt.expected {
				t.Errorf("DetectedType = %q, want %q", record.DetectedType, tt.expected)
			}
		})
	}
}

func TestInspector_OnlyReadsHeader(t *testing.T) {
	fsys := afero.NewMemMapFs()
	content := make([]byte, 4096)
	// Signature beyond the header must not be seen
	copy(content[64:], []byte{0xFF, 0xD8, 0xFF})
	afero.WriteFile(fsys, "/data/blob", content, 0644)

	record, err := NewInspector(fsys, signatures.DefaultCatalog(), 0).Inspect("/data/blob")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if record.HasDetectedType() {
		t.Errorf("DetectedType = %q, want unknown", record.DetectedType)
	}
	if record.Size != 4096 {
		t.Errorf("Size = %d, want 4096", record.Size)
	}
}

func TestInspector_Errors(t *testing.T) {
	base := afero.NewMemMapFs()
	afero.WriteFile(base, "/data/secret.txt", []byte("top secret"), 0644)
	base.MkdirAll("/data/dir", 0755)

	fsys := &denyFs{Fs: base, denied: map[string]bool{"/data/secret.txt": true}}
	inspector := NewInspector(fsys, signatures.DefaultCatalog(), 0)

	tests := []struct {
		name string
		path string
		want error
	}{
		{"Permission denied", "/data/secret.txt", ErrPermission},
		{"Vanished file", "/data/gone.txt", ErrSkipped},
		{"Directory", "/data/dir", ErrSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := inspector.Inspect(tt.path)
			if record != nil {
				t.Errorf("Inspect() record = %+v, want nil", record)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Inspect() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInspector_MemFsTimesFallBackToModTime(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "/f.txt", []byte("x"), 0644)
	mtime := time.Unix(1600000000, 0)
	fsys.Chtimes("/f.txt", mtime, mtime)

	record, err := NewInspector(fsys, signatures.DefaultCatalog(), 0).Inspect("/f.txt")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if record.Created != 1600000000 || record.Modified != 1600000000 || record.Accessed != 1600000000 {
		t.Errorf("times = %v/%v/%v, want all 1600000000", record.Created, record.Modified, record.Accessed)
	}
}
