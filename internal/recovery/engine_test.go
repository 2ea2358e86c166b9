package recovery

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(src, dst afero.Fs) *Engine {
	e := NewEngine("/out/recovered", zap.NewNop())
	e.SetFS(src, dst)
	return e
}

func writeRecord(t *testing.T, fsys afero.Fs, path, claimed string, detected models.TypeID, created float64) *models.FileRecord {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte("content of "+path), 0644))
	return &models.FileRecord{
		Path:         path,
		Size:         int64(len("content of " + path)),
		Created:      created,
		Modified:     created,
		Accessed:     created,
		ClaimedType:  claimed,
		DetectedType: detected,
	}
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, ParseFilter(""))
	assert.Equal(t, []string{"jpg"}, ParseFilter("jpg"))
	assert.Equal(t, []string{"jpg", "PDF", " png"}, ParseFilter("jpg,PDF, png"))
}

func TestRecover_Filter(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()

	var records []*models.FileRecord
	for i := 0; i < 3; i++ {
		records = append(records, writeRecord(t, src, fmt.Sprintf("/case/img%d.jpg", i), "jpg", "jpg", 100))
	}
	for i := 0; i < 2; i++ {
		records = append(records, writeRecord(t, src, fmt.Sprintf("/case/doc%d.pdf", i), "pdf", "pdf", 100))
	}
	records = append(records, writeRecord(t, src, "/case/tool.exe", "exe", "exe", 100))

	count, err := newTestEngine(src, dst).Recover(records, []string{"jpg"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for i := 0; i < 3; i++ {
		exists, _ := afero.Exists(dst, fmt.Sprintf("/out/recovered/img%d.jpg", i))
		assert.True(t, exists, "img%d.jpg should be recovered", i)
	}
	exists, _ := afero.Exists(dst, "/out/recovered/tool.exe")
	assert.False(t, exists)
}

func TestRecover_FilterUsesDetectedType(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()

	records := []*models.FileRecord{
		// disguised jpeg
		writeRecord(t, src, "/case/notes.txt", "txt", "jpg", 100),
		// unknown content falls back to the claimed type
		writeRecord(t, src, "/case/photo.jpg", "jpg", "", 100),
		// detected type wins over the claimed one
		writeRecord(t, src, "/case/fake.jpg", "jpg", "exe", 100),
	}

	count, err := newTestEngine(src, dst).Recover(records, []string{"jpg"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	exists, _ := afero.Exists(dst, "/out/recovered/fake.jpg")
	assert.False(t, exists)
}

func TestRecover_FilterIsCaseSensitive(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()
	records := []*models.FileRecord{writeRecord(t, src, "/case/a.jpg", "jpg", "jpg", 100)}

	count, err := newTestEngine(src, dst).Recover(records, []string{"JPG"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecover_NoFilterCopiesAll(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()
	records := []*models.FileRecord{
		writeRecord(t, src, "/case/a.jpg", "jpg", "jpg", 100),
		writeRecord(t, src, "/case/b", "", "", 100),
	}

	count, err := newTestEngine(src, dst).Recover(records, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecover_Collision(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(dst, "/out/recovered/photo.jpg", []byte("existing"), 0644))
	record := writeRecord(t, src, "/case/a/photo.jpg", "jpg", "jpg", 1700000123.75)

	count, err := newTestEngine(src, dst).Recover([]*models.FileRecord{record}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	existing, err := afero.ReadFile(dst, "/out/recovered/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "existing", string(existing), "existing file must not be overwritten")

	renamed, err := afero.ReadFile(dst, "/out/recovered/photo_1700000123.jpg")
	require.NoError(t, err)
	assert.Equal(t, "content of /case/a/photo.jpg", string(renamed))
}

func TestRecover_SameNameWithinBatch(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()

	records := []*models.FileRecord{
		writeRecord(t, src, "/case/a/report.pdf", "pdf", "pdf", 200),
		writeRecord(t, src, "/case/b/report.pdf", "pdf", "pdf", 300),
	}

	count, err := newTestEngine(src, dst).Recover(records, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, name := range []string{"report.pdf", "report_300.pdf"} {
		exists, _ := afero.Exists(dst, filepath.Join("/out/recovered", name))
		assert.True(t, exists, "%s should exist", name)
	}
}

func TestRecover_CopyFailureDoesNotAbort(t *testing.T) {
	src := afero.NewMemMapFs()
	dst := afero.NewMemMapFs()

	records := []*models.FileRecord{
		{Path: "/case/vanished.jpg", ClaimedType: "jpg"},
		writeRecord(t, src, "/case/ok.jpg", "jpg", "jpg", 100),
	}

	count, err := newTestEngine(src, dst).Recover(records, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecover_CreatesOutputDir(t *testing.T) {
	dst := afero.NewMemMapFs()

	count, err := newTestEngine(afero.NewMemMapFs(), dst).Recover(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	exists, err := afero.DirExists(dst, "/out/recovered")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRecover_OutputDirFailure(t *testing.T) {
	dst := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := newTestEngine(afero.NewMemMapFs(), dst).Recover(nil, nil)
	assert.Error(t, err)
}
