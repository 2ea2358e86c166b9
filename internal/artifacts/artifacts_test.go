package artifacts

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newMemCollector(t *testing.T) (*Collector, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	c := NewCollector(zap.NewNop())
	c.SetFS(fsys)
	c.now = func() time.Time { return fixedNow }
	return c, fsys
}

func touch(t *testing.T, fsys afero.Fs, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte("x"), 0644))
	require.NoError(t, fsys.Chtimes(path, mtime, mtime))
}

func TestSystemInfo(t *testing.T) {
	info := NewCollector(zap.NewNop()).SystemInfo()

	for _, key := range []string{"os", "os_release", "os_version", "machine", "processor", "hostname", "user", "cpus"} {
		assert.Contains(t, info, key)
		assert.NotEmpty(t, info[key], key)
	}
}

func TestSystemInfo_Mapping(t *testing.T) {
	h := &host.InfoStat{
		Hostname:        "workstation-7",
		Platform:        "Microsoft Windows 10 Pro",
		PlatformVersion: "10.0.19045 Build 19045",
		KernelVersion:   "10.0.19045 Build 19045",
		KernelArch:      "x86_64",
	}
	cpus := []cpu.InfoStat{{ModelName: "Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz"}}

	info := systemInfo(h, cpus)
	assert.Equal(t, "workstation-7", info["hostname"])
	assert.Equal(t, "10.0.19045 Build 19045", info["os_release"])
	assert.Equal(t, "Microsoft Windows 10 Pro 10.0.19045 Build 19045", info["os_version"])
	assert.Equal(t, "x86_64", info["machine"])
	assert.Equal(t, "Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz", info["processor"])
}

func TestSystemInfo_MissingData(t *testing.T) {
	info := systemInfo(nil, nil)
	assert.Equal(t, "unknown", info["os_release"])
	assert.Equal(t, "unknown", info["os_version"])
	assert.Equal(t, "unknown", info["processor"])
	assert.Equal(t, "unknown", info["hostname"])
	assert.NotEmpty(t, info["machine"])
}

func TestRecentFiles(t *testing.T) {
	c, fsys := newMemCollector(t)

	touch(t, fsys, "/home/u/new.txt", fixedNow.Add(-time.Hour))
	touch(t, fsys, "/home/u/docs/report.pdf", fixedNow.Add(-48*time.Hour))
	touch(t, fsys, "/home/u/old.txt", fixedNow.Add(-10*24*time.Hour))
	touch(t, fsys, "/home/u/.cache/blob", fixedNow.Add(-time.Minute))

	recent := c.RecentFiles("/home/u", 3)

	var paths []string
	for _, r := range recent {
		paths = append(paths, filepath.ToSlash(r.Path))
	}
	assert.ElementsMatch(t, []string{"/home/u/new.txt", "/home/u/docs/report.pdf"}, paths)
}

func TestRecentFiles_MissingRoot(t *testing.T) {
	c, _ := newMemCollector(t)

	recent := c.RecentFiles("/does/not/exist", 3)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func createHistoryDB(t *testing.T, path string, rows int) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE urls (id INTEGER PRIMARY KEY, url LONGVARCHAR, title LONGVARCHAR, last_visit_time INTEGER NOT NULL)`)
	require.NoError(t, err)

	for i := 0; i < rows; i++ {
		_, err = db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES (?, ?, ?)`,
			fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("Page %d", i), 13350000000000000+int64(i))
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES ('https://untitled.example', NULL, 1)`)
	require.NoError(t, err)
}

func TestBrowserHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "History")
	createHistoryDB(t, path, 5)

	entries := NewCollector(zap.NewNop()).BrowserHistory(path, 3)
	require.Len(t, entries, 3)

	assert.Equal(t, "https://example.com/4", entries[0].URL)
	assert.Equal(t, "Page 4", entries[0].Title)
	assert.Equal(t, int64(13350000000000004), entries[0].Timestamp)
	assert.Equal(t, BrowserChrome, entries[0].Browser)
	assert.Equal(t, "https://example.com/2", entries[2].URL)
}

func TestBrowserHistory_NullTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "History")
	createHistoryDB(t, path, 0)

	entries := NewCollector(zap.NewNop()).BrowserHistory(path, 50)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Title)
}

func TestBrowserHistory_MissingFile(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewCollector(zap.New(core))

	entries := c.BrowserHistory(filepath.Join(t.TempDir(), "missing"), 50)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Equal(t, 1, logs.FilterMessage("Chrome history file not found").Len())
}

func TestBrowserHistory_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "History")
	require.NoError(t, afero.WriteFile(afero.NewOsFs(), path, []byte("not sqlite at all, just some text"), 0644))

	entries := NewCollector(zap.NewNop()).BrowserHistory(path, 50)
	assert.Empty(t, entries)
}

func TestCollect(t *testing.T) {
	c, fsys := newMemCollector(t)
	touch(t, fsys, "/home/u/new.txt", fixedNow)

	report := c.Collect("/home/u", 3, "", 50)
	assert.NotEmpty(t, report.SystemInfo)
	assert.Len(t, report.RecentFiles, 1)
	assert.Empty(t, report.BrowserHistory)
}
