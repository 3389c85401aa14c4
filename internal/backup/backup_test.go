package backup

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesm/smsbackup/internal/testutil"
)

const testInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Device Name</key>
	<string>Wes's iPhone</string>
	<key>Last Backup Date</key>
	<date>2013-04-02T18:30:00Z</date>
	<key>Product Version</key>
	<string>6.1.3</string>
	<key>Unique Identifier</key>
	<string>ABCDEF0123456789</string>
	<key>iTunes Version</key>
	<string>11.0.2</string>
</dict>
</plist>
`

// mkBackup creates a fake backup dir under root and returns the db path.
// sharded selects the newer "3d/<name>" layout.
func mkBackup(t *testing.T, root, udid string, sharded bool, mtime time.Time) string {
	t.Helper()
	dir := filepath.Join(root, "Backup", udid)
	dbDir := dir
	if sharded {
		dbDir = filepath.Join(dir, "3d")
	}
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		t.Fatalf("mkdir %q: %v", dbDir, err)
	}
	path := filepath.Join(dbDir, DBFileName)
	if err := os.WriteFile(path, []byte("sqlite"), 0600); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	old := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	legacy := mkBackup(t, root, "aaaa", false, old)
	sharded := mkBackup(t, root, "bbbb", true, old)
	if err := os.WriteFile(filepath.Join(root, "Backup", "bbbb", infoPlist), []byte(testInfoPlist), 0600); err != nil {
		t.Fatalf("write plist: %v", err)
	}
	// Decoy with a similar name.
	if err := os.WriteFile(filepath.Join(root, DBFileName+".bak"), nil, 0600); err != nil {
		t.Fatalf("write decoy: %v", err)
	}

	cands, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Path != legacy || cands[1].Path != sharded {
		t.Errorf("paths = %q, %q; want %q, %q", cands[0].Path, cands[1].Path, legacy, sharded)
	}
	if want := filepath.Join(root, "Backup", "aaaa"); cands[0].BackupDir != want {
		t.Errorf("legacy BackupDir = %q, want %q", cands[0].BackupDir, want)
	}
	if want := filepath.Join(root, "Backup", "bbbb"); cands[1].BackupDir != want {
		t.Errorf("sharded BackupDir = %q, want %q", cands[1].BackupDir, want)
	}
	if cands[0].Device != nil {
		t.Errorf("legacy Device = %+v, want nil", cands[0].Device)
	}

	dev := cands[1].Device
	if dev == nil {
		t.Fatal("sharded Device is nil")
	}
	if dev.Name != "Wes's iPhone" || dev.ProductVersion != "6.1.3" || dev.UDID != "ABCDEF0123456789" {
		t.Errorf("Device = %+v", dev)
	}
	if want := time.Date(2013, 4, 2, 18, 30, 0, 0, time.UTC); !dev.LastBackup.Equal(want) {
		t.Errorf("LastBackup = %v, want %v", dev.LastBackup, want)
	}
}

func TestFindMissingRoot(t *testing.T) {
	cands, err := Find(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("got %d candidates, want 0", len(cands))
	}
}

func TestFindNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Find(path); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestMostRecent(t *testing.T) {
	t0 := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		cands  []Candidate
		want   string
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"single", []Candidate{{Path: "a", ModTime: t0}}, "a", true},
		{"latest wins", []Candidate{
			{Path: "a", ModTime: t0.Add(time.Hour)},
			{Path: "b", ModTime: t0},
			{Path: "c", ModTime: t0.Add(30 * time.Minute)},
		}, "a", true},
		{"tie goes to later path", []Candidate{
			{Path: "a", ModTime: t0},
			{Path: "b", ModTime: t0},
		}, "b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MostRecent(tt.cands)
			if ok != tt.wantOK || got.Path != tt.want {
				t.Errorf("MostRecent() = %q, %v; want %q, %v", got.Path, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	_, err := Locate(root, logger)
	if !errors.Is(err, ErrNoBackup) {
		t.Fatalf("empty root: err = %v, want ErrNoBackup", err)
	}
	if !strings.Contains(logBuf.String(), "no SMS database found") {
		t.Errorf("missing warning, log:\n%s", logBuf.String())
	}

	t0 := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	only := mkBackup(t, root, "aaaa", false, t0)
	logBuf.Reset()
	c, err := Locate(root, logger)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if c.Path != only {
		t.Errorf("Path = %q, want %q", c.Path, only)
	}
	if logBuf.Len() != 0 {
		t.Errorf("unexpected log output:\n%s", logBuf.String())
	}

	newer := mkBackup(t, root, "bbbb", true, t0.Add(24*time.Hour))
	c, err = Locate(root, logger)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if c.Path != newer {
		t.Errorf("Path = %q, want most recent %q", c.Path, newer)
	}
	if !strings.Contains(logBuf.String(), "multiple SMS databases found") {
		t.Errorf("missing multiple-db warning, log:\n%s", logBuf.String())
	}
}

func TestCopyToTemp(t *testing.T) {
	const payload = "SQLite format 3\x00 payload"
	src := testutil.WriteFile(t, t.TempDir(), DBFileName, []byte(payload))

	path, cleanup, err := CopyToTemp(src)
	if err != nil {
		t.Fatalf("CopyToTemp: %v", err)
	}
	if path == src {
		t.Fatal("copy path equals source")
	}
	testutil.AssertFileContent(t, path, payload)

	cleanup()
	testutil.MustNotExist(t, path)
	cleanup()

	testutil.AssertFileContent(t, src, payload)
}

func TestCopyToTempMissingSource(t *testing.T) {
	_, cleanup, err := CopyToTemp(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if cleanup != nil {
		t.Error("cleanup returned on error")
	}
}
