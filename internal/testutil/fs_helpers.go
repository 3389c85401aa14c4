package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name, creating any missing directories
// along the way, and returns the full path. Nested names such as
// "Backup/<udid>/3d/<db>" lay out fake backup trees.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	if filepath.IsAbs(name) {
		t.Fatalf("WriteFile: want a path relative to %s, got %s", dir, name)
	}
	path := filepath.Join(dir, filepath.Clean(name))
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CopyFile copies src to dir/name, as WriteFile lays it out.
func CopyFile(t *testing.T, src, dir, name string) string {
	t.Helper()
	return WriteFile(t, dir, name, ReadFile(t, src))
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// AssertFileContent checks that path holds exactly want.
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()

	if got := string(ReadFile(t, path)); got != want {
		t.Errorf("%s content = %q, want %q", filepath.Base(path), got, want)
	}
}

// MustNotExist fails unless path is gone. Errors other than "not exist"
// fail too, so a permission problem is not mistaken for a removal.
func MustNotExist(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	switch {
	case err == nil:
		t.Fatalf("%s still exists", path)
	case !os.IsNotExist(err):
		t.Fatalf("stat %s: %v", path, err)
	}
}

// AssertEmptyDir fails if dir holds any entries, listing what it found.
func AssertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("unexpected entry in %s: %s", dir, e.Name())
	}
}
