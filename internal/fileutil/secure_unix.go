//go:build !windows

// Package fileutil creates the files smsbackup writes: rendered output and
// the temporary copy of the SMS database. Both may hold private messages.
// On Unix, the helpers rely on the requested mode and do not protect
// against symlink traversal or TOCTOU races. On Windows, owner-only modes
// (perm & 0077 == 0) additionally set a DACL restricting access to the
// current user.
package fileutil

import "os"

// SecureOpenFile opens the named file with the given flag and permissions.
func SecureOpenFile(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

// SecureCreateTemp creates a new temporary file, readable only by its
// owner, as os.CreateTemp does. The caller removes it.
func SecureCreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}
