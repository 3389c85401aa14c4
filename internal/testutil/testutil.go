// Package testutil provides test helpers for smsbackup tests.
//
// The package is organized into focused files:
//   - assert.go: assertion helpers (AssertContainsAll, AssertLines, AssertValidUTF8)
//   - fs_helpers.go: filesystem operations (WriteFile, CopyFile, MustNotExist)
//   - encoding.go: legacy-charset text samples
//
// Fixture message databases live in the dbtest subpackage.
package testutil
