//go:build windows

package fileutil

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/windows"
)

// ownerOnlyDACL builds an ACL granting GENERIC_ALL to the current user and
// nobody else.
func ownerOnlyDACL() (*windows.ACL, error) {
	user, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return nil, fmt.Errorf("get current user SID: %w", err)
	}
	return windows.ACLFromEntries([]windows.EXPLICIT_ACCESS{{
		AccessPermissions: windows.GENERIC_ALL,
		AccessMode:        windows.SET_ACCESS,
		Inheritance:       windows.NO_INHERITANCE,
		Trustee: windows.TRUSTEE{
			TrusteeForm:  windows.TRUSTEE_IS_SID,
			TrusteeType:  windows.TRUSTEE_IS_USER,
			TrusteeValue: windows.TrusteeValueFromSID(user.User.Sid),
		},
	}}, nil)
}

// restrict replaces the DACL on path with ownerOnlyDACL, dropping inherited
// entries. Failure is logged and otherwise ignored: the file is still
// usable, just readable by whoever the parent directory allows.
func restrict(path string) {
	acl, err := ownerOnlyDACL()
	if err == nil {
		info := windows.SECURITY_INFORMATION(windows.DACL_SECURITY_INFORMATION | windows.PROTECTED_DACL_SECURITY_INFORMATION)
		err = windows.SetNamedSecurityInfo(path, windows.SE_FILE_OBJECT, info, nil, nil, acl, nil)
	}
	if err != nil {
		slog.Warn("could not restrict file to current user", "path", path, "err", err)
	}
}

// SecureOpenFile opens the named file with the given flag and permissions.
// Creating with an owner-only mode (perm & 0077 == 0) also restricts the
// file's DACL to the current user.
func SecureOpenFile(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	if flag&os.O_CREATE != 0 && perm&0077 == 0 {
		restrict(path)
	}
	return f, nil
}

// SecureCreateTemp creates a new temporary file whose DACL admits only the
// current user. The caller removes it.
func SecureCreateTemp(dir, pattern string) (*os.File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	restrict(f.Name())
	return f, nil
}
