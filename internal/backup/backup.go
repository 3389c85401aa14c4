// Package backup locates the SMS database inside local iPhone backups made
// by iTunes or Finder, and copies it aside so the original is never opened.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wesm/smsbackup/internal/fileutil"
	"howett.net/plist"
)

// DBFileName is the name of sms.db inside a backup: the SHA-1 of
// "HomeDomain-Library/SMS/sms.db".
const DBFileName = "3d0d7e5fb2ce288813306e4d4636395e047a3d28"

// infoPlist is the per-backup metadata file at the root of a backup dir.
const infoPlist = "Info.plist"

// ErrNoBackup is returned by Locate when no SMS database is found.
var ErrNoBackup = errors.New("no SMS database found in backups")

// Device is the subset of a backup's Info.plist shown to users.
type Device struct {
	Name           string    `plist:"Device Name" json:"name,omitempty"`
	ProductVersion string    `plist:"Product Version" json:"product_version,omitempty"`
	UDID           string    `plist:"Unique Identifier" json:"udid,omitempty"`
	LastBackup     time.Time `plist:"Last Backup Date" json:"last_backup,omitzero"`
}

// Candidate is one SMS database found under a backup root.
type Candidate struct {
	// Path is the absolute path of the database file.
	Path string `json:"path"`

	// BackupDir is the backup directory holding Info.plist. The database
	// sits directly in it for older backups and in a "3d" subdirectory for
	// newer ones.
	BackupDir string `json:"backup_dir"`

	ModTime time.Time `json:"mod_time"`

	// Device is nil when Info.plist is missing or unreadable.
	Device *Device `json:"device,omitempty"`
}

// DefaultRoot returns the directory where macOS keeps device backups.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("backup root: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "MobileSync"), nil
}

// Find walks root and returns every SMS database below it, sorted by path.
// A missing root yields no candidates and no error.
func Find(root string) ([]Candidate, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("backup find: abs path: %w", err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup find: stat %q: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backup find: %q is not a directory", abs)
	}

	var found []Candidate
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped
		}
		if d.IsDir() || d.Name() != DBFileName {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}

		dir := backupDir(path)
		found = append(found, Candidate{
			Path:      path,
			BackupDir: dir,
			ModTime:   fi.ModTime(),
			Device:    readDevice(dir),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("backup find: walk: %w", err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	return found, nil
}

// backupDir returns the backup directory for a database path. Newer backups
// shard files into subdirectories named after the first two hex digits.
func backupDir(dbPath string) string {
	dir := filepath.Dir(dbPath)
	if filepath.Base(dir) == DBFileName[:2] {
		return filepath.Dir(dir)
	}
	return dir
}

func readDevice(dir string) *Device {
	data, err := os.ReadFile(filepath.Join(dir, infoPlist))
	if err != nil {
		return nil
	}
	var d Device
	if _, err := plist.Unmarshal(data, &d); err != nil {
		return nil
	}
	return &d
}

// MostRecent returns the candidate with the latest modification time. Ties
// go to the later path. ok is false when cands is empty.
func MostRecent(cands []Candidate) (c Candidate, ok bool) {
	for i, cand := range cands {
		if i == 0 || !cand.ModTime.Before(c.ModTime) {
			c = cand
		}
	}
	return c, len(cands) > 0
}

// Locate finds the SMS database to use under root. When several backups
// hold one, the most recently modified wins.
func Locate(root string, logger *slog.Logger) (Candidate, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cands, err := Find(root)
	if err != nil {
		return Candidate{}, err
	}

	switch len(cands) {
	case 0:
		logger.Warn("no SMS database found", "root", root)
		return Candidate{}, fmt.Errorf("%s: %w", root, ErrNoBackup)
	case 1:
		return cands[0], nil
	default:
		c, _ := MostRecent(cands)
		logger.Warn("multiple SMS databases found, using most recent",
			"count", len(cands), "path", c.Path)
		return c, nil
	}
}

// CopyToTemp copies src to an owner-only temporary file and returns its
// path. cleanup removes the copy and is safe to call more than once.
func CopyToTemp(src string) (path string, cleanup func(), err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", nil, fmt.Errorf("open sms db: %w", err)
	}
	defer in.Close()

	out, err := fileutil.SecureCreateTemp("", "smsbackup-*.db")
	if err != nil {
		return "", nil, fmt.Errorf("create temp copy: %w", err)
	}
	path = out.Name()
	cleanup = func() { os.Remove(path) }

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		cleanup()
		return "", nil, fmt.Errorf("copy sms db: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("copy sms db: %w", err)
	}
	return path, cleanup, nil
}
