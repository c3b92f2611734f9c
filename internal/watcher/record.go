package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/joe/dirpoll/pkg/filesystem"
)

// Owner permission bits used to derive the access flags of a record.
const (
	ownerRead  = 0o400
	ownerWrite = 0o200
	ownerExec  = 0o100
)

// FileRecord is the metadata of one filesystem entry at the moment it was observed.
// Records are values; identity is the path (see SamePath).
type FileRecord struct {
	Path         string
	ParentPath   string
	ShortName    string
	LastModified time.Time
	Size         int64
	IsDir        bool
	IsHidden     bool
	IsReadable   bool
	IsWritable   bool
	IsExecutable bool
	IsBackup     bool
}

// NewFileRecord observes path through fsys, following symlinks.
// A path that does not exist yields an error matching ErrNotFound.
func NewFileRecord(fsys filesystem.FileSystem, path string) (FileRecord, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileRecord{}, errors.Wrapf(ErrNotFound, "%s", path)
		}

		return FileRecord{}, errors.Wrapf(err, "failed to stat %s", path)
	}

	return newRecord(path, info.Mode(), info.ModTime(), info.Size()), nil
}

// SamePath reports whether r and other describe the same filesystem entry,
// regardless of the state each one captured.
func (r FileRecord) SamePath(other FileRecord) bool {
	return r.Path == other.Path
}

// String returns the path.
func (r FileRecord) String() string {
	return r.Path
}

// IsBackupPath reports whether path names an editor or tool backup file:
// it ends with "~" or, in any case, with "BAK".
func IsBackupPath(path string) bool {
	return strings.HasSuffix(path, "~") || strings.HasSuffix(strings.ToUpper(path), "BAK")
}

func newRecord(path string, mode os.FileMode, modTime time.Time, size int64) FileRecord {
	perm := mode.Perm()
	name := filepath.Base(path)

	return FileRecord{
		Path:         path,
		ParentPath:   filepath.Dir(path),
		ShortName:    name,
		LastModified: modTime,
		Size:         size,
		IsDir:        mode.IsDir(),
		IsHidden:     strings.HasPrefix(name, "."),
		IsReadable:   perm&ownerRead != 0,
		IsWritable:   perm&ownerWrite != 0,
		IsExecutable: perm&ownerExec != 0,
		IsBackup:     IsBackupPath(path),
	}
}
