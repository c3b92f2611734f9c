package watcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joe/dirpoll/pkg/filesystem"
)

// Scanner enumerates every entry beneath a root, root included, as records.
//
// The walk is pre-order: a directory is reported before its contents and
// siblings come in name order. Symlinked directories are recorded but not
// descended. Entries are recorded from the listing; only symlinks are
// stat'ed, to follow them to their target.
type Scanner struct {
	fsys   filesystem.FileSystem
	filter PathFilter
	log    logrus.FieldLogger

	// OnSkip, if set, is called for every entry left out because it could not be read.
	OnSkip func(path string, err error)
}

// NewScanner creates a scanner over fsys. filter may be nil.
func NewScanner(fsys filesystem.FileSystem, filter PathFilter, log logrus.FieldLogger) *Scanner {
	if filter == nil {
		filter = noFilter{}
	}

	if log == nil {
		log = discardLogger()
	}

	return &Scanner{fsys: fsys, filter: filter, log: log}
}

// Scan walks root and returns a record for each entry still present.
//
// Directories that cannot be listed, and symlinks that vanish or cannot be
// followed, are logged and skipped; the rest of the walk continues. A symlink
// whose target is missing is recorded as the link itself. An error
// is returned only when root itself cannot be walked, in which case no
// records are returned.
func (s *Scanner) Scan(root string) ([]FileRecord, error) {
	walker := s.fsys.Scan(root)

	var records []FileRecord

	for info, ok := walker.Next(); ok; info, ok = walker.Next() {
		if info.Err != nil {
			s.skip(info.Path, info.Err)
			continue
		}

		if IsBackupPath(info.Path) {
			continue
		}

		if info.Path != root && s.filter.Ignored(relativeTo(root, info.Path)) {
			if info.IsDir {
				walker.SkipDir()
			}
			continue
		}

		rec, err := s.record(info)
		if err != nil {
			s.skip(info.Path, err)
			if info.IsDir {
				walker.SkipDir()
			}
			continue
		}

		records = append(records, rec)
	}

	if err := walker.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// record builds the record for a listed entry.
func (s *Scanner) record(info filesystem.FileInfo) (FileRecord, error) {
	listed := newRecord(info.Path, info.Mode, info.ModTime, info.Size)
	if info.Mode&os.ModeSymlink == 0 {
		return listed, nil
	}

	rec, err := NewFileRecord(s.fsys, info.Path)
	if !errors.Is(err, ErrNotFound) {
		return rec, err
	}

	if _, lerr := s.fsys.Lstat(info.Path); lerr != nil {
		// The link itself is gone.
		return FileRecord{}, err
	}

	s.log.WithField("path", info.Path).Debug("dangling symlink recorded as itself")

	return listed, nil
}

func (s *Scanner) skip(path string, err error) {
	s.log.WithField("path", path).WithError(err).Warn("skipping entry for this cycle")

	if s.OnSkip != nil {
		s.OnSkip(path, err)
	}
}

// relativeTo returns path relative to root, slash separated.
func relativeTo(root, path string) string {
	rel := strings.TrimPrefix(path, root)
	rel = strings.TrimLeft(rel, "/"+string(filepath.Separator))

	return filepath.ToSlash(rel)
}

type noFilter struct{}

func (noFilter) Ignored(string) bool { return false }
