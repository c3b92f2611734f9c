package filesystem

import (
	"os"
	"time"

	krfs "github.com/kr/fs"
	"github.com/pkg/errors"
)

// FileScanner is an iterator over a directory tree.
// It provides a simple Next pattern for traversing directory contents.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Entries that could not be read are returned with FileInfo.Err set;
	// iteration continues past them.
	// Returns (FileInfo{}, false) when done or when the root itself is unreadable.
	Next() (FileInfo, bool)

	// SkipDir stops descent into the directory most recently returned by Next.
	SkipDir()

	// Err returns the error that prevented scanning the root, if any.
	// Should be checked after Next() returns false.
	Err() error
}

// FileInfo contains metadata about one entry seen during a scan.
type FileInfo struct {
	// Path is the entry path, joined onto the scan root by the filesystem
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the modification time
	ModTime time.Time

	// IsDir indicates if this is a directory (symlinks are not followed)
	IsDir bool

	// Mode is the entry's mode as listed; a symlink carries os.ModeSymlink
	Mode os.FileMode

	// Err is set when the entry could not be listed or stat'ed
	Err error
}

// walkScanner implements FileScanner on top of a kr/fs walker.
// Order is pre-order: a directory comes before its contents, siblings in
// the order the filesystem lists them.
type walkScanner struct {
	root    string
	walker  *krfs.Walker
	err     error
	started bool
}

// newWalkScanner creates a new scanner for the given root.
func newWalkScanner(fsys krfs.FileSystem, root string) *walkScanner {
	return &walkScanner{
		root:   root,
		walker: krfs.WalkFS(root, fsys),
	}
}

// Err returns the error that prevented scanning the root.
func (s *walkScanner) Err() error {
	return s.err
}

// Next advances to the next entry and returns its info.
func (s *walkScanner) Next() (FileInfo, bool) {
	if s.err != nil {
		return FileInfo{}, false
	}

	if !s.walker.Step() {
		return FileInfo{}, false
	}

	first := !s.started
	s.started = true

	path := s.walker.Path()
	if err := s.walker.Err(); err != nil {
		// The root failing its Lstat ends the scan; anything deeper is per-entry.
		if first {
			s.err = errors.Wrapf(err, "failed to scan %s", s.root)
			return FileInfo{}, false
		}

		return FileInfo{Path: path, Err: err}, true
	}

	info := s.walker.Stat()

	return FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Mode:    info.Mode(),
	}, true
}

// SkipDir prevents descent into the directory last returned by Next.
func (s *walkScanner) SkipDir() {
	s.walker.SkipDir()
}
