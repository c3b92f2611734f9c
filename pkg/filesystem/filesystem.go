// Package filesystem provides the filesystems a watcher can scan: the local disk,
// remote hosts reached over SFTP, and an in-memory filesystem for tests.
//
// Every implementation satisfies the kr/fs FileSystem interface, so the same
// streaming walker drives scans on all of them.
package filesystem

import (
	"os"
	"path/filepath"

	krfs "github.com/kr/fs"
	"github.com/pkg/errors"
)

var (
	errNotDir   = errors.New("not a directory")
	errLinkLoop = errors.New("too many levels of symbolic links")
)

// FileSystem is the set of read-only operations a scan needs.
type FileSystem interface {
	krfs.FileSystem

	// Stat returns file information, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Abs returns the absolute, cleaned form of path on this filesystem.
	Abs(path string) (string, error)

	// Scan returns a pre-order iterator over path and everything beneath it.
	Scan(root string) FileScanner
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Abs returns the absolute form of path.
func (fs *RealFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Join joins path elements with the OS separator.
func (fs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following symlinks.
func (fs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// ReadDir lists a directory in name order.
// Entries that disappear between the listing and their stat are left out.
func (fs *RealFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// Scan returns a pre-order iterator over the tree rooted at root.
func (fs *RealFileSystem) Scan(root string) FileScanner {
	return newWalkScanner(fs, root)
}

// Stat returns file information.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
