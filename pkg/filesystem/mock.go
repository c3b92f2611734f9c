package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// maxLinkHops bounds symlink resolution in the mock.
const maxLinkHops = 8

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are absolute and slash separated; modification times are whatever
// the test sets, so scans are fully deterministic.
type MockFileSystem struct {
	mu         sync.RWMutex
	files      map[string]*mockFile
	vanishing  map[string]bool
	unreadable map[string]bool
	statCalls  atomic.Int64
}

// mockFile represents an entry in the mock filesystem.
type mockFile struct {
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
	target  string // set for symlinks
}

// mockFileInfo implements os.FileInfo for mock entries.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	link    bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	switch {
	case fi.link:
		return fi.perm | os.ModeSymlink
	case fi.isDir:
		return fi.perm | os.ModeDir
	default:
		return fi.perm
	}
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:      make(map[string]*mockFile),
		vanishing:  make(map[string]bool),
		unreadable: make(map[string]bool),
	}
}

// Abs cleans path and anchors relative paths at the root.
func (fs *MockFileSystem) Abs(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = string(filepath.Separator) + path
	}
	return filepath.Clean(path), nil
}

// Join joins path elements.
func (fs *MockFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following symlinks.
func (fs *MockFileSystem) Lstat(path string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path = filepath.Clean(path)
	file, exists := fs.files[path]
	if !exists || fs.vanishing[path] {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}

	return file.linkInfo(path), nil
}

// ReadDir lists the direct children of dirname in name order.
func (fs *MockFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dirname = filepath.Clean(dirname)
	dir, exists := fs.files[dirname]
	if !exists {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: os.ErrNotExist}
	}
	if !dir.isDir {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: errNotDir}
	}
	if fs.unreadable[dirname] {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: os.ErrPermission}
	}

	infos := make([]os.FileInfo, 0)
	for p, file := range fs.files {
		if p == dirname || filepath.Dir(p) != dirname {
			continue
		}
		infos = append(infos, file.linkInfo(p))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Scan returns a pre-order iterator over the tree rooted at root.
func (fs *MockFileSystem) Scan(root string) FileScanner {
	return newWalkScanner(fs, root)
}

// Stat returns file information, following symlinks.
func (fs *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	fs.statCalls.Add(1)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path = filepath.Clean(path)
	file, exists := fs.files[path]
	if fs.vanishing[path] {
		exists = false
	}
	for hops := 0; exists && file.target != ""; hops++ {
		if hops == maxLinkHops {
			return nil, &os.PathError{Op: "stat", Path: path, Err: errLinkLoop}
		}
		file, exists = fs.files[file.target]
	}
	if !exists {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}

	return file.info(path), nil
}

// StatCalls returns how many times Stat has been called.
func (fs *MockFileSystem) StatCalls() int64 {
	return fs.statCalls.Load()
}

func (f *mockFile) info(path string) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    f.size,
		modTime: f.modTime,
		isDir:   f.isDir,
		perm:    f.perm,
	}
}

// linkInfo describes the entry itself; a symlink is not followed.
func (f *mockFile) linkInfo(path string) *mockFileInfo {
	info := f.info(path)
	if f.target != "" {
		info.isDir = false
		info.link = true
	}

	return info
}

// Helper methods for testing

// AddFile adds a file of the given size, creating parent directories.
func (fs *MockFileSystem) AddFile(path string, size int64, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)
	fs.mkdirAllLocked(filepath.Dir(path), modTime)
	fs.files[path] = &mockFile{size: size, modTime: modTime, perm: 0o644}
}

// AddDir adds a directory, creating parent directories.
func (fs *MockFileSystem) AddDir(path string, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(filepath.Clean(path), modTime)
}

// AddSymlink adds a symlink at path pointing at target. The target need not exist.
func (fs *MockFileSystem) AddSymlink(path, target string, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)
	fs.mkdirAllLocked(filepath.Dir(path), modTime)
	fs.files[path] = &mockFile{modTime: modTime, perm: 0o777, target: filepath.Clean(target)}
}

// Chmod sets the permission bits of an existing entry.
func (fs *MockFileSystem) Chmod(path string, perm os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if file, exists := fs.files[filepath.Clean(path)]; exists {
		file.perm = perm
	}
}

// Touch sets the modification time of an existing entry.
func (fs *MockFileSystem) Touch(path string, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if file, exists := fs.files[filepath.Clean(path)]; exists {
		file.modTime = modTime
	}
}

// Remove deletes path and everything beneath it.
func (fs *MockFileSystem) Remove(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	for p := range fs.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.files, p)
			delete(fs.vanishing, p)
			delete(fs.unreadable, p)
		}
	}
}

// Vanish keeps path in directory listings but makes Stat and Lstat fail with
// os.ErrNotExist, as if it was deleted right after its parent was listed.
func (fs *MockFileSystem) Vanish(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.vanishing[filepath.Clean(path)] = true
}

// Unreadable keeps the directory at path in its parent's listing but makes
// listing its own contents fail with os.ErrPermission.
func (fs *MockFileSystem) Unreadable(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.unreadable[filepath.Clean(path)] = true
}

// Exists checks if a path exists in the mock filesystem.
func (fs *MockFileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[filepath.Clean(path)]
	return exists
}

// ListFiles returns all paths in the mock filesystem.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// mkdirAllLocked creates path and its parents; the lock must be held.
func (fs *MockFileSystem) mkdirAllLocked(path string, modTime time.Time) {
	if path == "." {
		return
	}

	if parent := filepath.Dir(path); parent != path {
		fs.mkdirAllLocked(parent, modTime)
	}

	if _, exists := fs.files[path]; !exists {
		fs.files[path] = &mockFile{modTime: modTime, isDir: true, perm: 0o755}
	}
}
