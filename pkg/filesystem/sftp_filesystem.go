package filesystem

import (
	"os"
	"path"
	"sort"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem for a directory tree on a remote host.
// Remote paths always use forward slashes.
type SFTPFileSystem struct {
	client *sftp.Client
	closer func() error
}

// NewSFTPFileSystem creates a filesystem on an established connection.
// Closing the filesystem closes the connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{
		client: conn.Client(),
		closer: conn.Close,
	}
}

// Abs resolves path against the remote working directory (usually $HOME).
func (fs *SFTPFileSystem) Abs(p string) (string, error) {
	if path.IsAbs(p) {
		return path.Clean(p), nil
	}

	resolved, err := fs.client.RealPath(p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve remote path %s", p)
	}

	return path.Clean(resolved), nil
}

// Close closes the underlying SFTP session and SSH connection.
func (fs *SFTPFileSystem) Close() error {
	if fs.closer != nil {
		return fs.closer()
	}

	return nil
}

// Join joins remote path elements.
func (fs *SFTPFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// Lstat returns file information without following symlinks.
func (fs *SFTPFileSystem) Lstat(p string) (os.FileInfo, error) {
	info, err := fs.client.Lstat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lstat remote file %s", p)
	}

	return info, nil
}

// ReadDir lists a remote directory in name order.
func (fs *SFTPFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	infos, err := fs.client.ReadDir(dirname)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read remote directory %s", dirname)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Scan returns a pre-order iterator over a remote directory tree.
func (fs *SFTPFileSystem) Scan(root string) FileScanner {
	return newWalkScanner(fs, root)
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(p string) (os.FileInfo, error) {
	info, err := fs.client.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat remote file %s", p)
	}

	return info, nil
}
