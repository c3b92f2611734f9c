package filesystem

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// defaultSFTPPort is used when an sftp:// URL names no port.
const defaultSFTPPort = 22

// Location is a watch root given on the command line: either a local path or
// a directory on a remote host reached over SFTP.
type Location struct {
	Remote bool

	// Path is the local path, or the path on the remote host
	Path string

	// For SFTP locations
	Host string
	Port int
	User string
}

// Endpoint identifies the remote account a location lives on ("user@host:port").
// Local locations return the empty string.
func (l *Location) Endpoint() string {
	if !l.Remote {
		return ""
	}

	return fmt.Sprintf("%s@%s:%d", l.User, l.Host, l.Port)
}

// SameEndpoint reports whether l and other can share one filesystem.
func (l *Location) SameEndpoint(other *Location) bool {
	return l.Remote == other.Remote && l.Endpoint() == other.Endpoint()
}

// String renders the location the way it would be typed.
func (l *Location) String() string {
	if !l.Remote {
		return l.Path
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", l.User, l.Host, l.Port, l.Path)
}

// ParseLocation parses a root argument, detecting whether it's a local path or SFTP URL.
// SFTP URLs have the format: sftp://user@host:port/path/to/dir
// Port is optional (defaults to 22)
// Examples:
//   - sftp://joe@myserver.com/home/joe/data
//   - sftp://joe@myserver.com:2222/backups
//   - /local/path/to/files (local path)
func ParseLocation(raw string) (*Location, error) {
	if strings.HasPrefix(raw, "sftp://") {
		return parseSFTPURL(raw)
	}

	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty path")
	}

	return &Location{Path: raw}, nil
}

// parseSFTPURL parses an SFTP URL into its components.
//
//nolint:cyclop // Complexity from comprehensive SFTP URL validation (scheme, user, host, port, path)
func parseSFTPURL(sftpURL string) (*Location, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, errors.Wrap(err, "invalid SFTP URL")
	}

	if u.Scheme != "sftp" {
		return nil, errors.Errorf("expected sftp:// scheme, got %s://", u.Scheme)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, errors.New("SFTP URL must include username (sftp://user@host/path)")
	}

	host := u.Hostname()
	if host == "" {
		return nil, errors.New("SFTP URL must include host")
	}

	port := defaultSFTPPort
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, errors.Wrap(err, "invalid port number")
		}
		if p <= 0 || p > 65535 {
			return nil, errors.Errorf("port %d out of range", p)
		}
		port = p
	}

	// SFTP path convention:
	//   sftp://user@host/path  → relative to home directory (strip leading /)
	//   sftp://user@host//path → absolute path /path (strip one /)
	//   sftp://user@host       → home directory (.)
	remotePath := u.Path
	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &Location{
		Remote: true,
		Host:   host,
		Port:   port,
		User:   u.User.Username(),
		Path:   remotePath,
	}, nil
}
