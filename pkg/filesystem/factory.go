package filesystem

import (
	"context"

	"github.com/pkg/errors"
)

// ErrMixedLocations is returned when roots span more than one filesystem.
var ErrMixedLocations = errors.New("all roots must be on the same filesystem")

// Open creates one FileSystem serving every location in raw.
// Returns (filesystem, paths, closer, error).
//   - filesystem: The FileSystem to scan with
//   - paths: The paths to register, stripped of any URL prefix, in input order
//   - closer: A function to call when done (closes SFTP connections), never nil
//
// All locations must be local, or all on the same remote account.
func Open(ctx context.Context, raw []string, opts ConnectOptions) (FileSystem, []string, func(), error) {
	locations, err := ParseLocations(raw)
	if err != nil {
		return nil, nil, nil, err
	}

	paths := make([]string, 0, len(locations))
	for _, loc := range locations {
		paths = append(paths, loc.Path)
	}

	first := locations[0]
	if !first.Remote {
		return NewRealFileSystem(), paths, func() {}, nil
	}

	conn, err := Connect(ctx, first, opts)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to connect to %s", first.Endpoint())
	}

	fs := NewSFTPFileSystem(conn)
	closer := func() {
		_ = fs.Close()
	}

	return fs, paths, closer, nil
}

// ParseLocations parses every location in raw and checks they share one filesystem.
func ParseLocations(raw []string) ([]*Location, error) {
	if len(raw) == 0 {
		return nil, errors.New("no locations given")
	}

	locations := make([]*Location, 0, len(raw))

	for _, r := range raw {
		loc, err := ParseLocation(r)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid location %q", r)
		}

		if len(locations) > 0 && !locations[0].SameEndpoint(loc) {
			return nil, errors.Wrapf(ErrMixedLocations, "%s and %s", locations[0], loc)
		}

		locations = append(locations, loc)
	}

	return locations, nil
}
