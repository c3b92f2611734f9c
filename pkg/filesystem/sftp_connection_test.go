//nolint:varnamelen // Test files use idiomatic short variable names (t, etc.)
package filesystem_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dirpoll/pkg/filesystem"
)

// TestConnect_UnreachableHost verifies a failed dial surfaces as a connection
// error rather than a configuration error.
func TestConnect_UnreachableHost(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	loc := &filesystem.Location{Remote: true, Host: "192.0.2.1", Port: 22, User: "user"} // TEST-NET-1 (RFC 5737)
	conn, err := filesystem.Connect(ctx, loc, filesystem.ConnectOptions{
		InsecureIgnoreHostKey: true,
		Timeout:               time.Second,
	})

	g.Expect(conn).Should(BeNil())
	g.Expect(err).Should(HaveOccurred())

	// Machines without an agent or default keys fail before dialing.
	if !errors.Is(err, filesystem.ErrNoAuthMethods) {
		g.Expect(err.Error()).Should(ContainSubstring("SSH connection failed"))
	}
}
