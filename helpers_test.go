package rsakit

import (
	"context"
	"io"
	"testing"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// seeded returns a deterministic random source for reproducible keys.
func seeded(t testing.TB, seed string) io.Reader {
	t.Helper()
	r, err := crypto.NewStream([]byte(seed))
	if err != nil {
		t.Fatalf("NewStream() error = %v", err)
	}
	return r
}

// testKey generates a reproducible key of the given size.
func testKey(t testing.TB, bits int, seed string, opts ...Option) *KeyPair {
	t.Helper()
	opts = append([]Option{WithRand(seeded(t, seed))}, opts...)
	key, err := GenerateKeyPair(context.Background(), bits, opts...)
	if err != nil {
		t.Fatalf("GenerateKeyPair(%d) error = %v", bits, err)
	}
	return key
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
