package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"github.com/cloudflare/circl/xof"
	"golang.org/x/crypto/hkdf"
)

// NewStream returns an endless deterministic byte stream keyed by seed,
// produced by SHAKE-256. Equal seeds give equal streams.
func NewStream(seed []byte) (io.Reader, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	x := xof.SHAKE256.New()
	// Write never fails before the first Read.
	_, _ = x.Write(seed)
	return x, nil
}

// DeriveSeed derives a seed of the given length from secret using
// HKDF-SHA-512 with the given info for domain separation.
func DeriveSeed(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	seed := make([]byte, length)

	if _, err := io.ReadFull(reader, seed); err != nil {
		return nil, fmt.Errorf("failed to derive seed: %w", err)
	}

	return seed, nil
}

// ForkStreams reads a master seed of SeedSize bytes from r and returns one
// independent stream per label. The streams share no state, so each can
// be handed to its own goroutine even when r itself is not safe for
// concurrent use.
func ForkStreams(r io.Reader, labels ...string) ([]io.Reader, error) {
	master := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, master); err != nil {
		return nil, fmt.Errorf("read master seed: %w", err)
	}
	defer clear(master)

	streams := make([]io.Reader, 0, len(labels))
	for _, label := range labels {
		seed, err := DeriveSeed(master, nil, []byte(SeedContext+":"+label), SeedSize)
		if err != nil {
			return nil, err
		}

		stream, err := NewStream(seed)
		clear(seed)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}

	return streams, nil
}
