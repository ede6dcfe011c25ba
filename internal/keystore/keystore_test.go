package keystore

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsandbox/rsakit"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func textbookKey(t *testing.T) *rsakit.KeyPair {
	t.Helper()
	key, err := rsakit.NewKeyPair(big.NewInt(3233), big.NewInt(17), big.NewInt(2753))
	require.NoError(t, err)
	return key
}

func TestStore_PutGet(t *testing.T) {
	s := openStore(t)
	key := textbookKey(t)

	require.NoError(t, s.Put("alice", key.Export(), false))

	got, err := s.Get("alice")
	require.NoError(t, err)

	imported, err := rsakit.ImportKeyPair(got)
	require.NoError(t, err)
	assert.True(t, imported.Equal(key))
	assert.True(t, imported.HasPrivateExponent())
}

func TestStore_PutExisting(t *testing.T) {
	s := openStore(t)
	key := textbookKey(t)

	require.NoError(t, s.Put("alice", key.Export(), false))
	err := s.Put("alice", key.ExportPublic(), false)
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, s.Put("alice", key.ExportPublic(), true))
	got, err := s.Get("alice")
	require.NoError(t, err)
	assert.Empty(t, got.PrivateExponent)
}

func TestStore_PutInvalid(t *testing.T) {
	s := openStore(t)

	bad := textbookKey(t).Export()
	bad.Fingerprint = "AAAA"
	err := s.Put("bad", bad, false)
	assert.ErrorIs(t, err, rsakit.ErrInvalidImportData)

	has, err := s.Has("bad")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_GetMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Get("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put("alice", textbookKey(t).Export(), false))

	require.NoError(t, s.Delete("alice"))
	has, err := s.Has("alice")
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, s.Delete("alice"), ErrNotFound)
}

func TestStore_List(t *testing.T) {
	s := openStore(t)
	exported := textbookKey(t).Export()

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.Put(name, exported, false))
	}

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.Put("alice", textbookKey(t).Export(), false))
	require.NoError(t, s.Close())

	s, err = Open(dir, 0, 0)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, dir, s.Path())

	has, err := s.Has("alice")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"a", "alice", "key-1", "prod.v2", "A_B"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "has space", "slash/name", "key:x", string(make([]byte, 65))} {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidName, name)
	}

	s := openStore(t)
	_, err := s.Get("bad name")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, s.Put("bad name", textbookKey(t).Export(), false), ErrInvalidName)
	assert.ErrorIs(t, s.Delete("bad name"), ErrInvalidName)
	_, err = s.Has("bad name")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestStore_Concurrent(t *testing.T) {
	s := openStore(t)
	exported := textbookKey(t).Export()
	require.NoError(t, s.Put("shared", exported, false))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := s.Get("shared")
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, exported.Fingerprint, got.Fingerprint)
				assert.NoError(t, s.Put("shared", exported, true))
			}
		}()
	}
	wg.Wait()
}
