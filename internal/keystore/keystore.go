// Package keystore persists exported rsakit key pairs in a LevelDB
// database keyed by name.
package keystore

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vaultsandbox/rsakit"
)

const (
	// minCache is the minimum amount of memory in megabytes
	// to allocate to leveldb.
	minCache = 16

	// minHandles is the minimum number of files handles to
	// allocate to the open database files.
	minHandles = 32

	keyPrefix = "key:"

	// DirMode is used when creating the store directory.
	DirMode = 0o700
)

var (
	// ErrNotFound is returned when no key is stored under a name.
	ErrNotFound = errors.New("key not found")
	// ErrExists is returned by Put when the name is taken.
	ErrExists = errors.New("key already exists")
	// ErrInvalidName is returned for names outside [A-Za-z0-9._-]{1,64}.
	ErrInvalidName = errors.New("invalid key name")
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Store is a named collection of key pairs.
type Store struct {
	fn string
	db *leveldb.DB
	l  *sync.RWMutex
}

// Open opens or creates the store at fpath. A corrupted database is
// recovered in place.
func Open(fpath string, memory, handles int) (*Store, error) {
	if _, err := os.Stat(fpath); err != nil {
		if err := os.MkdirAll(fpath, DirMode); err != nil {
			return nil, errors.Wrap(err, "create keystore dir")
		}
	}

	db, err := leveldb.OpenFile(fpath, configureOptions(memory, handles))
	if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(fpath, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open keystore")
	}

	return &Store{fn: fpath, db: db, l: new(sync.RWMutex)}, nil
}

func configureOptions(cache, handles int) *opt.Options {
	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
	}
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	options.OpenFilesCacheCapacity = handles
	options.BlockCacheCapacity = cache / 2 * opt.MiB
	options.WriteBuffer = cache / 4 * opt.MiB
	return options
}

// Path returns the directory backing the store.
func (s *Store) Path() string {
	return s.fn
}

// Close releases the database.
func (s *Store) Close() error {
	s.l.Lock()
	defer s.l.Unlock()
	return s.db.Close()
}

// ValidateName reports whether name can be used as a key name.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// Put stores the export of key under name. Existing entries are only
// replaced when overwrite is set.
func (s *Store) Put(name string, key *rsakit.ExportedKeyPair, overwrite bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return errors.Wrap(err, "refusing to store key")
	}
	data, err := json.Marshal(key)
	if err != nil {
		return errors.Wrap(err, "marshal key")
	}

	s.l.Lock()
	defer s.l.Unlock()

	if !overwrite {
		ok, err := s.db.Has(dbKey(name), nil)
		if err != nil {
			return errors.Wrap(err, "check key")
		}
		if ok {
			return errors.Wrapf(ErrExists, "%q", name)
		}
	}
	return errors.Wrap(s.db.Put(dbKey(name), data, nil), "put key")
}

// Get returns the key stored under name.
func (s *Store) Get(name string) (*rsakit.ExportedKeyPair, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.l.RLock()
	data, err := s.db.Get(dbKey(name), nil)
	s.l.RUnlock()
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get key")
	}

	var key rsakit.ExportedKeyPair
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, errors.Wrapf(err, "decode key %q", name)
	}
	return &key, nil
}

// Has reports whether a key is stored under name.
func (s *Store) Has(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	s.l.RLock()
	defer s.l.RUnlock()
	return s.db.Has(dbKey(name), nil)
}

// Delete removes the key stored under name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.l.Lock()
	defer s.l.Unlock()

	ok, err := s.db.Has(dbKey(name), nil)
	if err != nil {
		return errors.Wrap(err, "check key")
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return errors.Wrap(s.db.Delete(dbKey(name), nil), "delete key")
}

// List returns the stored names in lexical order.
func (s *Store) List() ([]string, error) {
	result := make([]string, 0)
	s.l.RLock()
	defer s.l.RUnlock()
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	for iter.Next() {
		result = append(result, strings.TrimPrefix(string(iter.Key()), keyPrefix))
	}
	iter.Release()
	return result, iter.Error()
}

func dbKey(name string) []byte {
	return []byte(keyPrefix + name)
}
