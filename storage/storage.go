package storage

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jmoiron/sqlx"
)

var log = logrus.WithField("logger", "storage")

// ErrKeyNotFound - the requested key has no stored blob
var ErrKeyNotFound = errors.New("key not found")

const defaultBucket = "default"

// BlobInfo describes one stored blob
type BlobInfo struct {
	Key  string `db:"blob_key"`
	Size int64  `db:"blob_size"`
}

// Store is a durable key to blob mapping rooted at a single directory. Blob
// bytes live as files under <root>/default/data with hex-encoded key names;
// a sqlite index alongside them serves list and stat.
type Store struct {
	root string
	db   *sqlx.DB
}

// Open creates the storage layout under root if needed and opens the index
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(dataDir(root), 0755); err != nil {
		log.WithField("root", root).WithError(err).Error("Failed to create storage layout")
		return nil, err
	}
	db, err := openIndex(root)
	if err != nil {
		return nil, err
	}
	return &Store{root: root, db: db}, nil
}

// Close releases the index connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Root returns the storage root directory
func (s *Store) Root() string {
	return s.root
}

func dataDir(root string) string {
	return filepath.Join(root, defaultBucket, "data")
}

// Key names are hex-encoded on disk so arbitrary key strings can't escape
// the data directory or collide with filesystem semantics.
func (s *Store) pathForKey(key string) string {
	return filepath.Join(dataDir(s.root), hex.EncodeToString([]byte(key)))
}

// Put stores data under key, replacing any previous blob
func (s *Store) Put(key string, data []byte) error {
	if err := writeFileAtomic(s.pathForKey(key), data); err != nil {
		log.WithField("key", key).WithError(err).Error("Failed to write blob")
		return err
	}
	return s.indexPut(key, int64(len(data)))
}

// PutFromFile stores the contents of the file at path under key
func (s *Store) PutFromFile(key string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Put(key, data)
}

// Get returns the blob stored under key, or ErrKeyNotFound
func (s *Store) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.pathForKey(key))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

// GetToFile writes the blob stored under key to the file at path
func (s *Store) GetToFile(key string, path string) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Exists reports whether key has a stored blob
func (s *Store) Exists(key string) (bool, error) {
	return s.indexExists(key)
}

// Stat returns metadata for key, or ErrKeyNotFound
func (s *Store) Stat(key string) (*BlobInfo, error) {
	return s.indexStat(key)
}

// Remove deletes the blob under key and reports whether it was present
func (s *Store) Remove(key string) (bool, error) {
	removed, err := s.indexRemove(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(s.pathForKey(key))
	if err != nil && !os.IsNotExist(err) {
		return removed, err
	}
	return removed, nil
}

// List returns all stored keys in sorted order
func (s *Store) List() ([]string, error) {
	return s.indexList()
}

// Blobs land under their final name only via rename so a crashed put never
// leaves a partial blob visible.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp-" + strconv.Itoa(os.Getpid())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
