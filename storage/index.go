package storage

import (
	"database/sql"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

var indexTable = `CREATE TABLE IF NOT EXISTS blobs (
	blob_key varchar(255) NOT NULL PRIMARY KEY,
	blob_size int NOT NULL);`

func openIndex(root string) (*sqlx.DB, error) {
	path := filepath.Join(root, "index.db")
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		log.WithField("path", path).WithError(err).Error("couldn't open index db")
		return nil, err
	}

	db := sqlx.NewDb(sqldb, "sqlite3")
	if err := db.Ping(); err != nil {
		log.WithField("path", path).WithError(err).Error("couldn't ping index db")
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(indexTable); err != nil {
		return nil, err
	}
	return db, nil
}

func (s *Store) indexPut(key string, size int64) error {
	_, err := s.db.Exec(
		"INSERT INTO blobs(blob_key, blob_size) VALUES(?, ?) ON CONFLICT(blob_key) DO UPDATE SET blob_size = excluded.blob_size",
		key, size)
	if err != nil {
		log.WithField("key", key).WithError(err).Error("Error inserting blob into index")
	}
	return err
}

func (s *Store) indexExists(key string) (bool, error) {
	var count int
	err := s.db.QueryRowx("SELECT COUNT(*) FROM blobs WHERE blob_key = ?", key).Scan(&count)
	if err != nil {
		log.WithField("key", key).WithError(err).Error("Error querying index")
		return false, err
	}
	return count > 0, nil
}

func (s *Store) indexStat(key string) (*BlobInfo, error) {
	info := &BlobInfo{}
	err := s.db.QueryRowx("SELECT blob_key, blob_size FROM blobs WHERE blob_key = ?", key).StructScan(info)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		log.WithField("key", key).WithError(err).Error("Error querying index")
		return nil, err
	}
	return info, nil
}

func (s *Store) indexRemove(key string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM blobs WHERE blob_key = ?", key)
	if err != nil {
		log.WithField("key", key).WithError(err).Error("Error removing blob from index")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) indexList() ([]string, error) {
	keys := []string{}
	if err := s.db.Select(&keys, "SELECT blob_key FROM blobs ORDER BY blob_key"); err != nil {
		log.WithError(err).Error("Error listing index")
		return nil, err
	}
	return keys, nil
}
