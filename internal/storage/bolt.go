// Package storage persists finished scan sessions to a local bbolt file
// for CLI runs, where a Postgres instance is not assumed.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"webscan/pkg/engine"
)

const bucketSessions = "sessions"

// Store wraps a bbolt database holding terminal session snapshots.
type Store struct {
	db *bbolt.DB
}

// NewStore opens a bbolt database at the given path and initializes the
// required bucket.
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the bbolt database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession persists a terminal session snapshot.
func (s *Store) SaveSession(sess *engine.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(sess.ID), data)
	})
}

// GetSession retrieves a session snapshot by id. Returns nil when unknown.
func (s *Store) GetSession(id string) (*engine.Session, error) {
	var sess *engine.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketSessions)).Get([]byte(id))
		if data == nil {
			return nil
		}
		sess = &engine.Session{}
		return json.Unmarshal(data, sess)
	})

	return sess, err
}

// ListSessions returns all stored sessions, newest first.
func (s *Store) ListSessions() ([]*engine.Session, error) {
	var sessions []*engine.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).ForEach(func(_, v []byte) error {
			var sess engine.Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("corrupt session record: %w", err)
			}
			sessions = append(sessions, &sess)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	return sessions, nil
}

// DeleteSession removes a stored session. Deleting an unknown id is a no-op.
func (s *Store) DeleteSession(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(id))
	})
}
