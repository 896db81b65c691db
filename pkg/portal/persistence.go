package portal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	sessionKey    = []byte("current")
)

// BoltPersistence stores the session record as one JSON value in a local
// bolt file, so a restarted client picks up where it left off.
type BoltPersistence struct {
	db *bolt.DB
}

// OpenBoltPersistence opens (or creates) the bolt file and ensures the
// session bucket exists.
func OpenBoltPersistence(path string) (*BoltPersistence, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &BoltPersistence{db: db}, nil
}

// Load reads the saved session. A missing or unparsable record comes back as
// an empty session, never an error.
func (p *BoltPersistence) Load() (Session, error) {
	var raw []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionBucket).Get(sessionKey); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	if len(raw) == 0 {
		return Session{}, nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt record is treated as logged out.
		return Session{}, nil
	}
	return sess, nil
}

func (p *BoltPersistence) Save(sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(sessionKey, payload)
	})
}

func (p *BoltPersistence) Delete() error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}

// Close closes the underlying bolt file.
func (p *BoltPersistence) Close() error {
	return p.db.Close()
}
