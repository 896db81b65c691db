package portal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestStore_SetSnapshotRoundTrip(t *testing.T) {
	store := NewStore(NopPersistence{}, testLogger())

	user := Identity{ID: 10, FullName: "Ayşe Yılmaz", Role: RoleIndividual}
	store.Set(user, "tok-1")

	sess := store.Snapshot()
	if !sess.Authenticated() {
		t.Fatal("session should be authenticated after Set")
	}
	if sess.Token != "tok-1" {
		t.Fatalf("token = %q", sess.Token)
	}
	if sess.User.ID != 10 || sess.User.FullName != "Ayşe Yılmaz" {
		t.Fatalf("unexpected identity %+v", sess.User)
	}

	// The snapshot is a copy; mutating it must not leak into the store.
	sess.User.FullName = "changed"
	if got := store.Snapshot().User.FullName; got != "Ayşe Yılmaz" {
		t.Fatalf("snapshot mutation leaked into store: %q", got)
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := NewStore(NopPersistence{}, testLogger())
	store.Set(Identity{ID: 1, Role: RoleAdmin}, "tok")

	store.Clear()
	if store.Snapshot().Authenticated() {
		t.Fatal("session should be empty after Clear")
	}

	store.Clear()
	sess := store.Snapshot()
	if sess.User != nil || sess.Token != "" {
		t.Fatalf("second Clear left state behind: %+v", sess)
	}
}

type failingPersistence struct {
	loadErr error
}

func (p failingPersistence) Load() (Session, error) { return Session{}, p.loadErr }
func (p failingPersistence) Save(Session) error     { return errors.New("disk full") }
func (p failingPersistence) Delete() error          { return errors.New("disk full") }

func TestStore_PersistenceFailuresAreNonFatal(t *testing.T) {
	store := NewStore(failingPersistence{loadErr: errors.New("unreadable")}, testLogger())
	if store.Snapshot().Authenticated() {
		t.Fatal("load failure should start logged out")
	}

	store.Set(Identity{ID: 5, Role: RoleLawyer}, "tok")
	if !store.Snapshot().Authenticated() {
		t.Fatal("in-memory session should survive a persistence write failure")
	}

	store.Clear()
	if store.Snapshot().Authenticated() {
		t.Fatal("in-memory session should clear despite a persistence delete failure")
	}
}

func TestBoltPersistence_Rehydration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.db")

	persist, err := OpenBoltPersistence(path)
	if err != nil {
		t.Fatalf("OpenBoltPersistence: %v", err)
	}

	store := NewStore(persist, testLogger())
	if store.Snapshot().Authenticated() {
		t.Fatal("fresh file should start logged out")
	}
	store.Set(Identity{ID: 10, FullName: "Ayşe Yılmaz", Role: RoleIndividual, MustChangePassword: true}, "tok-persist")
	if err := persist.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A new process picks the session back up.
	persist2, err := OpenBoltPersistence(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer persist2.Close()

	store2 := NewStore(persist2, testLogger())
	sess := store2.Snapshot()
	if !sess.Authenticated() {
		t.Fatal("expected rehydrated session")
	}
	if sess.Token != "tok-persist" {
		t.Fatalf("token = %q", sess.Token)
	}
	if !sess.User.MustChangePassword {
		t.Fatal("must_change_password flag lost in round-trip")
	}

	store2.Clear()
	loaded, err := persist2.Load()
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if loaded.Authenticated() {
		t.Fatal("Clear should remove the durable record")
	}
}

func TestBoltPersistence_CorruptRecordFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	persist, err := OpenBoltPersistence(path)
	if err != nil {
		t.Fatalf("OpenBoltPersistence: %v", err)
	}
	defer persist.Close()

	if err := persist.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(sessionKey, []byte("{not json"))
	}); err != nil {
		t.Fatalf("plant corrupt record: %v", err)
	}

	sess, err := persist.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("corrupt record should read as logged out")
	}
}
