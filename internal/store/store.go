// Package store provides the durable note store: keyed CRUD, the
// single-slot draft mechanism, and a live subscription to the committed
// note collection.
package store

import (
	"database/sql"

	"github.com/rnote-app/rnote/internal/db"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/note"
)

// Store wraps the SQLite layer and fans out change notifications to live
// subscribers. Construct one per process and pass references down; there
// is no ambient global instance.
type Store struct {
	database *sql.DB
	subs     *subscribers
}

// New creates a Store over an initialized database handle.
func New(database *sql.DB) *Store {
	return &Store{
		database: database,
		subs:     newSubscribers(),
	}
}

// Save persists a committed note. If a row with the note's id already
// exists it is updated (updated_at refreshed, created_at untouched),
// otherwise the note is inserted. Saves are last-write-wins on id.
func (s *Store) Save(n *note.Note) error {
	if n == nil {
		return errors.NewInvalidRequest("note is required")
	}
	if n.IsDraft {
		return errors.NewInvalidRequest("Save is for committed notes; use SaveDraft for drafts")
	}
	if n.ID == "" {
		return errors.NewInvalidRequest("note id is required")
	}

	err := db.UpdateByID(s.database, n)
	if errors.Is(err, errors.ErrNotFound) {
		err = db.Insert(s.database, n)
	}
	if err != nil {
		return err
	}

	s.broadcast()
	return nil
}

// GetByID retrieves a note (draft or committed) by id.
func (s *Store) GetByID(id string) (*note.Note, error) {
	return db.GetByID(s.database, id)
}

// GetDraft returns the single draft if one exists, or nil.
func (s *Store) GetDraft() (*note.Note, error) {
	return db.GetDraft(s.database)
}

// All returns the current committed note collection, newest-created first.
func (s *Store) All() ([]note.Note, error) {
	return db.ListCommitted(s.database)
}

// Delete removes a note by id. Deleting a missing id is a no-op.
func (s *Store) Delete(id string) error {
	if err := db.Delete(s.database, id); err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// DeleteMany removes all notes whose ids appear in ids.
func (s *Store) DeleteMany(ids []string) error {
	if err := db.DeleteMany(s.database, ids); err != nil {
		return err
	}
	if len(ids) > 0 {
		s.broadcast()
	}
	return nil
}

// SaveDraft atomically replaces any existing draft with n. The note is
// stored with the draft flag set regardless of its incoming value. Drafts
// are invisible to the live subscription, so no notification is emitted.
func (s *Store) SaveDraft(n *note.Note) error {
	if n == nil {
		return errors.NewInvalidRequest("note is required")
	}
	if n.ID == "" {
		return errors.NewInvalidRequest("note id is required")
	}

	draft := *n
	draft.IsDraft = true
	return db.ReplaceDraft(s.database, &draft)
}

// ClearDrafts removes all draft records (expected cardinality 0 or 1).
func (s *Store) ClearDrafts() error {
	return db.ClearDrafts(s.database)
}

// broadcast pushes a fresh snapshot of the committed collection to every
// live subscriber. A snapshot query failure skips the publish; subscribers
// keep their last delivered set and the next mutation retries.
func (s *Store) broadcast() {
	if s.subs.empty() {
		return
	}
	snapshot, err := db.ListCommitted(s.database)
	if err != nil {
		return
	}
	s.subs.publish(snapshot)
}
