package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/note"
)

const noteColumns = `id, emotion_emoji, emotion_score, emotion_label,
	title, body, word_count, sentiment_hint, is_draft, owner_scope,
	created_at, updated_at`

// Insert stores a new note row.
func Insert(db *sql.DB, n *note.Note) error {
	query := `
		INSERT INTO notes (
			id, emotion_emoji, emotion_score, emotion_label,
			title, body, word_count, sentiment_hint, is_draft, owner_scope,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		n.ID, n.EmotionEmoji, n.EmotionScore, n.EmotionLabel,
		n.Title, n.Body, n.WordCount, string(n.SentimentHint), boolToInt(n.IsDraft), n.OwnerScope,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return errors.NewStorage(err)
	}

	return nil
}

// UpdateByID updates mutable fields of an existing note and refreshes
// updated_at. created_at and id never change. Returns NotFound if no row
// with the given id exists.
func UpdateByID(db *sql.DB, n *note.Note) error {
	now := time.Now().Unix()

	query := `
		UPDATE notes
		SET emotion_emoji = ?, emotion_score = ?, emotion_label = ?,
			title = ?, body = ?, word_count = ?, sentiment_hint = ?,
			is_draft = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		n.EmotionEmoji, n.EmotionScore, n.EmotionLabel,
		n.Title, n.Body, n.WordCount, string(n.SentimentHint),
		boolToInt(n.IsDraft), now,
		n.ID,
	)
	if err != nil {
		return errors.NewStorage(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStorage(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(n.ID)
	}

	n.UpdatedAt = now

	return nil
}

// GetByID retrieves a note (draft or committed) by its ULID.
func GetByID(db *sql.DB, id string) (*note.Note, error) {
	row := db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	return n, nil
}

// GetDraft returns the single draft row, or nil when no draft exists.
// Draft absence is the normal case, not an error.
func GetDraft(db *sql.DB) (*note.Note, error) {
	row := db.QueryRow(`SELECT ` + noteColumns + ` FROM notes WHERE is_draft = 1 LIMIT 1`)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	return n, nil
}

// ListCommitted returns all non-draft notes, newest-created first.
// Ties on created_at break on id descending so the order is total.
func ListCommitted(db *sql.DB) ([]note.Note, error) {
	rows, err := db.Query(`
		SELECT ` + noteColumns + `
		FROM notes
		WHERE is_draft = 0
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	notes := make([]note.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.NewStorage(err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}

	return notes, nil
}

// Delete removes a note row by id. Deleting an id that does not exist is
// a no-op, not an error.
func Delete(db *sql.DB, id string) error {
	if _, err := db.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// DeleteMany removes all rows whose id appears in ids. Missing ids are
// ignored. An empty slice is a no-op.
func DeleteMany(db *sql.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := db.Exec(`DELETE FROM notes WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// ReplaceDraft atomically clears any existing draft and inserts n with the
// draft flag set. The delete and insert run in one transaction so a crash
// between the two steps can never leave zero-or-two-draft torn state
// visible to readers.
func ReplaceDraft(db *sql.DB, n *note.Note) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewStorage(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM notes WHERE is_draft = 1`); err != nil {
		return errors.NewStorage(err)
	}

	query := `
		INSERT INTO notes (
			id, emotion_emoji, emotion_score, emotion_label,
			title, body, word_count, sentiment_hint, is_draft, owner_scope,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		n.ID, n.EmotionEmoji, n.EmotionScore, n.EmotionLabel,
		n.Title, n.Body, n.WordCount, string(n.SentimentHint), n.OwnerScope,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return errors.NewStorage(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// ClearDrafts removes all draft rows (expected cardinality 0 or 1).
func ClearDrafts(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM notes WHERE is_draft = 1`); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// CountDrafts returns the number of draft rows. Used to verify the
// single-draft invariant in tests.
func CountDrafts(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notes WHERE is_draft = 1`).Scan(&count); err != nil {
		return 0, errors.NewStorage(err)
	}
	return count, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNote scans a single row into a Note struct.
func scanNote(row rowScanner) (*note.Note, error) {
	var (
		n         note.Note
		sentiment string
		isDraft   int
	)

	err := row.Scan(
		&n.ID, &n.EmotionEmoji, &n.EmotionScore, &n.EmotionLabel,
		&n.Title, &n.Body, &n.WordCount, &sentiment, &isDraft, &n.OwnerScope,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.SentimentHint = emotion.Sentiment(sentiment)
	n.IsDraft = isDraft != 0

	return &n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
