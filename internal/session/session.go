// Package session implements the in-memory editing session for a single
// note: load, field mutation with dirty tracking, derived fields at save
// time, and the draft side channel.
package session

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/note"
)

// State is the session's lifecycle position.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateDirty
	StateSaving
	StateSaved
)

// String returns the state name for logs and test failure messages.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Source records where a loaded session's initial fields came from.
type Source int

const (
	SourceNone Source = iota
	SourceDraft
	SourceExisting
)

// NoteStore is the slice of the store the session depends on.
type NoteStore interface {
	GetByID(id string) (*note.Note, error)
	GetDraft() (*note.Note, error)
	Save(n *note.Note) error
	SaveDraft(n *note.Note) error
	ClearDrafts() error
}

// Session is the editable in-memory representation of one note. Not safe
// for concurrent use; each editing surface owns exactly one.
type Session struct {
	store NoteStore

	state  State
	source Source
	loaded bool

	id        string
	createdAt int64
	emoji     string
	score     int
	label     string
	title     string
	body      string

	// Set when id names a committed row. Draft saves must then mint a
	// sibling identity instead of reusing id: the draft slot is keyed by
	// the same primary key space as committed notes, and a committed note
	// never becomes a draft.
	idCommitted    bool
	draftID        string
	draftCreatedAt int64

	hasChanges bool
}

// New creates a session bound to a store. Load must be called before Save.
func New(store NoteStore) *Session {
	return &Session{store: store, state: StateEmpty}
}

// Load initializes the session. With a note id it seeds from that note and
// fails with NotFound if absent. With nil it seeds from an existing draft
// when one is present, otherwise from neutral defaults.
func (s *Session) Load(noteID *string) error {
	if noteID != nil {
		n, err := s.store.GetByID(*noteID)
		if err != nil {
			return err
		}
		s.seed(n)
		s.idCommitted = true
		s.state = StateLoaded
		s.source = SourceExisting
		s.loaded = true
		return nil
	}

	draft, err := s.store.GetDraft()
	if err != nil {
		return err
	}
	if draft != nil {
		s.seed(draft)
		s.idCommitted = false
		s.state = StateLoaded
		s.source = SourceDraft
		s.loaded = true
		return nil
	}

	def := emotion.Default()
	s.id = ""
	s.createdAt = 0
	s.emoji = def.Emoji
	s.score = def.Score
	s.label = def.Label
	s.title = ""
	s.body = ""
	s.idCommitted = false
	s.draftID = ""
	s.draftCreatedAt = 0
	s.hasChanges = false
	s.state = StateEmpty
	s.source = SourceNone
	s.loaded = true
	return nil
}

func (s *Session) seed(n *note.Note) {
	s.id = n.ID
	s.createdAt = n.CreatedAt
	s.draftID = ""
	s.draftCreatedAt = 0
	s.emoji = n.EmotionEmoji
	s.score = n.EmotionScore
	s.label = n.EmotionLabel
	s.title = n.Title
	s.body = n.Body
	s.hasChanges = false
}

// SetEmotion selects a scale level, adopting its emoji, score, and label.
func (s *Session) SetEmotion(level emotion.Level) {
	s.emoji = level.Emoji
	s.score = level.Score
	s.label = level.Label
	s.markDirty()
}

// AdjustScoreBy shifts the score by delta, clamped to [0, 100]. The emoji
// and label are left as chosen; off-checkpoint scores resolve through the
// scale's fallback at save time.
func (s *Session) AdjustScoreBy(delta int) {
	s.score = emotion.ClampScore(s.score + delta)
	s.markDirty()
}

// SetLabel sets the free-text emotion label.
func (s *Session) SetLabel(label string) {
	s.label = label
	s.markDirty()
}

// SetTitle sets the note title.
func (s *Session) SetTitle(title string) {
	s.title = title
	s.markDirty()
}

// SetBody sets the note body.
func (s *Session) SetBody(body string) {
	s.body = body
	s.markDirty()
}

func (s *Session) markDirty() {
	s.hasChanges = true
	s.state = StateDirty
}

// Save commits the session: derives sentiment and word count, assigns an
// id for a new note, clears any draft, and persists the committed note.
// On store failure the session rolls back to dirty with edits intact so
// the caller can retry.
func (s *Session) Save() (*note.Note, error) {
	if !s.loaded {
		return nil, errors.NewInvalidState("save called before load")
	}

	s.state = StateSaving

	id := s.id
	if id == "" {
		id = newID()
	}
	now := time.Now().Unix()
	createdAt := s.createdAt
	if createdAt == 0 {
		createdAt = now
	}

	n := &note.Note{
		ID:            id,
		EmotionEmoji:  s.emoji,
		EmotionScore:  s.score,
		EmotionLabel:  s.label,
		Title:         s.title,
		Body:          s.body,
		WordCount:     note.CountWords(s.title, s.body),
		SentimentHint: emotion.Lookup(s.score).Sentiment,
		IsDraft:       false,
		OwnerScope:    note.DefaultOwnerScope,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}

	if err := s.store.ClearDrafts(); err != nil {
		s.state = StateDirty
		return nil, err
	}
	if err := s.store.Save(n); err != nil {
		s.state = StateDirty
		return nil, err
	}

	s.id = id
	s.createdAt = createdAt
	s.idCommitted = true
	s.draftID = ""
	s.draftCreatedAt = 0
	s.hasChanges = false
	s.state = StateSaved
	return n, nil
}

// SaveDraft persists the session as the single draft. It is a no-op when
// nothing changed or when emoji, title, and body are all empty, so a
// meaningless draft is never written. Word count is not computed for
// drafts. The session's primary state is untouched; this is a side effect
// intended to run on backgrounding.
//
// When the session was loaded from a committed note, the draft is written
// under its own id so the committed row stays intact; Save still targets
// the committed note.
func (s *Session) SaveDraft() error {
	if !s.hasChanges {
		return nil
	}
	if s.emoji == "" && s.title == "" && s.body == "" {
		return nil
	}

	now := time.Now().Unix()
	id := s.id
	createdAt := s.createdAt
	if s.idCommitted {
		if s.draftID == "" {
			s.draftID = newID()
			s.draftCreatedAt = now
		}
		id = s.draftID
		createdAt = s.draftCreatedAt
	} else {
		if id == "" {
			id = newID()
		}
		if createdAt == 0 {
			createdAt = now
		}
	}

	draft := &note.Note{
		ID:            id,
		EmotionEmoji:  s.emoji,
		EmotionScore:  s.score,
		EmotionLabel:  s.label,
		Title:         s.title,
		Body:          s.body,
		WordCount:     0,
		SentimentHint: emotion.Lookup(s.score).Sentiment,
		IsDraft:       true,
		OwnerScope:    note.DefaultOwnerScope,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}

	if err := s.store.SaveDraft(draft); err != nil {
		return err
	}

	// Remember the identity so repeated draft saves reuse the same slot.
	if !s.idCommitted {
		s.id = id
		s.createdAt = createdAt
	}
	return nil
}

// Accessors used by surfaces and tests.

func (s *Session) State() State { return s.state }

func (s *Session) LoadSource() Source { return s.source }

func (s *Session) ID() string { return s.id }

func (s *Session) Emoji() string { return s.emoji }

func (s *Session) Score() int { return s.score }

func (s *Session) Label() string { return s.label }

func (s *Session) Title() string { return s.title }

func (s *Session) Body() string { return s.body }

func (s *Session) HasChanges() bool { return s.hasChanges }

// newID generates a ULID for a newly created note.
func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}
