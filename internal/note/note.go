// Package note defines the durable journal entry and its derived fields.
package note

import (
	"github.com/rnote-app/rnote/internal/emotion"
)

// DefaultOwnerScope is the fixed local-scope identifier used until
// multi-profile support exists.
const DefaultOwnerScope = "local_default"

// Note represents one mood-journal entry.
type Note struct {
	// ID is a ULID that uniquely identifies this note, assigned at first
	// save and immutable thereafter
	ID string

	// EmotionEmoji is the glyph chosen on the emotion scale
	EmotionEmoji string

	// EmotionScore is the 0-100 score at save time
	EmotionScore int

	// EmotionLabel is free text or the scale-derived label
	EmotionLabel string

	// Title is optional free text
	Title string

	// Body is optional free text
	Body string

	// WordCount is computed from Title + Body at commit time
	WordCount int

	// SentimentHint is the scale bucket for EmotionScore at save time
	SentimentHint emotion.Sentiment

	// IsDraft distinguishes the single in-progress draft from committed notes
	IsDraft bool

	// OwnerScope is the local-scope identifier
	OwnerScope string

	// CreatedAt is the Unix timestamp when the note was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the note was last saved
	UpdatedAt int64
}
