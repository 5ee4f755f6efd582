package note

// View is the wire representation of a note for JSON surfaces (MCP
// results, the web viewer's JSON endpoints, CLI output).
type View struct {
	ID string `json:"id"`

	EmotionEmoji string `json:"emotion_emoji"`

	EmotionScore int `json:"emotion_score"`

	EmotionLabel string `json:"emotion_label"`

	// Title is omitted when empty
	Title string `json:"title,omitempty"`

	Body string `json:"body,omitempty"`

	WordCount int `json:"word_count"`

	Sentiment string `json:"sentiment"`

	// CreatedAt is the Unix timestamp when the note was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the note was last saved
	UpdatedAt int64 `json:"updated_at"`
}

// ToView converts a Note to its wire representation.
func (n *Note) ToView() View {
	return View{
		ID:           n.ID,
		EmotionEmoji: n.EmotionEmoji,
		EmotionScore: n.EmotionScore,
		EmotionLabel: n.EmotionLabel,
		Title:        n.Title,
		Body:         n.Body,
		WordCount:    n.WordCount,
		Sentiment:    string(n.SentimentHint),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

// ToViews converts a slice of notes to wire representations.
func ToViews(notes []Note) []View {
	views := make([]View, len(notes))
	for i := range notes {
		views[i] = notes[i].ToView()
	}
	return views
}
