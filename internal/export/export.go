// Package export transforms a note collection into the structured export
// document and the prompt-annotated share texts. Building is pure and
// deterministic; file output lives in file.go.
package export

import (
	"sort"
	"time"

	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/note"
)

const (
	// AppName identifies the producing application in export metadata.
	AppName = "R:Note"

	// SchemaVersion is the export document version.
	SchemaVersion = "0.3.0"

	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02T15:04:05"
)

// Package is the structured export document.
type Package struct {
	ExportInfo      ExportInfo      `json:"export_info"`
	EmotionTimeline []TimelineEntry `json:"emotion_timeline"`
	Notes           []ExportNote    `json:"notes"`
}

// ExportInfo carries export metadata and aggregate statistics.
type ExportInfo struct {
	App                   string                `json:"app"`
	Version               string                `json:"version"`
	ExportedAt            string                `json:"exported_at"`
	Period                Period                `json:"period"`
	TotalNotes            int                   `json:"total_notes"`
	AvgEmotionScore       int                   `json:"avg_emotion_score"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
}

// Period is the first/last creation date of the exported set.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SentimentDistribution counts notes per sentiment bucket.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TimelineEntry is one point of the emotion timeline.
type TimelineEntry struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Emoji string `json:"emoji"`
}

// ExportNote is the full per-note record in the export document.
type ExportNote struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	EmotionEmoji string `json:"emotion_emoji"`
	EmotionScore int    `json:"emotion_score"`
	EmotionLabel string `json:"emotion_label"`
	Sentiment    string `json:"sentiment"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	WordCount    int    `json:"word_count"`
}

// sortByCreation returns a copy of notes ordered ascending by creation
// timestamp, ties broken by id so the order is total.
func sortByCreation(notes []note.Note) []note.Note {
	sorted := make([]note.Note, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt != sorted[j].CreatedAt {
			return sorted[i].CreatedAt < sorted[j].CreatedAt
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// stats holds the aggregates shared by both export formats.
type stats struct {
	from     string
	to       string
	avgScore int
	dist     SentimentDistribution
}

// computeStats derives period, truncated mean score, and sentiment counts
// from an already-sorted collection. Empty input yields empty period
// fields and zero counts.
func computeStats(sorted []note.Note) stats {
	var s stats
	if len(sorted) == 0 {
		return s
	}

	s.from = formatDate(sorted[0].CreatedAt)
	s.to = formatDate(sorted[len(sorted)-1].CreatedAt)

	sum := 0
	for _, n := range sorted {
		sum += n.EmotionScore
		switch n.SentimentHint {
		case emotion.SentimentPositive:
			s.dist.Positive++
		case emotion.SentimentNegative:
			s.dist.Negative++
		default:
			s.dist.Neutral++
		}
	}
	s.avgScore = sum / len(sorted)

	return s
}

// BuildPackage produces the structured export document for notes.
// exportedAt is injected so callers control the metadata timestamp and
// tests stay deterministic.
func BuildPackage(notes []note.Note, exportedAt time.Time) Package {
	sorted := sortByCreation(notes)
	st := computeStats(sorted)

	timeline := make([]TimelineEntry, 0, len(sorted))
	exportNotes := make([]ExportNote, 0, len(sorted))
	for _, n := range sorted {
		date := formatDate(n.CreatedAt)
		timeline = append(timeline, TimelineEntry{
			Date:  date,
			Score: n.EmotionScore,
			Emoji: n.EmotionEmoji,
		})
		exportNotes = append(exportNotes, ExportNote{
			ID:           n.ID,
			Date:         date,
			EmotionEmoji: n.EmotionEmoji,
			EmotionScore: n.EmotionScore,
			EmotionLabel: n.EmotionLabel,
			Sentiment:    string(n.SentimentHint),
			Title:        n.Title,
			Content:      n.Body,
			WordCount:    n.WordCount,
		})
	}

	return Package{
		ExportInfo: ExportInfo{
			App:                   AppName,
			Version:               SchemaVersion,
			ExportedAt:            exportedAt.Format(dateTimeFormat),
			Period:                Period{From: st.from, To: st.to},
			TotalNotes:            len(sorted),
			AvgEmotionScore:       st.avgScore,
			SentimentDistribution: st.dist,
		},
		EmotionTimeline: timeline,
		Notes:           exportNotes,
	}
}

func formatDate(unixSec int64) string {
	return time.Unix(unixSec, 0).Format(dateFormat)
}
