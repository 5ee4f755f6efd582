package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/note"
)

func exportNote(id string, createdAt int64, score int, sentiment emotion.Sentiment) note.Note {
	return note.Note{
		ID:            id,
		EmotionEmoji:  "\U0001F610",
		EmotionScore:  score,
		EmotionLabel:  "Neutral",
		Title:         "t-" + id,
		Body:          "body " + id,
		WordCount:     3,
		SentimentHint: sentiment,
		OwnerScope:    note.DefaultOwnerScope,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestBuildPackage_SortsByCreationAscending(t *testing.T) {
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local).Unix()
	notes := []note.Note{
		exportNote("01C", base+200, 50, emotion.SentimentNeutral),
		exportNote("01A", base, 50, emotion.SentimentNeutral),
		exportNote("01B", base+100, 50, emotion.SentimentNeutral),
	}

	pkg := BuildPackage(notes, time.Now())

	gotIDs := make([]string, len(pkg.Notes))
	for i, n := range pkg.Notes {
		gotIDs[i] = n.ID
	}
	want := []string{"01A", "01B", "01C"}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("note order = %v, want %v", gotIDs, want)
		}
	}
	if len(pkg.EmotionTimeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(pkg.EmotionTimeline))
	}
	for i, entry := range pkg.EmotionTimeline {
		if entry.Date != pkg.Notes[i].Date {
			t.Errorf("timeline[%d].Date = %q, notes[%d].Date = %q; must align", i, entry.Date, i, pkg.Notes[i].Date)
		}
	}
}

func TestBuildPackage_TiesBrokenByID(t *testing.T) {
	at := time.Now().Unix()
	notes := []note.Note{
		exportNote("01ZZ", at, 50, emotion.SentimentNeutral),
		exportNote("01AA", at, 50, emotion.SentimentNeutral),
	}

	pkg := BuildPackage(notes, time.Now())
	if pkg.Notes[0].ID != "01AA" || pkg.Notes[1].ID != "01ZZ" {
		t.Errorf("equal timestamps should order by id, got %q then %q", pkg.Notes[0].ID, pkg.Notes[1].ID)
	}
}

func TestBuildPackage_AverageIsTruncatedMean(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   int
	}{
		{"mixed", []int{0, 100}, 50},
		{"uniform", []int{10, 10, 10}, 10},
		{"truncates", []int{30, 30, 40}, 33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := time.Now().Unix()
			notes := make([]note.Note, len(tc.scores))
			for i, score := range tc.scores {
				notes[i] = exportNote("01N"+string(rune('A'+i)), at+int64(i), score, emotion.SentimentNeutral)
			}
			pkg := BuildPackage(notes, time.Now())
			if pkg.ExportInfo.AvgEmotionScore != tc.want {
				t.Errorf("avg = %d, want %d", pkg.ExportInfo.AvgEmotionScore, tc.want)
			}
		})
	}
}

func TestBuildPackage_SentimentDistributionSumsToTotal(t *testing.T) {
	at := time.Now().Unix()
	notes := []note.Note{
		exportNote("01P1", at, 80, emotion.SentimentPositive),
		exportNote("01P2", at+1, 60, emotion.SentimentPositive),
		exportNote("01N1", at+2, 50, emotion.SentimentNeutral),
		exportNote("01G1", at+3, 20, emotion.SentimentNegative),
	}

	pkg := BuildPackage(notes, time.Now())
	dist := pkg.ExportInfo.SentimentDistribution
	if dist.Positive != 2 || dist.Neutral != 1 || dist.Negative != 1 {
		t.Errorf("distribution = %+v, want 2/1/1", dist)
	}
	if sum := dist.Positive + dist.Neutral + dist.Negative; sum != pkg.ExportInfo.TotalNotes {
		t.Errorf("distribution sum = %d, total = %d; must match", sum, pkg.ExportInfo.TotalNotes)
	}
}

func TestBuildPackage_Empty(t *testing.T) {
	pkg := BuildPackage(nil, time.Now())

	if pkg.ExportInfo.TotalNotes != 0 {
		t.Errorf("TotalNotes = %d, want 0", pkg.ExportInfo.TotalNotes)
	}
	if pkg.ExportInfo.AvgEmotionScore != 0 {
		t.Errorf("AvgEmotionScore = %d, want 0", pkg.ExportInfo.AvgEmotionScore)
	}
	if pkg.ExportInfo.Period.From != "" || pkg.ExportInfo.Period.To != "" {
		t.Errorf("Period = %+v, want empty fields", pkg.ExportInfo.Period)
	}

	// Arrays must serialize as [], never null
	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("empty export contains null arrays: %s", data)
	}
}

func TestBuildPackage_Period(t *testing.T) {
	first := time.Date(2026, 8, 20, 8, 0, 0, 0, time.Local)
	last := time.Date(2026, 8, 28, 22, 0, 0, 0, time.Local)
	notes := []note.Note{
		exportNote("01LATE", last.Unix(), 50, emotion.SentimentNeutral),
		exportNote("01EARLY", first.Unix(), 50, emotion.SentimentNeutral),
	}

	pkg := BuildPackage(notes, time.Now())
	if pkg.ExportInfo.Period.From != "2026-08-20" {
		t.Errorf("Period.From = %q, want 2026-08-20", pkg.ExportInfo.Period.From)
	}
	if pkg.ExportInfo.Period.To != "2026-08-28" {
		t.Errorf("Period.To = %q, want 2026-08-28", pkg.ExportInfo.Period.To)
	}
}

func TestBuildPackage_JSONFieldNames(t *testing.T) {
	at := time.Date(2026, 8, 27, 10, 0, 0, 0, time.Local).Unix()
	pkg := BuildPackage([]note.Note{exportNote("01J", at, 50, emotion.SentimentNeutral)}, time.Now())

	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, field := range []string{
		`"export_info"`, `"emotion_timeline"`, `"notes"`,
		`"exported_at"`, `"total_notes"`, `"avg_emotion_score"`, `"sentiment_distribution"`,
		`"emotion_emoji"`, `"emotion_score"`, `"emotion_label"`, `"word_count"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("export JSON missing field %s", field)
		}
	}
}
