package export

import (
	"strings"
	"testing"
	"time"

	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/note"
)

func TestParsePromptType(t *testing.T) {
	for _, raw := range []string{"analysis", "weekly_report", "counseling", " Analysis ", "COUNSELING"} {
		p, err := ParsePromptType(raw)
		if err != nil {
			t.Errorf("ParsePromptType(%q) failed: %v", raw, err)
		}
		if !p.Valid() {
			t.Errorf("ParsePromptType(%q) = %q, not valid", raw, p)
		}
	}

	_, err := ParsePromptType("therapy")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("unknown prompt type should be ErrInvalidRequest, got: %v", err)
	}
}

func TestPromptType_TemplatesDistinct(t *testing.T) {
	seen := make(map[string]PromptType)
	for _, p := range PromptTypes {
		tmpl := p.Template()
		if tmpl == "" {
			t.Errorf("%q has empty template", p)
		}
		if prev, ok := seen[tmpl]; ok {
			t.Errorf("%q and %q share a template", prev, p)
		}
		seen[tmpl] = p
		if p.Label() == "" || p.Emoji() == "" {
			t.Errorf("%q missing label or emoji", p)
		}
	}
}

func TestBuildShareText_Structure(t *testing.T) {
	day := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	n1 := exportNote("01FIRST", day.Unix(), 70, emotion.SentimentPositive)
	n1.EmotionEmoji = "\U0001F642"
	n1.EmotionLabel = "A Bit Good"
	n1.Title = "morning walk"
	n1.Body = "clear sky, good coffee"
	n2 := exportNote("01SECOND", day.Add(24*time.Hour).Unix(), 30, emotion.SentimentNegative)
	n2.EmotionEmoji = "\U0001F614"
	n2.EmotionLabel = ""
	n2.Title = ""
	n2.Body = "rough afternoon"

	// Deliberately out of order; share text sorts ascending
	text := BuildShareText([]note.Note{n2, n1}, PromptAnalysis)

	if !strings.HasPrefix(text, PromptAnalysis.Template()+"\n\n") {
		t.Error("share text must start with the prompt template and a blank line")
	}

	for _, want := range []string{
		"\U0001F4CA Data Summary",
		"Period: 2026-08-27 ~ 2026-08-28",
		"Total notes: 2",
		"Average emotion score: 50",
		"Sentiment: positive 1 / neutral 0 / negative 1",
		"\U0001F4C8 Emotion Flow",
		"2026-08-27 | \U0001F642 70%",
		"2026-08-28 | \U0001F614 30%",
		"\U0001F4DD Detail Records",
		"\U0001F4C5 2026-08-27 | \U0001F642 70%",
		"Emotion: A Bit Good",
		"Title: morning walk",
		"clear sky, good coffee",
		"rough afternoon",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q\n---\n%s", want, text)
		}
	}

	// Timeline must come out in ascending creation order
	if strings.Index(text, "2026-08-27 |") > strings.Index(text, "2026-08-28 |") {
		t.Error("emotion flow not in ascending date order")
	}

	// Empty label and title lines are omitted for the second record
	if strings.Contains(text, "Emotion: \n") || strings.Contains(text, "Title: \n") {
		t.Error("empty label/title must not produce empty lines")
	}
}

func TestBuildShareText_RecordSeparators(t *testing.T) {
	at := time.Now().Unix()
	notes := []note.Note{
		exportNote("01A", at, 50, emotion.SentimentNeutral),
		exportNote("01B", at+1, 50, emotion.SentimentNeutral),
	}

	text := BuildShareText(notes, PromptCounseling)

	// One separator for the summary plus one per detail record
	if got := strings.Count(text, "---\n"); got != 3 {
		t.Errorf("separator count = %d, want 3\n---\n%s", got, text)
	}
}

func TestBuildShareText_EmptyCollection(t *testing.T) {
	text := BuildShareText(nil, PromptWeeklyReport)

	if !strings.Contains(text, "Total notes: 0") {
		t.Error("empty share text should still carry the summary")
	}
	if !strings.Contains(text, "Period:  ~ ") {
		t.Error("empty period fields expected for empty collection")
	}
}
