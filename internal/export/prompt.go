package export

import (
	"fmt"
	"strings"

	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/note"
)

// PromptType selects which analysis prompt heads a share text. The set
// is closed; ParsePromptType rejects anything else.
type PromptType string

const (
	PromptAnalysis     PromptType = "analysis"
	PromptWeeklyReport PromptType = "weekly_report"
	PromptCounseling   PromptType = "counseling"
)

// PromptTypes lists every valid prompt type in display order.
var PromptTypes = []PromptType{PromptAnalysis, PromptWeeklyReport, PromptCounseling}

// Valid reports whether p is one of the known prompt types.
func (p PromptType) Valid() bool {
	switch p {
	case PromptAnalysis, PromptWeeklyReport, PromptCounseling:
		return true
	}
	return false
}

// Label returns the short human-readable name of the prompt type.
func (p PromptType) Label() string {
	switch p {
	case PromptAnalysis:
		return "Emotion Analysis"
	case PromptWeeklyReport:
		return "Weekly Report"
	case PromptCounseling:
		return "Counseling"
	}
	return string(p)
}

// Emoji returns the icon shown beside the prompt type in pickers.
func (p PromptType) Emoji() string {
	switch p {
	case PromptAnalysis:
		return "\U0001F4C8"
	case PromptWeeklyReport:
		return "\U0001F4CB"
	case PromptCounseling:
		return "\U0001F4AC"
	}
	return ""
}

// Template returns the instruction paragraph that opens the share text.
func (p PromptType) Template() string {
	switch p {
	case PromptAnalysis:
		return "Below is my emotion journal data. Please analyze my emotional patterns: recurring triggers, trends over time, and anything notable about how my mood shifts."
	case PromptWeeklyReport:
		return "Below is my emotion journal data. Please write a weekly report summarizing my emotional state, highlighting the best and hardest moments, with a short outlook for the coming week."
	case PromptCounseling:
		return "Below is my emotion journal data. Please respond as a warm, supportive counselor: reflect on what I have been feeling and offer gentle, practical suggestions."
	}
	return ""
}

// ParsePromptType converts raw input into a PromptType, failing with an
// invalid-request error for unknown values.
func ParsePromptType(raw string) (PromptType, error) {
	p := PromptType(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown prompt type %q (valid: analysis, weekly_report, counseling)", raw))
	}
	return p, nil
}

// BuildShareText renders notes as a plain-text block ready to paste into
// an AI chat: the prompt template, a data summary, the emotion flow
// timeline, and per-note detail records.
func BuildShareText(notes []note.Note, promptType PromptType) string {
	sorted := sortByCreation(notes)
	st := computeStats(sorted)

	var b strings.Builder

	b.WriteString(promptType.Template())
	b.WriteString("\n\n")

	b.WriteString("---\n")
	b.WriteString("\U0001F4CA Data Summary\n")
	fmt.Fprintf(&b, "Period: %s ~ %s\n", st.from, st.to)
	fmt.Fprintf(&b, "Total notes: %d\n", len(sorted))
	fmt.Fprintf(&b, "Average emotion score: %d\n", st.avgScore)
	fmt.Fprintf(&b, "Sentiment: positive %d / neutral %d / negative %d\n",
		st.dist.Positive, st.dist.Neutral, st.dist.Negative)
	b.WriteString("\n")

	b.WriteString("\U0001F4C8 Emotion Flow\n")
	for _, n := range sorted {
		fmt.Fprintf(&b, "%s | %s %d%%\n", formatDate(n.CreatedAt), n.EmotionEmoji, n.EmotionScore)
	}
	b.WriteString("\n")

	b.WriteString("\U0001F4DD Detail Records\n")
	for _, n := range sorted {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "\U0001F4C5 %s | %s %d%%\n", formatDate(n.CreatedAt), n.EmotionEmoji, n.EmotionScore)
		if n.EmotionLabel != "" {
			fmt.Fprintf(&b, "Emotion: %s\n", n.EmotionLabel)
		}
		if n.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", n.Title)
		}
		if n.Body != "" {
			b.WriteString(n.Body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
