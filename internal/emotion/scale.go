// Package emotion defines the fixed emotion scale used to tag notes.
//
// The scale is an ordered list of 11 levels at score checkpoints
// 0, 10, ..., 100. It is loaded once at process start and never mutated.
package emotion

// Sentiment is the coarse bucket a score maps to.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Score bounds for free adjustment.
const (
	MinScore = 0
	MaxScore = 100
)

// Level is one entry of the emotion scale.
type Level struct {
	Emoji     string
	Score     int
	Label     string
	Sentiment Sentiment
}

// Scale is the fixed emotion table, ordered by score.
var Scale = []Level{
	{Emoji: "\U0001F62D", Score: 0, Label: "Worst", Sentiment: SentimentNegative},
	{Emoji: "\U0001F622", Score: 10, Label: "Terrible", Sentiment: SentimentNegative},
	{Emoji: "\U0001F61E", Score: 20, Label: "Very Bad", Sentiment: SentimentNegative},
	{Emoji: "\U0001F615", Score: 30, Label: "Bad", Sentiment: SentimentNegative},
	{Emoji: "\U0001F641", Score: 40, Label: "A Bit Down", Sentiment: SentimentNeutral},
	{Emoji: "\U0001F610", Score: 50, Label: "Neutral", Sentiment: SentimentNeutral},
	{Emoji: "\U0001F642", Score: 60, Label: "A Bit Good", Sentiment: SentimentPositive},
	{Emoji: "\U0001F60A", Score: 70, Label: "Good", Sentiment: SentimentPositive},
	{Emoji: "\U0001F604", Score: 80, Label: "Very Good", Sentiment: SentimentPositive},
	{Emoji: "\U0001F606", Score: 90, Label: "Great", Sentiment: SentimentPositive},
	{Emoji: "\U0001F929", Score: 100, Label: "Amazing", Sentiment: SentimentPositive},
}

// fallbackIndex points at the neutral midpoint entry (score 50).
const fallbackIndex = 5

// Default returns the level a fresh editing session starts from.
func Default() Level {
	return Scale[fallbackIndex]
}

// Lookup returns the level whose checkpoint exactly equals score.
// Any other score, including in-between values produced by free
// adjustment, resolves to the neutral fallback. The table is not
// interpolated.
func Lookup(score int) Level {
	for _, l := range Scale {
		if l.Score == score {
			return l
		}
	}
	return Scale[fallbackIndex]
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
