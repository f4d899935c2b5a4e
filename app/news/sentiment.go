package news

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// SentimentFromPolarity maps a polarity in [-1, 1] to a label. Both thresholds are exclusive.
func SentimentFromPolarity(polarity float64) Sentiment {
	switch {
	case polarity > positiveThreshold:
		return SentimentPositive
	case polarity < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// VaderClassifier scores text with the VADER lexicon.
type VaderClassifier struct {
	once     sync.Once
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ SentimentClassifier = (*VaderClassifier)(nil)

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

// Ensure loads the lexicon. It is safe to call more than once.
func (c *VaderClassifier) Ensure() {
	c.once.Do(func() {
		c.analyzer = govader.NewSentimentIntensityAnalyzer()
		slog.Debug("Sentiment lexicon loaded")
	})
}

// Polarity returns the compound score of text in [-1, 1].
func (c *VaderClassifier) Polarity(text string) float64 {
	c.Ensure()
	return c.analyzer.PolarityScores(text).Compound
}

func (c *VaderClassifier) Classify(text string) Sentiment {
	return SentimentFromPolarity(c.Polarity(text))
}

// ParseSentiment matches a label case-insensitively.
func ParseSentiment(s string) (Sentiment, bool) {
	for _, label := range []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral} {
		if strings.EqualFold(s, string(label)) {
			return label, true
		}
	}
	return "", false
}
