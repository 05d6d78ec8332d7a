package sentiment

import (
	"strings"

	"movie-review-service/internal/models"
)

var positiveWords = []string{
	"amazing", "excellent", "great", "wonderful", "fantastic", "awesome", "love", "loved",
	"brilliant", "outstanding", "perfect", "masterpiece", "beautiful", "incredible",
	"superb", "best", "favorite", "phenomenal", "breathtaking", "stunning", "impressive",
	"entertaining", "enjoyable", "delightful", "captivating", "thrilling", "compelling",
}

var negativeWords = []string{
	"terrible", "awful", "bad", "worst", "horrible", "disappointing", "boring", "waste",
	"poor", "mediocre", "dull", "weak", "failed", "mess", "disaster", "hate", "hated",
	"tedious", "confusing", "pointless", "unwatchable", "overrated", "forgettable",
}

// Classify labels text by counting positive and negative cue words. The
// scan is case-insensitive and substring-based: each list word found
// anywhere in the text counts once, token boundaries are not checked.
// Ties, including no hits at all, are neutral.
func Classify(text string) models.Sentiment {
	lower := strings.ToLower(text)

	var positiveCount, negativeCount int
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			positiveCount++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negativeCount++
		}
	}

	switch {
	case positiveCount > negativeCount:
		return models.SentimentPositive
	case negativeCount > positiveCount:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
