package contextmgr

import "github.com/hupe1980/convoagent/core"

// TokenEstimator maps text to an approximate, non-negative token cost.
type TokenEstimator func(text string) int

// charsPerToken is the ratio used by DefaultTokenEstimator.
const charsPerToken = 4

// DefaultTokenEstimator approximates one token per four bytes of text.
func DefaultTokenEstimator(text string) int {
	return len(text) / charsPerToken
}

// EstimateTokens sums est over the content of every message. A nil est falls
// back to DefaultTokenEstimator.
func EstimateTokens(messages []core.Message, est TokenEstimator) int {
	if est == nil {
		est = DefaultTokenEstimator
	}
	total := 0
	for _, m := range messages {
		total += est(m.Content)
	}
	return total
}
