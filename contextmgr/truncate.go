package contextmgr

import "github.com/hupe1980/convoagent/core"

// Truncation describes the outcome of one TruncateHistoryWithReport call.
type Truncation struct {
	// Messages is the budget-compliant view, protected prefix first.
	Messages []core.Message
	// Evicted counts conversation messages dropped from the front.
	Evicted int
	// Tokens is the estimated cost of Messages.
	Tokens int
	// Degraded is set when the protected system message alone exceeds the
	// limit, so Messages is over budget by policy.
	Degraded bool
}

// TruncateHistory returns a new slice holding the leading system message (if
// any) followed by the shortest suffix of the remaining conversation whose
// estimated cost, together with the system message, fits within limit.
//
// The input is never modified. An empty history yields an empty slice. A nil
// est falls back to DefaultTokenEstimator.
func TruncateHistory(history []core.Message, limit int, est TokenEstimator) []core.Message {
	return TruncateHistoryWithReport(history, limit, est).Messages
}

// TruncateHistoryWithReport is TruncateHistory plus eviction statistics.
func TruncateHistoryWithReport(history []core.Message, limit int, est TokenEstimator) Truncation {
	if len(history) == 0 {
		return Truncation{Messages: []core.Message{}}
	}
	if est == nil {
		est = DefaultTokenEstimator
	}

	var prefix []core.Message
	conversation := history
	if history[0].IsSystem() {
		prefix = history[:1]
		conversation = history[1:]
	}

	prefixCost := EstimateTokens(prefix, est)

	// Costs are estimated once; eviction subtracts from the running total.
	costs := make([]int, len(conversation))
	total := prefixCost
	for i, m := range conversation {
		costs[i] = est(m.Content)
		total += costs[i]
	}

	start := 0
	for total > limit && start < len(conversation) {
		total -= costs[start]
		start++
	}

	out := make([]core.Message, 0, len(prefix)+len(conversation)-start)
	out = append(out, prefix...)
	out = append(out, conversation[start:]...)

	return Truncation{
		Messages: out,
		Evicted:  start,
		Tokens:   total,
		Degraded: prefixCost > limit,
	}
}
