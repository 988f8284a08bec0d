// Package contextmgr builds normalized messages and keeps the transmitted
// history inside a token budget.
//
// Everything here is a pure function. TruncateHistory evicts the oldest
// non-system messages first and never drops a leading system message, even
// when that message alone exceeds the budget; in that case the result is
// knowingly over budget and the returned Truncation reports Degraded.
//
// Token cost is estimated through a pluggable TokenEstimator. The default,
// DefaultTokenEstimator, is the cheap len/4 heuristic; a real tokenizer can
// be swapped in without touching the eviction algorithm.
package contextmgr
