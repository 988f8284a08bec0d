// Package core provides the foundational, provider-agnostic types shared by
// every other package:
//
//   - Role / Message (the normalized conversation record)
//   - Config (the immutable parameters of one model invocation)
//   - ConfigurationError / ProviderError (the error taxonomy)
//   - CallLimiter (a per-conversation cap on provider calls)
//
// Apart from the limiter the package holds no behaviour beyond construction
// and validation; history
// management lives in contextmgr and orchestration in agent.
package core
