// Package agent contains the conversational orchestrator: ConversationalAgent
// owns a bounded rolling history and, on every turn, composes the context
// manager (budget trimming) with a bound model.Provider.
//
// Data flow per turn:
//
//	user text -> append user message -> contextmgr.TruncateHistory (copy)
//	          -> Provider.Call -> append assistant message -> reply
//
// The agent never branches on provider identity; every backend convention is
// contained inside the provider adapter. Budget trimming only shapes what is
// sent, not what is retained, unless Options.TrimRetained is set.
package agent
