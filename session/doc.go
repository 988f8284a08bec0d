// Package session keeps many independent conversations in one process.
//
// Each session owns exactly one agent.ConversationalAgent. The agent itself is
// single-writer; the store serialises every access to a given session with a
// per-session lock so that different sessions run fully in parallel while
// turns inside one session never interleave.
//
// Histories live in process memory only and disappear with the store. Add
// additional backends in sub-packages without changing any calling code;
// only the wiring layer needs to decide which Store to instantiate.
package session
