// Package model defines the provider-agnostic capability contract used by the
// conversational agent to reach a language model backend, plus a lightweight
// MockProvider for tests and examples.
//
// Core goals:
//   - Keep the contract to a single operation (Provider.Call)
//   - Contain every backend idiosyncrasy (role labels, envelopes, where the
//     system instruction goes) inside its adapter
//   - Let plain functions qualify as providers (ProviderFunc)
//
// Adapters for concrete backends live in the openai, anthropic and gemini
// subpackages. Each takes its API key as an explicit constructor argument and
// fails fast with a core.ConfigurationError when it is empty.
package model
