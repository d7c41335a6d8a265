// Package nodes provides built-in Node adapters that wrap an external collaborator (an LLM
// client, an HTTP client, a filesystem) behind the agentflow.Node contract, plus two
// composition adapters (batch fan-out, boolean branching) that need no collaborator at all.
// Each adapter's real work lives behind a small interface (LLMClient, HTTPDoer, FileSystem) so
// tests substitute a fake instead of calling out to a real service.
package nodes
