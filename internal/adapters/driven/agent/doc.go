// Package agent holds the chat agent adapters.
//
// Subpackages:
//   - container: document-grounded service bound to the user's session (POST /chat)
//   - general: OpenAI-compatible chat completion API (POST /chat/completions)
package agent
