// Package embedding holds helpers shared by the embedding strategies.
// The strategies themselves live in the primary and openai subpackages.
package embedding
