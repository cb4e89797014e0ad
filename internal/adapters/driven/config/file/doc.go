// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the user's ~/.medrag directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt text
//   - LoadSettings: typed settings from the store, a .env file and MEDRAG_* variables
package file
