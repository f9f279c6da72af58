// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration in config.toml
//   - PromptStore: User-editable prompt templates in prompts/*.txt
package file
