// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - VocabularyStore: TOML replacement table and stop words, with an
//     embedded default
package file
