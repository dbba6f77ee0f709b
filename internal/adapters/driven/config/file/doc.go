// Package file provides file-based configuration and prompt storage.
//
// Settings load once at startup from a TOML file with environment-variable
// overrides on top; prompts are user-editable text files with embedded
// defaults and filesystem-watch invalidation.
package file
