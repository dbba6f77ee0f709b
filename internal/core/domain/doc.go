// Package domain defines the core business entities for linuxrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A retrieved corpus passage with metadata
//   - Citation: A structured source pointer justifying an answer
//   - PromptBundle: The assembled material for one generation call
//   - AskRequest / AskResponse: The question and answer envelopes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
