// Package domain defines the core business entities for medrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded medical document owned by one user
//   - Chunk: An embedded, retrievable span of a document's text
//   - MedicalProfile: Patient facts used to personalise prompts
//   - ConversationTurn: One message of a consultation session
//   - RetrievedMatch: A transient similarity hit for one query
//   - Consultation: The persisted record of an answered query
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
