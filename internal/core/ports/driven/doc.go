// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text from one family of file formats
//   - Chunker: Splits extracted text into overlapping chunks
//   - DocumentStore: Document persistence
//   - ChunkStore: Chunk persistence and similarity search
//   - ConsultationStore: Consultation record persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be empty - the application degrades gracefully:
//
//   - EmbeddingStrategy: One embedding back end. With none configured, uploads
//     and queries fail with ErrNoEmbeddingServiceAvailable.
//   - ChatAgent: One completion back end. An unregistered agent yields ErrAgentUnavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
