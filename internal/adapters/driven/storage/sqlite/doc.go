// Package sqlite provides the default SQLite implementation of the medrag stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database backs three store interfaces:
//
//   - DocumentStore: uploaded document records
//   - ChunkStore: embedded chunks and similarity search
//   - ConsultationStore: consultation history
//
// # Similarity search
//
// Embeddings are stored as little-endian float32 blobs. The package registers
// a deterministic cosine_similarity(a, b) SQL function so that scoring,
// thresholding and ranking happen inside the query.
//
// # Schema
//
// The schema is managed through numbered migrations in the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.medrag/data/medrag.db
package sqlite
