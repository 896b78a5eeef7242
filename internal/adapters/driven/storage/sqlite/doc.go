// Package sqlite provides the SQLite-backed chunk store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It reads the two tables populated by the
// ingestion jobs and exposes both through driven.ChunkStore:
//
//   - discourse_chunks: forum post chunks, grouped by topic
//   - markdown_chunks: documentation page chunks, grouped by document title
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Existing knowledge bases are upgraded in place.
//
// # Embeddings
//
// Vectors are stored as little-endian float32 blobs. Blobs holding a JSON array,
// as written by the ingestion scripts, are decoded as well. An embedding whose
// stored hash does not match its chunk text is reported as absent.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
