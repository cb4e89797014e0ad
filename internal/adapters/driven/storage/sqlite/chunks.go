package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

const chunkColumns = `id, document_id, user_id, filename, chunk_index, total_chunks,
	start_char, end_char, content, embedding, embedding_source, metadata, created_at`

// InsertChunk stores a chunk under a fresh id unless one is set.
func (s *Store) InsertChunk(ctx context.Context, chunk *domain.Chunk) (string, error) {
	if err := chunk.ValidateEmbedding(); err != nil {
		return "", err
	}

	id := chunk.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	metadata, err := encodeJSON(chunk.Metadata, "{}")
	if err != nil {
		return "", persistErr("insert chunk", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, chunk.DocumentID, chunk.UserID, chunk.Filename, chunk.Index, chunk.TotalChunks,
		chunk.StartChar, chunk.EndChar, chunk.Content, encodeVector(chunk.Embedding),
		string(chunk.EmbeddingSource), metadata, createdAt.UTC())
	if err != nil {
		return "", persistErr("insert chunk", err)
	}
	return id, nil
}

// SimilaritySearch ranks the user's chunks with the cosine_similarity function.
func (s *Store) SimilaritySearch(
	ctx context.Context, userID string, vector []float32, threshold float64, topK int,
) ([]domain.RetrievedMatch, error) {
	if len(vector) != domain.EmbeddingDimensions {
		return nil, domain.ErrDimensionMismatch
	}
	if topK <= 0 {
		topK = -1 // no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, filename, content, similarity FROM (
			SELECT id, document_id, filename, content, created_at,
				cosine_similarity(embedding, ?) AS similarity
			FROM chunks
			WHERE user_id = ?
		)
		WHERE similarity >= ?
		ORDER BY similarity DESC, created_at DESC
		LIMIT ?
	`, encodeVector(vector), userID, threshold, topK)
	if err != nil {
		return nil, persistErr("similarity search", err)
	}
	defer rows.Close()

	matches := make([]domain.RetrievedMatch, 0)
	for rows.Next() {
		var m domain.RetrievedMatch
		if err := rows.Scan(&m.ChunkID, &m.DocumentID, &m.Filename, &m.Content, &m.Similarity); err != nil {
			return nil, persistErr("similarity search", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("similarity search", err)
	}
	return matches, nil
}

// RecentChunks returns the user's newest chunks.
func (s *Store) RecentChunks(ctx context.Context, userID string, limit int) ([]domain.Chunk, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryChunks(ctx, "recent chunks", `
		SELECT `+chunkColumns+` FROM chunks
		WHERE user_id = ?
		ORDER BY created_at DESC, chunk_index DESC
		LIMIT ?
	`, userID, limit)
}

// ListChunks returns a document's chunks ordered by index.
func (s *Store) ListChunks(ctx context.Context, userID, documentID string) ([]domain.Chunk, error) {
	return s.queryChunks(ctx, "list chunks", `
		SELECT `+chunkColumns+` FROM chunks
		WHERE user_id = ? AND document_id = ?
		ORDER BY chunk_index
	`, userID, documentID)
}

func (s *Store) queryChunks(ctx context.Context, op, query string, args ...any) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr(op, err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, persistErr(op, err)
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op, err)
	}
	return chunks, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embedding []byte
	var source, metadata string

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.UserID, &chunk.Filename,
		&chunk.Index, &chunk.TotalChunks, &chunk.StartChar, &chunk.EndChar, &chunk.Content,
		&embedding, &source, &metadata, &chunk.CreatedAt); err != nil {
		return nil, err
	}
	chunk.Embedding = decodeVector(embedding)
	chunk.EmbeddingSource = domain.EmbeddingSource(source)
	if err := decodeJSON(metadata, &chunk.Metadata); err != nil {
		return nil, err
	}
	return &chunk, nil
}
