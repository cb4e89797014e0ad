package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/medrag/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.DocumentStore     = (*Store)(nil)
	_ driven.ChunkStore        = (*Store)(nil)
	_ driven.ConsultationStore = (*Store)(nil)
)

// Pool defaults.
const (
	DefaultMaxOpenConns = 25
	DefaultMaxIdleConns = 5
)

// Store is a Postgres database with the pgvector extension.
type Store struct {
	db *sqlx.DB
}

// Connect opens a pool to databaseURL, pings it and applies migrations.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Documents ====================

type documentRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Filename  string    `db:"filename"`
	Size      int64     `db:"size"`
	MIMEType  string    `db:"mime_type"`
	Tags      []byte    `db:"tags"`
	Metadata  []byte    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

func (r documentRow) toDomain() (*domain.Document, error) {
	doc := &domain.Document{
		ID: r.ID, UserID: r.UserID, Filename: r.Filename, Size: r.Size,
		MIMEType: r.MIMEType, CreatedAt: r.CreatedAt,
	}
	if err := decodeJSON(r.Tags, &doc.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSON(r.Metadata, &doc.Metadata); err != nil {
		return nil, err
	}
	return doc, nil
}

// SaveDocument inserts or replaces a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, filename, size, mime_type, tags, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			size = EXCLUDED.size,
			mime_type = EXCLUDED.mime_type,
			tags = EXCLUDED.tags,
			metadata = EXCLUDED.metadata
	`, doc.ID, doc.UserID, doc.Filename, doc.Size, doc.MIMEType,
		encodeJSON(doc.Tags, "[]"), encodeJSON(doc.Metadata, "{}"), doc.CreatedAt)
	if err != nil {
		return persistErr("save document", err)
	}
	return nil
}

// GetDocument retrieves a document owned by userID.
func (s *Store) GetDocument(ctx context.Context, userID, id string) (*domain.Document, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistErr("get document", err)
	}
	return row.toDomain()
}

// ListDocuments returns a user's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM documents WHERE user_id = $1 ORDER BY created_at DESC`, userID); err != nil {
		return nil, persistErr("list documents", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDomain()
		if err != nil {
			return nil, persistErr("list documents", err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// UpdateDocument changes filename and tags.
func (s *Store) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET filename = $1, tags = $2 WHERE id = $3 AND user_id = $4`,
		doc.Filename, encodeJSON(doc.Tags, "[]"), doc.ID, doc.UserID)
	if err != nil {
		return persistErr("update document", err)
	}
	return requireAffected(result, "update document")
}

// DeleteDocument removes a document. Its chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return persistErr("delete document", err)
	}
	return requireAffected(result, "delete document")
}

// ==================== Chunks ====================

type chunkRow struct {
	ID              string          `db:"id"`
	DocumentID      string          `db:"document_id"`
	UserID          string          `db:"user_id"`
	Filename        string          `db:"filename"`
	Index           int             `db:"chunk_index"`
	TotalChunks     int             `db:"total_chunks"`
	StartChar       int             `db:"start_char"`
	EndChar         int             `db:"end_char"`
	Content         string          `db:"content"`
	Embedding       pgvector.Vector `db:"embedding"`
	EmbeddingSource string          `db:"embedding_source"`
	Metadata        []byte          `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}

func (r chunkRow) toDomain() (domain.Chunk, error) {
	chunk := domain.Chunk{
		ID: r.ID, DocumentID: r.DocumentID, UserID: r.UserID, Filename: r.Filename,
		Index: r.Index, TotalChunks: r.TotalChunks, StartChar: r.StartChar, EndChar: r.EndChar,
		Content: r.Content, Embedding: r.Embedding.Slice(),
		EmbeddingSource: domain.EmbeddingSource(r.EmbeddingSource), CreatedAt: r.CreatedAt,
	}
	err := decodeJSON(r.Metadata, &chunk.Metadata)
	return chunk, err
}

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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, document_id, user_id, filename, chunk_index, total_chunks,
			start_char, end_char, content, embedding, embedding_source, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, id, chunk.DocumentID, chunk.UserID, chunk.Filename, chunk.Index, chunk.TotalChunks,
		chunk.StartChar, chunk.EndChar, chunk.Content, pgvector.NewVector(chunk.Embedding),
		string(chunk.EmbeddingSource), encodeJSON(chunk.Metadata, "{}"), createdAt)
	if err != nil {
		return "", persistErr("insert chunk", err)
	}
	return id, nil
}

// SimilaritySearch ranks the user's chunks by cosine similarity.
func (s *Store) SimilaritySearch(
	ctx context.Context, userID string, vector []float32, threshold float64, topK int,
) ([]domain.RetrievedMatch, error) {
	if len(vector) != domain.EmbeddingDimensions {
		return nil, domain.ErrDimensionMismatch
	}

	var limit any // NULL means no limit
	if topK > 0 {
		limit = topK
	}

	var rows []struct {
		ID         string  `db:"id"`
		DocumentID string  `db:"document_id"`
		Filename   string  `db:"filename"`
		Content    string  `db:"content"`
		Similarity float64 `db:"similarity"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, document_id, filename, content, 1 - (embedding <=> $1) AS similarity
		FROM chunks
		WHERE user_id = $2 AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4
	`, pgvector.NewVector(vector), userID, threshold, limit)
	if err != nil {
		return nil, persistErr("similarity search", err)
	}

	matches := make([]domain.RetrievedMatch, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, domain.RetrievedMatch{
			ChunkID: r.ID, DocumentID: r.DocumentID, Filename: r.Filename,
			Content: r.Content, Similarity: r.Similarity,
		})
	}
	return matches, nil
}

// RecentChunks returns the user's newest chunks.
func (s *Store) RecentChunks(ctx context.Context, userID string, limit int) ([]domain.Chunk, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	return s.selectChunks(ctx, "recent chunks", `
		SELECT * FROM chunks WHERE user_id = $1
		ORDER BY created_at DESC, chunk_index DESC
		LIMIT $2
	`, userID, limitArg)
}

// ListChunks returns a document's chunks ordered by index.
func (s *Store) ListChunks(ctx context.Context, userID, documentID string) ([]domain.Chunk, error) {
	return s.selectChunks(ctx, "list chunks", `
		SELECT * FROM chunks WHERE user_id = $1 AND document_id = $2
		ORDER BY chunk_index
	`, userID, documentID)
}

func (s *Store) selectChunks(ctx context.Context, op, query string, args ...any) ([]domain.Chunk, error) {
	var rows []chunkRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, persistErr(op, err)
	}
	chunks := make([]domain.Chunk, 0, len(rows))
	for _, row := range rows {
		chunk, err := row.toDomain()
		if err != nil {
			return nil, persistErr(op, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// ==================== Consultations ====================

type consultationRow struct {
	Seq              int64     `db:"seq"`
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	SessionID        string    `db:"session_id"`
	Query            string    `db:"query"`
	Response         string    `db:"response"`
	Sources          []byte    `db:"sources"`
	AgentID          string    `db:"agent_id"`
	ContextType      string    `db:"context_type"`
	ProcessingTimeMs int64     `db:"processing_time_ms"`
	Emergency        bool      `db:"emergency"`
	DetectedKeywords []byte    `db:"detected_keywords"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r consultationRow) toDomain() (domain.Consultation, error) {
	c := domain.Consultation{
		ID: r.ID, UserID: r.UserID, SessionID: r.SessionID, Query: r.Query, Response: r.Response,
		AgentID: domain.AgentID(r.AgentID), ContextType: domain.ContextType(r.ContextType),
		ProcessingTimeMs: r.ProcessingTimeMs, Emergency: r.Emergency, CreatedAt: r.CreatedAt,
	}
	if err := decodeJSON(r.Sources, &c.Sources); err != nil {
		return c, err
	}
	err := decodeJSON(r.DetectedKeywords, &c.DetectedKeywords)
	return c, err
}

// InsertConsultation stores a record, assigning ID and CreatedAt when unset.
func (s *Store) InsertConsultation(ctx context.Context, c *domain.Consultation) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consultations (id, user_id, session_id, query, response, sources, agent_id,
			context_type, processing_time_ms, emergency, detected_keywords, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, c.ID, c.UserID, c.SessionID, c.Query, c.Response, encodeJSON(c.Sources, "[]"),
		string(c.AgentID), string(c.ContextType), c.ProcessingTimeMs, c.Emergency,
		encodeJSON(c.DetectedKeywords, "[]"), c.CreatedAt)
	if err != nil {
		return persistErr("insert consultation", err)
	}
	return nil
}

// ListConsultations returns a user's records, newest first.
func (s *Store) ListConsultations(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	return s.selectConsultations(ctx, "list consultations", `
		SELECT * FROM consultations WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`, userID, limitArg)
}

// SessionHistory returns the trailing records of a session, oldest first.
func (s *Store) SessionHistory(
	ctx context.Context, userID, sessionID string, limit int,
) ([]domain.Consultation, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	return s.selectConsultations(ctx, "session history", `
		SELECT * FROM (
			SELECT * FROM consultations WHERE user_id = $1 AND session_id = $2
			ORDER BY created_at DESC, seq DESC
			LIMIT $3
		) recent
		ORDER BY created_at, seq
	`, userID, sessionID, limitArg)
}

func (s *Store) selectConsultations(ctx context.Context, op, query string, args ...any) ([]domain.Consultation, error) {
	var rows []consultationRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, persistErr(op, err)
	}
	records := make([]domain.Consultation, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, persistErr(op, err)
		}
		records = append(records, c)
	}
	return records, nil
}

// ==================== Helpers ====================

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistenceFailure, op, err)
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return persistErr(op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// encodeJSON marshals v for a JSONB column, using fallback for nil values.
func encodeJSON(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return fallback
	}
	return string(data)
}

func decodeJSON(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}
	return nil
}
