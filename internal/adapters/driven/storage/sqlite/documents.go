package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

const documentColumns = `id, user_id, filename, size, mime_type, tags, metadata, created_at`

// SaveDocument inserts or replaces a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	tags, err := encodeJSON(doc.Tags, "[]")
	if err != nil {
		return persistErr("save document", err)
	}
	metadata, err := encodeJSON(doc.Metadata, "{}")
	if err != nil {
		return persistErr("save document", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			size = excluded.size,
			mime_type = excluded.mime_type,
			tags = excluded.tags,
			metadata = excluded.metadata
	`, doc.ID, doc.UserID, doc.Filename, doc.Size, doc.MIMEType, tags, metadata, doc.CreatedAt.UTC())
	if err != nil {
		return persistErr("save document", err)
	}
	return nil
}

// GetDocument retrieves a document owned by userID.
func (s *Store) GetDocument(ctx context.Context, userID, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, persistErr("get document", err)
	}
	return doc, nil
}

// ListDocuments returns a user's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID)
	if err != nil {
		return nil, persistErr("list documents", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, persistErr("list documents", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list documents", err)
	}
	return docs, nil
}

// UpdateDocument changes filename and tags.
func (s *Store) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	tags, err := encodeJSON(doc.Tags, "[]")
	if err != nil {
		return persistErr("update document", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET filename = ?, tags = ? WHERE id = ? AND user_id = ?`,
		doc.Filename, tags, doc.ID, doc.UserID)
	if err != nil {
		return persistErr("update document", err)
	}
	return requireAffected(result, "update document")
}

// DeleteDocument removes a document. Its chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return persistErr("delete document", err)
	}
	return requireAffected(result, "delete document")
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

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var tags, metadata string

	if err := row.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.Size, &doc.MIMEType,
		&tags, &metadata, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := decodeJSON(tags, &doc.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSON(metadata, &doc.Metadata); err != nil {
		return nil, err
	}
	return &doc, nil
}
