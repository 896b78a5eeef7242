package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Forum chunks form one adjacency group per topic. Their sequence is the
// ordinal position inside the topic so windows can span consecutive posts.
// hasContent matches the rows that become chunks.
const hasContent = `content IS NOT NULL AND content != ''`

const forumColumns = `
	COALESCE(post_id, 0), COALESCE(topic_id, 0), COALESCE(topic_title, ''), COALESCE(post_number, 0),
	COALESCE(author, ''), COALESCE(created_at, ''), COALESCE(likes, 0),
	COALESCE(chunk_index, 0), content, COALESCE(url, ''), embedding, embedding_hash,
	ROW_NUMBER() OVER (PARTITION BY COALESCE(topic_id, 0) ORDER BY post_number, chunk_index, id) - 1`

const documentColumns = `
	COALESCE(doc_title, ''), COALESCE(original_url, ''), COALESCE(downloaded_at, ''),
	COALESCE(chunk_index, 0), content, embedding, embedding_hash,
	ROW_NUMBER() OVER (PARTITION BY COALESCE(doc_title, '') ORDER BY chunk_index, id) - 1`

// AllChunks streams forum chunks followed by documentation chunks.
func (s *Store) AllChunks(ctx context.Context) iter.Seq2[domain.Chunk, error] {
	return func(yield func(domain.Chunk, error) bool) {
		queries := []struct {
			kind  domain.SourceKind
			query string
		}{
			{domain.SourceForumPost, `SELECT ` + forumColumns + ` FROM discourse_chunks
				WHERE ` + hasContent + `
				ORDER BY COALESCE(topic_id, 0), post_number, chunk_index, id`},
			{domain.SourceDocumentPage, `SELECT ` + documentColumns + ` FROM markdown_chunks
				WHERE ` + hasContent + `
				ORDER BY COALESCE(doc_title, ''), chunk_index, id`},
		}

		for _, q := range queries {
			if !s.stream(ctx, q.kind, q.query, nil, yield) {
				return
			}
		}
	}
}

// stream runs one query and yields its rows. Returns false when iteration
// must stop.
func (s *Store) stream(
	ctx context.Context, kind domain.SourceKind, query string, args []any,
	yield func(domain.Chunk, error) bool,
) bool {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		yield(domain.Chunk{}, fmt.Errorf("%w: querying %s chunks: %w", domain.ErrStoreUnavailable, kind, err))
		return false
	}
	defer rows.Close()

	for rows.Next() {
		chunk, err := scanChunk(rows, kind)
		if err != nil {
			yield(domain.Chunk{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err))
			return false
		}
		if !yield(chunk, nil) {
			return false
		}
	}

	if err := rows.Err(); err != nil {
		yield(domain.Chunk{}, fmt.Errorf("%w: iterating %s chunks: %w", domain.ErrStoreUnavailable, kind, err))
		return false
	}
	return true
}

// CountChunks returns the number of chunks held for a source kind. Rows
// without content are not chunks and are not counted.
func (s *Store) CountChunks(ctx context.Context, kind domain.SourceKind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+hasContent)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting %s: %w", domain.ErrStoreUnavailable, table, err)
	}
	return n, nil
}

// CountEmbedded returns the number of chunks whose embedding is present and
// still matches the chunk text.
func (s *Store) CountEmbedded(ctx context.Context, kind domain.SourceKind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(content, ''), embedding_hash FROM `+table+`
		WHERE embedding IS NOT NULL AND length(embedding) > 0 AND `+hasContent)
	if err != nil {
		return 0, fmt.Errorf("%w: counting embedded %s: %w", domain.ErrStoreUnavailable, table, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var content string
		var hash sql.NullString
		if err := rows.Scan(&content, &hash); err != nil {
			return 0, fmt.Errorf("%w: scanning %s: %w", domain.ErrStoreUnavailable, table, err)
		}
		if hashMatches(hash, content) {
			n++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: iterating %s: %w", domain.ErrStoreUnavailable, table, err)
	}
	return n, nil
}

// ParentChunks returns the chunks of one topic or document ordered by sequence.
func (s *Store) ParentChunks(
	ctx context.Context, kind domain.SourceKind, parentID string,
) ([]domain.Chunk, error) {
	var query string
	var args []any

	switch kind {
	case domain.SourceForumPost:
		topicID, err := strconv.ParseInt(parentID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: topic id %q", domain.ErrInvalidInput, parentID)
		}
		query = `SELECT ` + forumColumns + ` FROM discourse_chunks
			WHERE COALESCE(topic_id, 0) = ? AND ` + hasContent + `
			ORDER BY post_number, chunk_index, id`
		args = []any{topicID}
	case domain.SourceDocumentPage:
		query = `SELECT ` + documentColumns + ` FROM markdown_chunks
			WHERE COALESCE(doc_title, '') = ? AND ` + hasContent + `
			ORDER BY chunk_index, id`
		args = []any{parentID}
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, kind)
	}

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	var streamErr error
	s.stream(ctx, kind, query, args, func(c domain.Chunk, err error) bool {
		if err != nil {
			streamErr = err
			return false
		}
		chunks = append(chunks, c)
		return true
	})
	if streamErr != nil {
		return nil, streamErr
	}
	return chunks, nil
}

// SaveChunk inserts or replaces a chunk identified by its post or document
// and its chunk index. Sequence is ignored; it is derived on read.
func (s *Store) SaveChunk(ctx context.Context, chunk domain.Chunk) error {
	if chunk.Text == "" {
		return fmt.Errorf("%w: chunk text is empty", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	switch chunk.Kind {
	case domain.SourceForumPost:
		err = saveForumChunk(ctx, tx, chunk)
	case domain.SourceDocumentPage:
		err = saveDocumentChunk(ctx, tx, chunk)
	default:
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, chunk.Kind)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func saveForumChunk(ctx context.Context, tx *sql.Tx, chunk domain.Chunk) error {
	postID, err := strconv.ParseInt(chunk.SourceID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: post id %q", domain.ErrInvalidInput, chunk.SourceID)
	}
	topicID, err := strconv.ParseInt(chunk.ParentID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: topic id %q", domain.ErrInvalidInput, chunk.ParentID)
	}

	idx := chunk.Metadata.ChunkIndex
	existing, err := lookupExisting(ctx, tx, `
		SELECT id, COALESCE(content, ''), embedding, embedding_hash
		FROM discourse_chunks WHERE post_id = ? AND chunk_index = ? LIMIT 1`, postID, idx)
	if err != nil {
		return err
	}
	blob, hash := embeddingColumns(chunk, existing)
	meta := chunk.Metadata

	if existing == nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO discourse_chunks (post_id, topic_id, topic_title, post_number, author,
				created_at, likes, chunk_index, content, url, embedding, embedding_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, postID, topicID, meta.Title, meta.PostNumber, meta.Author,
			formatTime(meta.CreatedAt), meta.Likes, idx, chunk.Text, chunk.URL, blob, hash)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE discourse_chunks SET topic_id = ?, topic_title = ?, post_number = ?, author = ?,
				created_at = ?, likes = ?, content = ?, url = ?, embedding = ?, embedding_hash = ?
			WHERE id = ?
		`, topicID, meta.Title, meta.PostNumber, meta.Author,
			formatTime(meta.CreatedAt), meta.Likes, chunk.Text, chunk.URL, blob, hash, existing.id)
	}
	if err != nil {
		return fmt.Errorf("%w: saving forum chunk: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func saveDocumentChunk(ctx context.Context, tx *sql.Tx, chunk domain.Chunk) error {
	title := chunk.ParentID
	if title == "" {
		title = chunk.SourceID
	}
	if title == "" {
		return fmt.Errorf("%w: document title is empty", domain.ErrInvalidInput)
	}

	idx := chunk.Metadata.ChunkIndex
	existing, err := lookupExisting(ctx, tx, `
		SELECT id, COALESCE(content, ''), embedding, embedding_hash
		FROM markdown_chunks WHERE doc_title = ? AND chunk_index = ? LIMIT 1`, title, idx)
	if err != nil {
		return err
	}
	blob, hash := embeddingColumns(chunk, existing)

	if existing == nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO markdown_chunks (doc_title, original_url, downloaded_at, chunk_index,
				content, embedding, embedding_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, title, chunk.URL, formatTime(chunk.Metadata.CreatedAt), idx, chunk.Text, blob, hash)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE markdown_chunks SET original_url = ?, downloaded_at = ?, content = ?,
				embedding = ?, embedding_hash = ?
			WHERE id = ?
		`, chunk.URL, formatTime(chunk.Metadata.CreatedAt), chunk.Text, blob, hash, existing.id)
	}
	if err != nil {
		return fmt.Errorf("%w: saving document chunk: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// existingRow is the part of a stored row needed to decide embedding reuse.
type existingRow struct {
	id        int64
	content   string
	embedding []byte
	hash      sql.NullString
}

func lookupExisting(ctx context.Context, tx *sql.Tx, query string, args ...any) (*existingRow, error) {
	var row existingRow
	err := tx.QueryRowContext(ctx, query, args...).Scan(&row.id, &row.content, &row.embedding, &row.hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: looking up chunk: %w", domain.ErrStoreUnavailable, err)
	}
	return &row, nil
}

// embeddingColumns decides what to persist in embedding and embedding_hash.
// A new vector always wins. Otherwise the stored vector survives only if the
// text is unchanged.
func embeddingColumns(chunk domain.Chunk, existing *existingRow) (blob, hash any) {
	if chunk.HasEmbedding() {
		return float32SliceToBytes(chunk.Embedding), domain.TextHash(chunk.Text)
	}
	if existing != nil && existing.content == chunk.Text && len(existing.embedding) > 0 {
		if existing.hash.Valid {
			return existing.embedding, existing.hash.String
		}
		return existing.embedding, domain.TextHash(chunk.Text)
	}
	return nil, nil
}

func tableFor(kind domain.SourceKind) (string, error) {
	switch kind {
	case domain.SourceForumPost:
		return "discourse_chunks", nil
	case domain.SourceDocumentPage:
		return "markdown_chunks", nil
	default:
		return "", fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, kind)
	}
}

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanChunk maps a forum or document row onto the uniform chunk shape.
func scanChunk(rows rowScanner, kind domain.SourceKind) (domain.Chunk, error) {
	var chunk domain.Chunk
	var content sql.NullString
	var blob []byte
	var hash sql.NullString
	var created string

	chunk.Kind = kind

	switch kind {
	case domain.SourceForumPost:
		var postID, topicID int64
		if err := rows.Scan(&postID, &topicID, &chunk.Metadata.Title, &chunk.Metadata.PostNumber,
			&chunk.Metadata.Author, &created, &chunk.Metadata.Likes, &chunk.Metadata.ChunkIndex,
			&content, &chunk.URL, &blob, &hash, &chunk.Sequence); err != nil {
			return domain.Chunk{}, fmt.Errorf("scanning forum chunk: %w", err)
		}
		chunk.SourceID = strconv.FormatInt(postID, 10)
		chunk.ParentID = strconv.FormatInt(topicID, 10)
	default:
		if err := rows.Scan(&chunk.Metadata.Title, &chunk.URL, &created, &chunk.Metadata.ChunkIndex,
			&content, &blob, &hash, &chunk.Sequence); err != nil {
			return domain.Chunk{}, fmt.Errorf("scanning document chunk: %w", err)
		}
		chunk.SourceID = chunk.Metadata.Title
		chunk.ParentID = chunk.Metadata.Title
	}

	chunk.Text = content.String
	chunk.Metadata.CreatedAt = parseTime(created)

	if len(blob) > 0 {
		switch {
		case !hashMatches(hash, chunk.Text):
			logger.Debug("Stale embedding for %s %s#%d", kind, chunk.SourceID, chunk.Metadata.ChunkIndex)
		default:
			emb, err := decodeEmbedding(blob)
			if err != nil {
				logger.Warn("Unreadable embedding for %s %s#%d: %v", kind, chunk.SourceID, chunk.Metadata.ChunkIndex, err)
			} else {
				chunk.Embedding = emb
			}
		}
	}

	return chunk, nil
}

// hashMatches treats rows without a hash as valid. They predate hashing.
func hashMatches(hash sql.NullString, content string) bool {
	return !hash.Valid || hash.String == "" || hash.String == domain.TextHash(content)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
