package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attune-labs/attune/internal/domain/journal"
	"github.com/attune-labs/attune/internal/pkg/errors"
)

// JournalRepository implements journal.Repository
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *sql.DB) journal.Repository {
	return &JournalRepository{db: db}
}

const journalColumns = `id, user_id, title, body, mood, analysis, analyzed_at, created_at, updated_at`

func scanEntry(scan func(dest ...interface{}) error) (*journal.Entry, error) {
	var e journal.Entry
	var mood, analysis sql.NullString
	var analyzedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := scan(
		&e.ID, &e.UserID, &e.Title, &e.Body, &mood, &analysis, &analyzedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if mood.Valid {
		e.Mood = &mood.String
	}
	if analysis.Valid {
		e.Analysis = &analysis.String
	}
	if analyzedAt.Valid {
		t := time.Unix(analyzedAt.Int64, 0)
		e.AnalyzedAt = &t
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	e.UpdatedAt = time.Unix(updatedAt, 0)
	return &e, nil
}

// Create creates a new journal entry
func (r *JournalRepository) Create(ctx context.Context, e *journal.Entry) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
		INSERT INTO journal_entries (id, user_id, title, body, mood, analysis, analyzed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Body, e.Mood, e.Analysis, nullableUnix(e.AnalyzedAt), now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create journal entry", err)
	}
	return nil
}

// GetByID retrieves an entry by ID
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*journal.Entry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE id = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Journal entry")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get journal entry", err)
	}
	return e, nil
}

// ListByUser retrieves a user's entries, newest first
func (r *JournalRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*journal.Entry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list journal entries", err)
	}
	defer rows.Close()

	var entries []*journal.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan journal entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate journal entries", err)
	}

	return entries, nil
}

// Update updates an entry
func (r *JournalRepository) Update(ctx context.Context, e *journal.Entry) error {
	e.UpdatedAt = time.Now()

	query := `
		UPDATE journal_entries
		SET title = ?, body = ?, mood = ?, analysis = ?, analyzed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Body, e.Mood, e.Analysis, nullableUnix(e.AnalyzedAt), e.UpdatedAt.Unix(), e.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update journal entry", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Journal entry")
	}
	return nil
}

// Delete deletes an entry
func (r *JournalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete journal entry", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Journal entry")
	}
	return nil
}
