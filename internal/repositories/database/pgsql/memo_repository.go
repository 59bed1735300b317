package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/ememohq/ememo_backend/internal/models"
	"github.com/ememohq/ememo_backend/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryer abstracts over *pgxpool.Pool and pgx.Tx so the same read helpers
// serve both paths.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxMemoRepository persists memos, their minutes and attachments.
type PgxMemoRepository struct {
	BaseRepository
}

// NewPgxMemoRepository creates a new repository for memo data.
func NewPgxMemoRepository(pool *pgxpool.Pool) portsrepo.MemoRepositoryFacade {
	return &PgxMemoRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxMemoRepository implements the facade
var _ portsrepo.MemoRepositoryFacade = (*PgxMemoRepository)(nil)

const memoColumns = `memo_id, from_user_id, recipients, cc_list, subject, message, side_note, status, is_financial, is_archived, created_at, created_by, last_updated_at, last_updated_by`

func scanMemo(row pgx.Row) (*models.Memo, error) {
	var m models.Memo
	var sideNote sql.NullString
	err := row.Scan(
		&m.MemoID,
		&m.FromUserID,
		&m.Recipients,
		&m.CCList,
		&m.Subject,
		&m.Message,
		&sideNote,
		&m.Status,
		&m.IsFinancial,
		&m.IsArchived,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.SideNote = sideNote.String
	return &m, nil
}

func insertAttachments(ctx context.Context, q queryer, memoID string, minuteID string, attachments []domain.Attachment) error {
	query := `
		INSERT INTO memo_attachments (attachment_id, memo_id, minute_id, name, url, position)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for i, a := range attachments {
		_, err := q.Exec(ctx, query, uuid.NewString(), memoID, nullableString(minuteID), a.Name, a.URL, i)
		if err != nil {
			return fmt.Errorf("failed to insert attachment %q: %w", a.Name, err)
		}
	}
	return nil
}

// loadAttachments returns memo-level attachments (key "") and per-minute
// attachments keyed by minute id.
func loadAttachments(ctx context.Context, q queryer, memoID string) (map[string][]domain.Attachment, error) {
	query := `
		SELECT COALESCE(minute_id::text, ''), name, url
		FROM memo_attachments
		WHERE memo_id = $1
		ORDER BY position;
	`
	rows, err := q.Query(ctx, query, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments for memo %s: %w", memoID, err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Attachment)
	for rows.Next() {
		var minuteID string
		var a domain.Attachment
		if err := rows.Scan(&minuteID, &a.Name, &a.URL); err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		out[minuteID] = append(out[minuteID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return out, nil
}

func loadMinutes(ctx context.Context, q queryer, memoID string, attachments map[string][]domain.Attachment) ([]domain.Minute, error) {
	query := `
		SELECT minute_id, memo_id, author_id, author_name, department, message, verdict, created_at
		FROM memo_minutes
		WHERE memo_id = $1
		ORDER BY created_at, minute_id;
	`
	rows, err := q.Query(ctx, query, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load minutes for memo %s: %w", memoID, err)
	}
	defer rows.Close()

	minutes := []domain.Minute{}
	for rows.Next() {
		var m models.Minute
		if err := rows.Scan(&m.MinuteID, &m.MemoID, &m.AuthorID, &m.AuthorName, &m.Department, &m.Message, &m.Verdict, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan minute row: %w", err)
		}
		minute := mapping.ToDomainMinute(m)
		minute.Attachments = attachments[m.MinuteID]
		minutes = append(minutes, minute)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating minutes: %w", err)
	}
	return minutes, nil
}

func findMemoByID(ctx context.Context, q queryer, memoID string) (*domain.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memos WHERE memo_id = $1;`

	m, err := scanMemo(q.QueryRow(ctx, query, memoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find memo %s: %w", memoID, err)
	}

	attachments, err := loadAttachments(ctx, q, memoID)
	if err != nil {
		return nil, err
	}
	minutes, err := loadMinutes(ctx, q, memoID, attachments)
	if err != nil {
		return nil, err
	}

	memo := mapping.ToDomainMemo(*m)
	memo.Attachments = attachments[""]
	memo.Minutes = minutes
	return &memo, nil
}

// SaveMemo inserts a new memo with its initial attachments.
func (r *PgxMemoRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	m := mapping.ToModelMemo(memo)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO memos (` + memoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.MemoID,
		m.FromUserID,
		m.Recipients,
		m.CCList,
		m.Subject,
		m.Message,
		nullableString(m.SideNote),
		m.Status,
		m.IsFinancial,
		m.IsArchived,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: memo with ID %s already exists", apperrors.ErrDuplicate, m.MemoID)
		}
		return fmt.Errorf("failed to save memo %s: %w", m.MemoID, err)
	}

	if err := insertAttachments(ctx, tx, m.MemoID, "", memo.Attachments); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindMemoByID retrieves a memo with its minutes and attachments loaded.
func (r *PgxMemoRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error) {
	return findMemoByID(ctx, r.Pool, memoID)
}

// ListMemos retrieves memos matching the filter, newest first. Minutes are
// omitted; list views do not render them.
func (r *PgxMemoRepository) ListMemos(ctx context.Context, filter portsrepo.MemoListFilter) ([]domain.Memo, error) {
	where := ""
	args := []any{filter.UserID}
	switch filter.Box {
	case portsrepo.BoxSent:
		where = `from_user_id = $1 AND NOT is_archived`
	case portsrepo.BoxArchived:
		where = `is_archived AND (from_user_id = $1 OR $1 = ANY(recipients) OR $1 = ANY(cc_list))`
	default: // inbox; drafts stay private to their sender
		where = `NOT is_archived AND status <> 'initiated' AND ($1 = ANY(recipients) OR $1 = ANY(cc_list))`
	}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.IsFinancial != nil {
		args = append(args, *filter.IsFinancial)
		where += fmt.Sprintf(` AND is_financial = $%d`, len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	offsetClause := fmt.Sprintf(` OFFSET $%d`, len(args))

	query := `SELECT ` + memoColumns + ` FROM memos WHERE ` + where + ` ORDER BY created_at DESC` + limitClause + offsetClause + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []domain.Memo
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo row: %w", err)
		}
		memos = append(memos, mapping.ToDomainMemo(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memos: %w", err)
	}
	return memos, nil
}

// CountMemosByStatus returns per-status counts over the memos the user can
// see as sender or recipient.
func (r *PgxMemoRepository) CountMemosByStatus(ctx context.Context, userID string) (map[domain.MemoStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM memos
		WHERE from_user_id = $1 OR $1 = ANY(recipients) OR $1 = ANY(cc_list)
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count memos by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.MemoStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[domain.MemoStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}

// UpdateMemoFields updates the draft-editable fields and replaces the
// memo-level attachments in one transaction.
func (r *PgxMemoRepository) UpdateMemoFields(ctx context.Context, memo domain.Memo) error {
	m := mapping.ToModelMemo(memo)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE memos
		SET recipients = $2, cc_list = $3, subject = $4, message = $5, side_note = $6,
		    is_financial = $7, last_updated_at = $8, last_updated_by = $9
		WHERE memo_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.MemoID,
		m.Recipients,
		m.CCList,
		m.Subject,
		m.Message,
		nullableString(m.SideNote),
		m.IsFinancial,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update memo %s: %w", m.MemoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Memo-level attachments are replaced wholesale; minute attachments are
	// immutable and untouched.
	if _, err := tx.Exec(ctx, `DELETE FROM memo_attachments WHERE memo_id = $1 AND minute_id IS NULL;`, m.MemoID); err != nil {
		return fmt.Errorf("failed to clear memo attachments: %w", err)
	}
	if err := insertAttachments(ctx, tx, m.MemoID, "", memo.Attachments); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateMemoStatus sets the memo status.
func (r *PgxMemoRepository) UpdateMemoStatus(ctx context.Context, memoID string, status domain.MemoStatus, userID string, now time.Time) error {
	query := `UPDATE memos SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE memo_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, memoID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of memo %s: %w", memoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetMemoArchived toggles the archived flag without touching status.
func (r *PgxMemoRepository) SetMemoArchived(ctx context.Context, memoID string, archived bool, userID string, now time.Time) error {
	query := `UPDATE memos SET is_archived = $2, last_updated_at = $3, last_updated_by = $4 WHERE memo_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, memoID, archived, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set archived flag of memo %s: %w", memoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMemo removes the memo with its minutes and attachments.
func (r *PgxMemoRepository) DeleteMemo(ctx context.Context, memoID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM memo_attachments WHERE memo_id = $1;`, memoID); err != nil {
		return fmt.Errorf("failed to delete attachments of memo %s: %w", memoID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM memo_minutes WHERE memo_id = $1;`, memoID); err != nil {
		return fmt.Errorf("failed to delete minutes of memo %s: %w", memoID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM memos WHERE memo_id = $1;`, memoID)
	if err != nil {
		return fmt.Errorf("failed to delete memo %s: %w", memoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// AppendMinute appends the minute and applies the status transition chosen
// by decide as one atomic unit. The memo row is locked with
// SELECT ... FOR UPDATE, so concurrent appends serialize and each lands;
// nothing is written when decide refuses.
func (r *PgxMemoRepository) AppendMinute(ctx context.Context, memoID string, minute domain.Minute, decide func(current domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM memos WHERE memo_id = $1 FOR UPDATE;`, memoID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock memo %s: %w", memoID, err)
	}

	newStatus, err := decide(domain.MemoStatus(currentStatus))
	if err != nil {
		return nil, err
	}

	mm := mapping.ToModelMinute(minute)
	mm.MemoID = memoID
	insert := `
		INSERT INTO memo_minutes (minute_id, memo_id, author_id, author_name, department, message, verdict, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, insert, mm.MinuteID, mm.MemoID, mm.AuthorID, mm.AuthorName, mm.Department, mm.Message, mm.Verdict, mm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert minute for memo %s: %w", memoID, err)
	}

	if err := insertAttachments(ctx, tx, memoID, mm.MinuteID, minute.Attachments); err != nil {
		return nil, err
	}

	if newStatus != domain.MemoStatus(currentStatus) {
		update := `UPDATE memos SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE memo_id = $1;`
		if _, err := tx.Exec(ctx, update, memoID, string(newStatus), mm.CreatedAt, mm.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to transition memo %s to %s: %w", memoID, newStatus, err)
		}
	}

	memo, err := findMemoByID(ctx, tx, memoID)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return memo, nil
}
