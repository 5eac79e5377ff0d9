package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Create inserts a resume computing the next per-owner sequence number in
// the same statement. The aggregate subquery yields exactly one row even for
// a first resume (MAX over no rows is NULL), so the sequence starts at 1.
// The unique index on (user_id, user_resume_id) is the backstop for
// concurrent creations; losers surface as ErrSequenceConflict.
func (r *PGRepo) Create(ctx context.Context, userID, title, introduction string) (Resume, error) {
	const query = `
INSERT INTO resumes (user_id, user_resume_id, title, introduction, status, created_at, updated_at)
SELECT $1, COALESCE(MAX(user_resume_id), 0) + 1, $2, $3, $4, now(), now()
FROM resumes
WHERE user_id = $1
RETURNING id, user_resume_id, created_at, updated_at`

	resume := Resume{
		UserID:       userID,
		Title:        title,
		Introduction: introduction,
		Status:       StatusApply,
	}
	err := r.DB.QueryRowContext(ctx, query, userID, title, introduction, StatusApply).Scan(
		&resume.ID,
		&resume.UserResumeID,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Resume{}, ErrSequenceConflict
		}
		return Resume{}, err
	}
	return resume, nil
}

// List returns resumes visible to the viewer joined with owner names.
func (r *PGRepo) List(ctx context.Context, viewer Viewer, sort Sort, status *Status) ([]Resume, error) {
	query := `
SELECT r.id, r.user_id, r.user_resume_id, u.name, r.title, r.introduction, r.status, r.created_at, r.updated_at
FROM resumes r
JOIN users u ON u.id = r.user_id`

	var conds []string
	var args []any
	if !viewer.IsRecruiter() {
		args = append(args, viewer.UserID())
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if status != nil {
		args = append(args, *status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += "\nWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	direction := "DESC"
	if sort == SortAsc {
		direction = "ASC"
	}
	query += "\nORDER BY r.created_at " + direction

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var resume Resume
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.UserResumeID,
			&resume.OwnerName,
			&resume.Title,
			&resume.Introduction,
			&resume.Status,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// GetByID resolves the identifier per the viewer's scope.
func (r *PGRepo) GetByID(ctx context.Context, viewer Viewer, id int64) (Resume, error) {
	const recruiterQuery = `
SELECT r.id, r.user_id, r.user_resume_id, u.name, r.title, r.introduction, r.status, r.created_at, r.updated_at
FROM resumes r
JOIN users u ON u.id = r.user_id
WHERE r.id = $1
LIMIT 1`
	const applicantQuery = `
SELECT r.id, r.user_id, r.user_resume_id, u.name, r.title, r.introduction, r.status, r.created_at, r.updated_at
FROM resumes r
JOIN users u ON u.id = r.user_id
WHERE r.user_resume_id = $1 AND r.user_id = $2
LIMIT 1`

	var row *sql.Row
	if viewer.IsRecruiter() {
		row = r.DB.QueryRowContext(ctx, recruiterQuery, id)
	} else {
		row = r.DB.QueryRowContext(ctx, applicantQuery, id, viewer.UserID())
	}

	var resume Resume
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.UserResumeID,
		&resume.OwnerName,
		&resume.Title,
		&resume.Introduction,
		&resume.Status,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// Update applies only the non-nil fields.
func (r *PGRepo) Update(ctx context.Context, userID string, userResumeID int64, title, introduction *string) (Resume, error) {
	const query = `
UPDATE resumes
SET title = COALESCE($3, title),
    introduction = COALESCE($4, introduction),
    updated_at = now()
WHERE user_id = $1 AND user_resume_id = $2
RETURNING id, user_resume_id, title, introduction, status, created_at, updated_at`

	resume := Resume{UserID: userID}
	err := r.DB.QueryRowContext(ctx, query, userID, userResumeID, title, introduction).Scan(
		&resume.ID,
		&resume.UserResumeID,
		&resume.Title,
		&resume.Introduction,
		&resume.Status,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// Delete removes a resume by global ID. Sibling sequence numbers keep their
// values; the gap is permanent.
func (r *PGRepo) Delete(ctx context.Context, resumeID int64) error {
	const query = `DELETE FROM resumes WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, resumeID)
	return err
}

// UpdateStatusWithLog writes the status change and its audit record in one
// transaction. A failure on either side rolls back both.
func (r *PGRepo) UpdateStatusWithLog(ctx context.Context, resumeID int64, recruiterID string, newStatus, previousStatus Status, reason string) (Log, error) {
	const updateQuery = `
UPDATE resumes
SET status = $2, updated_at = now()
WHERE id = $1`
	const insertQuery = `
INSERT INTO resume_logs (resume_id, recruiter_id, previous_status, new_status, reason, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id, created_at`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Log{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, updateQuery, resumeID, newStatus)
	if err != nil {
		return Log{}, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Log{}, ErrNotFound
	}

	logEntry := Log{
		ResumeID:       resumeID,
		RecruiterID:    recruiterID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		Reason:         reason,
	}
	if err := tx.QueryRowContext(ctx, insertQuery, resumeID, recruiterID, previousStatus, newStatus, reason).Scan(
		&logEntry.ID,
		&logEntry.CreatedAt,
	); err != nil {
		return Log{}, err
	}

	if err := tx.Commit(); err != nil {
		return Log{}, err
	}
	return logEntry, nil
}

// ListLogs returns the transition log newest first, joined with the acting
// recruiter's display name.
func (r *PGRepo) ListLogs(ctx context.Context, resumeID int64) ([]Log, error) {
	const query = `
SELECT l.id, l.resume_id, l.recruiter_id, u.name, l.previous_status, l.new_status, l.reason, l.created_at
FROM resume_logs l
JOIN users u ON u.id = l.recruiter_id
WHERE l.resume_id = $1
ORDER BY l.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var logEntry Log
		if err := rows.Scan(
			&logEntry.ID,
			&logEntry.ResumeID,
			&logEntry.RecruiterID,
			&logEntry.RecruiterName,
			&logEntry.PreviousStatus,
			&logEntry.NewStatus,
			&logEntry.Reason,
			&logEntry.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, logEntry)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
