package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateComputesSequenceInStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO resumes .+ COALESCE\(MAX\(user_resume_id\), 0\) \+ 1`).
		WithArgs("user-1", "Backend Engineer", "intro", StatusApply).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_resume_id", "created_at", "updated_at"}).
			AddRow(int64(7), int64(3), now, now))

	resume, err := repo.Create(context.Background(), "user-1", "Backend Engineer", "intro")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resume.ID != 7 || resume.UserResumeID != 3 {
		t.Fatalf("unexpected identifiers: id=%d seq=%d", resume.ID, resume.UserResumeID)
	}
	if resume.Status != StatusApply {
		t.Fatalf("new resume status = %q", resume.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateUniqueViolationIsSequenceConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO resumes").
		WithArgs("user-1", "Title", "intro", StatusApply).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := repo.Create(context.Background(), "user-1", "Title", "intro")
	if !errors.Is(err, ErrSequenceConflict) {
		t.Fatalf("expected ErrSequenceConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListAppliesViewerScopeAndOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	cols := []string{"id", "user_id", "user_resume_id", "name", "title", "introduction", "status", "created_at", "updated_at"}

	mock.ExpectQuery(`FROM resumes r JOIN users u ON u.id = r.user_id WHERE r.user_id = \$1 ORDER BY r.created_at ASC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "user-1", int64(1), "Alice", "T1", "intro", StatusApply, now, now).
			AddRow(int64(2), "user-1", int64(2), "Alice", "T2", "intro", StatusPass, now, now))

	out, err := repo.List(context.Background(), Applicant("user-1"), SortAsc, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].OwnerName != "Alice" {
		t.Fatalf("owner name not joined: %q", out[0].OwnerName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListStatusFilterForRecruiter(t *testing.T) {
	repo, mock := newMockRepo(t)
	cols := []string{"id", "user_id", "user_resume_id", "name", "title", "introduction", "status", "created_at", "updated_at"}

	mock.ExpectQuery(`WHERE r.status = \$1 ORDER BY r.created_at DESC`).
		WithArgs(StatusPass).
		WillReturnRows(sqlmock.NewRows(cols))

	status := StatusPass
	out, err := repo.List(context.Background(), Recruiter(), SortDesc, &status)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no rows, got %d", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDApplicantScope(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE r.user_resume_id = \$1 AND r.user_id = \$2`).
		WithArgs(int64(3), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_resume_id", "name", "title", "introduction", "status", "created_at", "updated_at"}))

	_, err := repo.GetByID(context.Background(), Applicant("user-1"), 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusWithLogCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes").
		WithArgs(int64(7), StatusPass).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO resume_logs").
		WithArgs(int64(7), "rec-1", StatusApply, StatusPass, "strong profile").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))
	mock.ExpectCommit()

	logEntry, err := repo.UpdateStatusWithLog(context.Background(), 7, "rec-1", StatusPass, StatusApply, "strong profile")
	if err != nil {
		t.Fatalf("UpdateStatusWithLog: %v", err)
	}
	if logEntry.ID != 11 {
		t.Fatalf("log id = %d", logEntry.ID)
	}
	if logEntry.PreviousStatus != StatusApply || logEntry.NewStatus != StatusPass {
		t.Fatalf("transition recorded wrong: %q -> %q", logEntry.PreviousStatus, logEntry.NewStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusWithLogUnknownResume(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes").
		WithArgs(int64(404), StatusDrop).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateStatusWithLog(context.Background(), 404, "rec-1", StatusDrop, StatusApply, "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusWithLogRollsBackOnLogFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("log insert failed")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes").
		WithArgs(int64(7), StatusPass).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO resume_logs").
		WithArgs(int64(7), "rec-1", StatusApply, StatusPass, "reason").
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.UpdateStatusWithLog(context.Background(), 7, "rec-1", StatusPass, StatusApply, "reason")
	if !errors.Is(err, boom) {
		t.Fatalf("expected log insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("status update not rolled back with log failure: %v", err)
	}
}

func TestPGRepoListLogsNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	cols := []string{"id", "resume_id", "recruiter_id", "name", "previous_status", "new_status", "reason", "created_at"}

	mock.ExpectQuery(`FROM resume_logs l JOIN users u ON u.id = l.recruiter_id WHERE l.resume_id = \$1 ORDER BY l.created_at DESC`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(7), "rec-1", "Rita", StatusPass, StatusDrop, "closed", now).
			AddRow(int64(1), int64(7), "rec-1", "Rita", StatusApply, StatusPass, "good fit", now.Add(-time.Hour)))

	logs, err := repo.ListLogs(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].ID != 2 || logs[0].RecruiterName != "Rita" {
		t.Fatalf("unexpected first log: %+v", logs[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
