package resumes

import "context"

// Repo defines persistence operations for resumes and their status logs.
// Reads that join the owning or acting user's display name return it on the
// domain object.
type Repo interface {
	// Create assigns the next per-owner sequence number and inserts the
	// resume with status APPLY. Returns ErrSequenceConflict when a
	// concurrent creation for the same owner wins the sequence.
	Create(ctx context.Context, userID, title, introduction string) (Resume, error)

	// List returns resumes visible to the viewer, optionally filtered by
	// status, ordered by creation time in the given direction.
	List(ctx context.Context, viewer Viewer, sort Sort, status *Status) ([]Resume, error)

	// GetByID resolves id per the viewer: global resume ID for recruiters,
	// per-owner sequence number for applicants. Returns ErrNotFound when no
	// row matches.
	GetByID(ctx context.Context, viewer Viewer, id int64) (Resume, error)

	// Update applies only the non-nil fields and refreshes updated_at.
	Update(ctx context.Context, userID string, userResumeID int64, title, introduction *string) (Resume, error)

	// Delete removes a resume by its global ID. Existence is the caller's
	// concern; sequence numbers of sibling resumes are never renumbered.
	Delete(ctx context.Context, resumeID int64) error

	// UpdateStatusWithLog updates the resume's status and appends the log
	// row in one transaction; both commit or neither does.
	UpdateStatusWithLog(ctx context.Context, resumeID int64, recruiterID string, newStatus, previousStatus Status, reason string) (Log, error)

	// ListLogs returns a resume's transition log, newest first. An unknown
	// resume yields an empty slice, not an error.
	ListLogs(ctx context.Context, resumeID int64) ([]Log, error)
}
