package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// NameResolver supplies display names for joined reads. The PG repo joins in
// SQL; the memory repo asks whatever user store is in play.
type NameResolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// MemoryRepo is an in-memory implementation of Repo used in dev mode and tests.
type MemoryRepo struct {
	Names NameResolver

	mu        sync.RWMutex
	nextID    int64
	nextLogID int64
	data      map[int64]Resume // global id -> resume
	logs      []Log

	// CreateConflicts forces the next N creations to fail with
	// ErrSequenceConflict, for exercising the service retry path.
	CreateConflicts int
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo(names NameResolver) *MemoryRepo {
	return &MemoryRepo{
		Names: names,
		data:  make(map[int64]Resume),
	}
}

// Create assigns the next global and per-owner identifiers.
func (r *MemoryRepo) Create(ctx context.Context, userID, title, introduction string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateConflicts > 0 {
		r.CreateConflicts--
		return Resume{}, ErrSequenceConflict
	}

	var maxSeq int64
	for _, resume := range r.data {
		if resume.UserID == userID && resume.UserResumeID > maxSeq {
			maxSeq = resume.UserResumeID
		}
	}

	r.nextID++
	now := time.Now().UTC()
	resume := Resume{
		ID:           r.nextID,
		UserID:       userID,
		UserResumeID: maxSeq + 1,
		Title:        title,
		Introduction: introduction,
		Status:       StatusApply,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.data[resume.ID] = resume
	return resume, nil
}

// List filters by viewer scope and optional status, ordered by creation time.
func (r *MemoryRepo) List(ctx context.Context, viewer Viewer, sortDir Sort, status *Status) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Resume
	for _, resume := range r.data {
		if !viewer.IsRecruiter() && resume.UserID != viewer.UserID() {
			continue
		}
		if status != nil && resume.Status != *status {
			continue
		}
		out = append(out, resume)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if sortDir == SortAsc {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	for i := range out {
		name, err := r.resolveName(ctx, out[i].UserID)
		if err != nil {
			return nil, err
		}
		out[i].OwnerName = name
	}
	return out, nil
}

// GetByID resolves per the viewer scope.
func (r *MemoryRepo) GetByID(ctx context.Context, viewer Viewer, id int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	var found *Resume
	if viewer.IsRecruiter() {
		if resume, ok := r.data[id]; ok {
			found = &resume
		}
	} else {
		for _, resume := range r.data {
			if resume.UserID == viewer.UserID() && resume.UserResumeID == id {
				match := resume
				found = &match
				break
			}
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return Resume{}, ErrNotFound
	}
	name, err := r.resolveName(ctx, found.UserID)
	if err != nil {
		return Resume{}, err
	}
	found.OwnerName = name
	return *found, nil
}

// Update applies non-nil fields and refreshes the update time.
func (r *MemoryRepo) Update(ctx context.Context, userID string, userResumeID int64, title, introduction *string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, resume := range r.data {
		if resume.UserID != userID || resume.UserResumeID != userResumeID {
			continue
		}
		if title != nil {
			resume.Title = *title
		}
		if introduction != nil {
			resume.Introduction = *introduction
		}
		resume.UpdatedAt = time.Now().UTC()
		r.data[id] = resume
		return resume, nil
	}
	return Resume{}, ErrNotFound
}

// Delete removes by global ID; sibling sequence numbers are untouched.
func (r *MemoryRepo) Delete(ctx context.Context, resumeID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.data, resumeID)
	r.mu.Unlock()
	return nil
}

// UpdateStatusWithLog mutates the status and appends the log atomically
// under the repo lock.
func (r *MemoryRepo) UpdateStatusWithLog(ctx context.Context, resumeID int64, recruiterID string, newStatus, previousStatus Status, reason string) (Log, error) {
	if err := ctx.Err(); err != nil {
		return Log{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, ok := r.data[resumeID]
	if !ok {
		return Log{}, ErrNotFound
	}
	resume.Status = newStatus
	resume.UpdatedAt = time.Now().UTC()
	r.data[resumeID] = resume

	r.nextLogID++
	logEntry := Log{
		ID:             r.nextLogID,
		ResumeID:       resumeID,
		RecruiterID:    recruiterID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		Reason:         reason,
		CreatedAt:      time.Now().UTC(),
	}
	r.logs = append(r.logs, logEntry)
	return logEntry, nil
}

// ListLogs returns logs newest first; unknown resumes yield an empty slice.
func (r *MemoryRepo) ListLogs(ctx context.Context, resumeID int64) ([]Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Log
	for _, logEntry := range r.logs {
		if logEntry.ResumeID == resumeID {
			out = append(out, logEntry)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	for i := range out {
		name, err := r.resolveName(ctx, out[i].RecruiterID)
		if err != nil {
			return nil, err
		}
		out[i].RecruiterName = name
	}
	return out, nil
}

func (r *MemoryRepo) resolveName(ctx context.Context, userID string) (string, error) {
	if r.Names == nil {
		return "", nil
	}
	return r.Names.DisplayName(ctx, userID)
}

var _ Repo = (*MemoryRepo)(nil)
