package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// createMaxAttempts bounds retries when concurrent creations for the same
// owner collide on the sequence number.
const createMaxAttempts = 3

// requiredFields is the fixed reporting order for joint missing-field errors.
var requiredFields = []string{"title", "introduction"}

// Service contains the business rules for the resume lifecycle. All
// validation happens here, before the store is touched; the store only
// reports conflicts and absence.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateResume validates input and creates a resume with status APPLY.
// Missing required fields are reported jointly, comma-joined in the order
// title, introduction.
func (s *Service) CreateResume(ctx context.Context, userID, title, introduction string) (Resume, error) {
	present := map[string]bool{
		"title":        strings.TrimSpace(title) != "",
		"introduction": strings.TrimSpace(introduction) != "",
	}
	var missing []string
	for _, field := range requiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Resume{}, fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}

	if len([]rune(introduction)) < MinIntroductionLength {
		return Resume{}, fmt.Errorf("%w: introduction must be at least %d characters", ErrInvalidInput, MinIntroductionLength)
	}

	var lastErr error
	for attempt := 0; attempt < createMaxAttempts; attempt++ {
		resume, err := s.Repo.Create(ctx, userID, title, introduction)
		if err == nil {
			return resume, nil
		}
		if !errors.Is(err, ErrSequenceConflict) {
			return Resume{}, err
		}
		lastErr = err
	}
	return Resume{}, lastErr
}

// GetResumes lists resumes visible to the viewer. Sort defaults to DESC;
// status is optional. Both are matched case-insensitively.
func (s *Service) GetResumes(ctx context.Context, viewer Viewer, sortInput, statusInput string) ([]Resume, error) {
	sortDir, err := ParseSort(sortInput)
	if err != nil {
		return nil, err
	}

	var status *Status
	if strings.TrimSpace(statusInput) != "" {
		parsed, err := ParseStatus(statusInput)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	return s.Repo.List(ctx, viewer, sortDir, status)
}

// GetResumeByID fetches one resume; the identifier is interpreted per the
// viewer (global ID for recruiters, per-owner sequence for applicants).
func (s *Service) GetResumeByID(ctx context.Context, viewer Viewer, id int64) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, viewer, id)
	if err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// UpdateResume applies a partial update to the caller's own resume.
func (s *Service) UpdateResume(ctx context.Context, userID string, userResumeID int64, title, introduction *string) (Resume, error) {
	titleEmpty := title == nil || strings.TrimSpace(*title) == ""
	introEmpty := introduction == nil || strings.TrimSpace(*introduction) == ""
	if titleEmpty && introEmpty {
		return Resume{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if titleEmpty {
		title = nil
	}
	if introEmpty {
		introduction = nil
	}

	if introduction != nil && len([]rune(*introduction)) < MinIntroductionLength {
		return Resume{}, fmt.Errorf("%w: introduction must be at least %d characters", ErrInvalidInput, MinIntroductionLength)
	}

	return s.Repo.Update(ctx, userID, userResumeID, title, introduction)
}

// DeleteResume resolves ownership through the applicant-scoped lookup and
// deletes by the resolved global ID. Delete is always authorized via
// ownership, regardless of the caller's role.
func (s *Service) DeleteResume(ctx context.Context, userID string, userResumeID int64) error {
	resume, err := s.Repo.GetByID(ctx, Applicant(userID), userResumeID)
	if err != nil {
		return err
	}
	return s.Repo.Delete(ctx, resume.ID)
}

// UpdateResumeStatus transitions a resume (addressed by global ID) to a new
// status, recording the transition atomically. Any status may follow any
// other; there is no transition graph.
func (s *Service) UpdateResumeStatus(ctx context.Context, recruiterID string, resumeID int64, statusInput, reason string) (Log, error) {
	if strings.TrimSpace(statusInput) == "" {
		return Log{}, fmt.Errorf("%w: status required", ErrInvalidInput)
	}
	if strings.TrimSpace(reason) == "" {
		return Log{}, fmt.Errorf("%w: reason required", ErrInvalidInput)
	}

	newStatus, err := ParseStatus(statusInput)
	if err != nil {
		return Log{}, err
	}

	resume, err := s.Repo.GetByID(ctx, Recruiter(), resumeID)
	if err != nil {
		return Log{}, err
	}

	return s.Repo.UpdateStatusWithLog(ctx, resumeID, recruiterID, newStatus, resume.Status, reason)
}

// GetResumeLogs returns a resume's transition history, newest first. An
// unknown resume yields an empty history, not an error.
func (s *Service) GetResumeLogs(ctx context.Context, resumeID int64) ([]Log, error) {
	return s.Repo.ListLogs(ctx, resumeID)
}
