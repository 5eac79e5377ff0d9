package resumes

import "time"

// Resume is one application owned by a user. ID is the global identifier
// recruiters address; UserResumeID is the per-owner sequence number
// applicants address, unique per (UserID, UserResumeID) and never renumbered.
type Resume struct {
	ID           int64
	UserID       string
	UserResumeID int64
	OwnerName    string
	Title        string
	Introduction string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Log is one append-only record of a status transition.
type Log struct {
	ID             int64
	ResumeID       int64
	RecruiterID    string
	RecruiterName  string
	PreviousStatus Status
	NewStatus      Status
	Reason         string
	CreatedAt      time.Time
}

// Viewer decides the query shape of store reads once, instead of branching
// on role strings inside every query. Construct with Applicant or Recruiter.
type Viewer struct {
	recruiter bool
	userID    string
}

// Applicant scopes reads to the given owner; identifiers are interpreted
// as per-owner sequence numbers.
func Applicant(userID string) Viewer {
	return Viewer{userID: userID}
}

// Recruiter reads across all owners; identifiers are interpreted as global
// resume IDs.
func Recruiter() Viewer {
	return Viewer{recruiter: true}
}

// IsRecruiter reports whether the viewer reads unscoped.
func (v Viewer) IsRecruiter() bool { return v.recruiter }

// UserID returns the owning applicant; empty for recruiter viewers.
func (v Viewer) UserID() string { return v.userID }
