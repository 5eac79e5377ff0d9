package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ResumeID     int64     `json:"resumeId"`
	UserResumeID int64     `json:"userResumeId"`
	Name         string    `json:"name,omitempty"`
	Title        string    `json:"title"`
	Introduction string    `json:"introduction"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LogResponse is the outward-facing representation of a status transition.
type LogResponse struct {
	ResumeLogID    int64     `json:"resumeLogId"`
	ResumeID       int64     `json:"resumeId"`
	RecruiterID    string    `json:"recruiterId"`
	RecruiterName  string    `json:"recruiterName,omitempty"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:     resume.ID,
		UserResumeID: resume.UserResumeID,
		Name:         resume.OwnerName,
		Title:        resume.Title,
		Introduction: resume.Introduction,
		Status:       resume.Status,
		CreatedAt:    resume.CreatedAt,
		UpdatedAt:    resume.UpdatedAt,
	}
}

func toLogResponse(logEntry Log) LogResponse {
	return LogResponse{
		ResumeLogID:    logEntry.ID,
		ResumeID:       logEntry.ResumeID,
		RecruiterID:    logEntry.RecruiterID,
		RecruiterName:  logEntry.RecruiterName,
		PreviousStatus: logEntry.PreviousStatus,
		NewStatus:      logEntry.NewStatus,
		Reason:         logEntry.Reason,
		CreatedAt:      logEntry.CreatedAt,
	}
}
