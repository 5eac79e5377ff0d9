package users

import "time"

// Roles assigned to accounts. Applicants own resumes and address them by
// per-owner sequence number; recruiters review across all applicants and are
// the only role allowed to change a resume's status.
const (
	RoleApplicant = "APPLICANT"
	RoleRecruiter = "RECRUITER"
)

// User is an account in either role.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TokenPair carries a fresh access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
