// internal/domain/models/application.go
package models

// Application status lifecycle. Employers move applications to shortlisted,
// accepted, or rejected; applicants may only withdraw.
const (
	StatusApplied     = "applied"
	StatusShortlisted = "shortlisted"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"
)

// Application is a user's request to fill a gig role. List responses join in
// gig fields for the applicant view and applicant fields for the employer
// view, so some fields are populated only in one of the two contexts.
type Application struct {
	ApplicationID int64  `json:"application_id"`
	GigID         int64  `json:"gig_id"`
	UserID        int64  `json:"user_id,omitempty"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at,omitempty"`

	// Joined gig fields (applicant view).
	GigName    string `json:"gig_name,omitempty"`
	GigDate    string `json:"gig_date,omitempty"`
	TypeName   string `json:"type_name,omitempty"`
	GigDetails string `json:"gig_details,omitempty"`

	// Joined applicant fields (employer view).
	ApplicantName  string `json:"applicant_name,omitempty"`
	ApplicantEmail string `json:"applicant_email,omitempty"`
}

// Active reports whether the application still counts against the gig,
// i.e. any status other than withdrawn.
func (a Application) Active() bool {
	return a.Status != StatusWithdrawn
}
