// internal/domain/models/user.go
package models

// DefaultSiteName is used when no site name is configured.
const DefaultSiteName = "Dance Collective"

// Marketplace roles a user can hold. Role membership comes from the backend
// and is cached in the session.
const (
	RoleDancer        = "dancer"
	RoleChoreographer = "choreographer"
	RoleEmployer      = "employer"
)

// User is the client-side read view of an account. The backend owns the
// authoritative record; EmployerID and MemberRole are merged in from the
// employer-membership lookup and are zero for performers.
type User struct {
	UserID     int64  `json:"user_id"`
	UserName   string `json:"user_name"`
	Email      string `json:"email"`
	DOB        string `json:"dob,omitempty"`
	EmployerID int64  `json:"employer_id,omitempty"`
	MemberRole string `json:"member_role,omitempty"`
}

// IsPerformerRole reports whether the role applies to gig applicants
// (dancers and choreographers) rather than gig posters.
func IsPerformerRole(role string) bool {
	return role == RoleDancer || role == RoleChoreographer
}
