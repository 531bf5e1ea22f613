// internal/domain/models/employer.go
package models

// Employer is a hiring organization.
type Employer struct {
	EmployerID   int64  `json:"employer_id"`
	EmployerName string `json:"employer_name"`
	Description  string `json:"description,omitempty"`
	Website      string `json:"website,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// EmployerMember links a user to an employer with a member role
// (owner, manager, member, ...). The member-role vocabulary comes from
// the backend's member-types master list.
type EmployerMember struct {
	EmployerID int64  `json:"employer_id"`
	UserID     int64  `json:"user_id,omitempty"`
	MemberRole string `json:"member_role"`
}
