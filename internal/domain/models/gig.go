// internal/domain/models/gig.go
package models

// Gig is a posted job/event. PostedByUserID is set server-side from the
// poster's token; only the poster may edit or delete the gig.
type Gig struct {
	GigID          int64  `json:"gig_id"`
	GigName        string `json:"gig_name"`
	GigDate        string `json:"gig_date"`
	GigDetails     string `json:"gig_details"`
	TypeName       string `json:"type_name"`
	EmployerID     int64  `json:"employer_id"`
	PostedByUserID int64  `json:"posted_by_user_id"`
}

// GigRole is a role requirement on a gig: which role is needed, how many,
// and the pay terms. A gig with no GigRole records is open to any role.
type GigRole struct {
	GigRoleID   int64   `json:"gig_role_id,omitempty"`
	GigID       int64   `json:"gig_id"`
	RoleName    string  `json:"role_name"`
	NeededCount int     `json:"needed_count"`
	PayAmount   float64 `json:"pay_amount"`
	PayCurrency string  `json:"pay_currency"`
	PayUnit     string  `json:"pay_unit"`
}
