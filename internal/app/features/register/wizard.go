// internal/app/features/register/wizard.go
package register

import (
	"strings"

	"github.com/dancecollective/gigboard/internal/app/system/normalize"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Wizard steps, in order. Company and Skills are conditional on the roles
// chosen in Details.
const (
	stepDetails = "details"
	stepCompany = "company"
	stepSkills  = "skills"
	stepReview  = "review"
)

// wizardState is everything collected so far, carried between requests in
// the (encrypted) session cookie under one pending value.
type wizardState struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	DateOfBirth string   `json:"date_of_birth"`
	Password    string   `json:"password"`
	Confirm     string   `json:"confirm"`
	Roles       []string `json:"roles"`

	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CompanyWebsite     string `json:"company_website"`
	CompanyEmail       string `json:"company_email"`
	CompanyPhone       string `json:"company_phone"`
	MemberRole         string `json:"member_role"`

	Skills []string `json:"skills"`
}

// hasRole reports whether the wizard's chosen roles include role.
func (s *wizardState) hasRole(role string) bool {
	for _, r := range s.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// wantsCompany reports whether the Company step applies: only when the
// employer role was chosen.
func (s *wizardState) wantsCompany() bool {
	return s.hasRole(models.RoleEmployer)
}

// wantsSkills reports whether the Skills step applies: only for performer
// roles (dancer, choreographer).
func (s *wizardState) wantsSkills() bool {
	for _, r := range s.Roles {
		if models.IsPerformerRole(r) {
			return true
		}
	}
	return false
}

// nextStep returns the step that follows cur, skipping steps the chosen
// roles make irrelevant.
func (s *wizardState) nextStep(cur string) string {
	switch cur {
	case stepDetails:
		if s.wantsCompany() {
			return stepCompany
		}
		if s.wantsSkills() {
			return stepSkills
		}
		return stepReview
	case stepCompany:
		if s.wantsSkills() {
			return stepSkills
		}
		return stepReview
	default:
		return stepReview
	}
}

// validateDetails checks the Details step. Every forward transition runs
// this again so a tampered or stale state cannot skip past it.
func (s *wizardState) validateDetails() string {
	s.Name = normalize.Name(s.Name)
	s.Email = normalize.Email(s.Email)

	if s.Name == "" {
		return "Please enter your name."
	}
	if s.Email == "" || !strings.Contains(s.Email, "@") {
		return "Please enter a valid email address."
	}
	if s.DateOfBirth == "" {
		return "Please enter your date of birth."
	}
	if len(s.Password) < 8 {
		return "Password must be at least 8 characters."
	}
	if s.Password != s.Confirm {
		return "Passwords do not match."
	}
	if len(s.Roles) == 0 {
		return "Please choose at least one role."
	}
	return ""
}

// validateCompany checks the Company step. Only meaningful when
// wantsCompany is true.
func (s *wizardState) validateCompany() string {
	s.CompanyName = normalize.Name(s.CompanyName)
	if s.CompanyName == "" {
		return "Please enter your company name."
	}
	return ""
}

// validateComplete checks the whole wizard before submission.
func (s *wizardState) validateComplete() string {
	if m := s.validateDetails(); m != "" {
		return m
	}
	if s.wantsCompany() {
		if m := s.validateCompany(); m != "" {
			return m
		}
	}
	return ""
}
