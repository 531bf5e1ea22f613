package session

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/store/employers"
	"github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"go.uber.org/zap"
)

// RegisterInput is everything the registration wizard collected.
type RegisterInput struct {
	Name        string
	Email       string
	DateOfBirth string
	Password    string
	Roles       []string
	Skills      []string
	Employer    *EmployerInput
}

// EmployerInput is the optional company block for employer registrations.
type EmployerInput struct {
	Name        string
	Description string
	Website     string
	Email       string
	Phone       string
	MemberRole  string
}

// StepOutcome records one step of the registration sequence.
type StepOutcome struct {
	Name string
	Err  error
}

// SagaResult is the per-step record of a registration run. The account may
// exist even when the run as a whole failed; callers surface that to the
// user instead of pretending nothing happened.
type SagaResult struct {
	Steps []StepOutcome
}

func (r *SagaResult) record(name string, err error) {
	r.Steps = append(r.Steps, StepOutcome{Name: name, Err: err})
}

// Failed returns the first failed step, if any.
func (r *SagaResult) Failed() *StepOutcome {
	for i := range r.Steps {
		if r.Steps[i].Err != nil {
			return &r.Steps[i]
		}
	}
	return nil
}

// Register runs the registration sequence: create the account, log in,
// assign each selected role and skill, then optionally create the employer
// and its membership.
//
// There is no rollback. A failure after account creation aborts the run and
// returns an error naming the failed step, with the account left in place.
// The returned SagaResult lists every step attempted and its outcome.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (s auth.Session, result *SagaResult, err error) {
	result = &SagaResult{}

	created, err := m.Users.Register(ctx, users.NewUser{
		Name:        in.Name,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Password:    in.Password,
	})
	result.record("create account", err)
	if err != nil {
		return auth.Session{}, result, err
	}

	s, err = m.Login(ctx, in.Email, in.Password, true)
	result.record("log in", err)
	if err != nil {
		return auth.Session{}, result, fmt.Errorf("account created but login failed: %w", err)
	}
	if s.User.UserID == 0 {
		s.User.UserID = created.UserID
	}

	for _, role := range in.Roles {
		err = m.Roles.Assign(ctx, s.Token, created.UserID, role)
		result.record("assign role "+role, err)
		if err != nil {
			return s, result, fmt.Errorf("role assignment failed: %w", err)
		}
	}

	for _, skill := range in.Skills {
		err = m.Skills.Assign(ctx, s.Token, created.UserID, skill)
		result.record("assign skill "+skill, err)
		if err != nil {
			return s, result, fmt.Errorf("skill assignment failed: %w", err)
		}
	}

	// Re-fetch so the session reflects server truth rather than what we
	// just asked for.
	m.enrich(ctx, &s, true)

	if in.Employer != nil && in.Employer.Name != "" {
		var emp = employers.NewEmployer{
			EmployerName: in.Employer.Name,
			Description:  in.Employer.Description,
			Website:      in.Employer.Website,
			Email:        in.Employer.Email,
			Phone:        in.Employer.Phone,
		}
		if emp.Email == "" {
			emp.Email = in.Email
		}

		createdEmp, empErr := m.Employers.Create(ctx, s.Token, emp)
		result.record("create employer", empErr)
		if empErr != nil {
			return s, result, fmt.Errorf("employer creation failed: %w", empErr)
		}

		memberRole := in.Employer.MemberRole
		if memberRole == "" {
			memberRole = "member"
		}
		_, memberErr := m.Members.Create(ctx, s.Token, createdEmp.EmployerID, memberRole)
		result.record("create membership", memberErr)
		if memberErr != nil {
			return s, result, fmt.Errorf("membership creation failed: %w", memberErr)
		}

		s.User.EmployerID = createdEmp.EmployerID
		s.User.MemberRole = memberRole
	}

	m.Log.Info("registration complete",
		zap.Int64("user_id", created.UserID),
		zap.Strings("roles", s.Roles))

	return s, result, nil
}
