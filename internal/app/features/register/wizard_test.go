package register

import "testing"

func validState() wizardState {
	return wizardState{
		Name:        "Ada Test",
		Email:       "ada@example.com",
		DateOfBirth: "1999-04-01",
		Password:    "hunter2222",
		Confirm:     "hunter2222",
		Roles:       []string{"dancer"},
	}
}

func TestValidateDetails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*wizardState)
		wantOK bool
	}{
		{"valid", func(s *wizardState) {}, true},
		{"missing name", func(s *wizardState) { s.Name = " " }, false},
		{"bad email", func(s *wizardState) { s.Email = "not-an-email" }, false},
		{"missing dob", func(s *wizardState) { s.DateOfBirth = "" }, false},
		{"short password", func(s *wizardState) { s.Password, s.Confirm = "short", "short" }, false},
		{"mismatched passwords", func(s *wizardState) { s.Confirm = "different99" }, false},
		{"no roles", func(s *wizardState) { s.Roles = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := validState()
			tt.mutate(&st)
			msg := st.validateDetails()
			if (msg == "") != tt.wantOK {
				t.Errorf("validateDetails() = %q, wantOK %v", msg, tt.wantOK)
			}
		})
	}
}

func TestNextStep(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		cur   string
		want  string
	}{
		{"dancer skips company", []string{"dancer"}, stepDetails, stepSkills},
		{"employer goes to company", []string{"employer"}, stepDetails, stepCompany},
		{"employer only skips skills", []string{"employer"}, stepCompany, stepReview},
		{"dancer-employer gets both", []string{"dancer", "employer"}, stepDetails, stepCompany},
		{"dancer-employer after company", []string{"dancer", "employer"}, stepCompany, stepSkills},
		{"skills always leads to review", []string{"dancer"}, stepSkills, stepReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := wizardState{Roles: tt.roles}
			if got := st.nextStep(tt.cur); got != tt.want {
				t.Errorf("nextStep(%q) with roles %v = %q, want %q", tt.cur, tt.roles, got, tt.want)
			}
		})
	}
}

func TestValidateComplete_CompanyRequired(t *testing.T) {
	st := validState()
	st.Roles = []string{"employer"}

	if msg := st.validateComplete(); msg == "" {
		t.Error("employer registration without a company name should not validate")
	}

	st.CompanyName = "Moonlight Dance Co"
	if msg := st.validateComplete(); msg != "" {
		t.Errorf("complete employer state should validate, got %q", msg)
	}
}
