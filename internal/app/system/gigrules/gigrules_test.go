package gigrules_test

import (
	"testing"

	"github.com/dancecollective/gigboard/internal/app/system/gigrules"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

func TestAllowsRole(t *testing.T) {
	dancerOnly := []models.GigRole{{RoleName: "dancer", NeededCount: 2}}
	both := []models.GigRole{
		{RoleName: "dancer"},
		{RoleName: "choreographer"},
	}

	tests := []struct {
		name     string
		required []models.GigRole
		role     string
		want     bool
	}{
		{"empty set is unrestricted", nil, "dancer", true},
		{"role listed", dancerOnly, "dancer", true},
		{"role not listed", dancerOnly, "choreographer", false},
		{"case-insensitive", dancerOnly, "Dancer", true},
		{"second entry matches", both, "choreographer", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gigrules.AllowsRole(tt.required, tt.role); got != tt.want {
				t.Errorf("AllowsRole(%v, %q) = %v, want %v", tt.required, tt.role, got, tt.want)
			}
		})
	}
}

func TestAppliedGigIDs_ExcludesWithdrawn(t *testing.T) {
	apps := []models.Application{
		{ApplicationID: 1, GigID: 10, Status: models.StatusApplied},
		{ApplicationID: 2, GigID: 11, Status: models.StatusWithdrawn},
		{ApplicationID: 3, GigID: 12, Status: models.StatusAccepted},
	}

	ids := gigrules.AppliedGigIDs(apps)
	if !ids[10] || !ids[12] {
		t.Errorf("live applications missing from set: %v", ids)
	}
	if ids[11] {
		t.Error("withdrawn application should not count as applied")
	}
}

func TestAvailable(t *testing.T) {
	gigs := []models.Gig{
		{GigID: 1, GigName: "Open to all"},
		{GigID: 2, GigName: "Dancers only"},
		{GigID: 3, GigName: "Already applied"},
		{GigID: 4, GigName: "Withdrawn, reopened"},
	}
	rolesByGig := map[int64][]models.GigRole{
		2: {{RoleName: "dancer"}},
	}
	apps := []models.Application{
		{ApplicationID: 1, GigID: 3, Status: models.StatusApplied},
		{ApplicationID: 2, GigID: 4, Status: models.StatusWithdrawn},
	}

	t.Run("dancer", func(t *testing.T) {
		got := gigrules.Available(gigs, rolesByGig, apps, "dancer")
		want := map[int64]bool{1: true, 2: true, 4: true}
		if len(got) != len(want) {
			t.Fatalf("available gigs: got %d, want %d (%v)", len(got), len(want), got)
		}
		for _, g := range got {
			if !want[g.GigID] {
				t.Errorf("unexpected gig %d in available list", g.GigID)
			}
		}
	})

	t.Run("choreographer excluded by role rows", func(t *testing.T) {
		got := gigrules.Available(gigs, rolesByGig, apps, "choreographer")
		for _, g := range got {
			if g.GigID == 2 {
				t.Error("gig 2 requires dancer and should be hidden from choreographers")
			}
		}
	})
}
