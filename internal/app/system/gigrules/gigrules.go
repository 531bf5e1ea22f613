// Package gigrules holds the client-side visibility rules for performer
// dashboards: which gigs a dancer or choreographer may see and apply to.
//
// These rules are advisory. The backend remains the authority on who may
// actually apply; the dashboard just avoids showing gigs the user cannot
// fill or has already applied to.
package gigrules

import (
	"strings"

	"github.com/dancecollective/gigboard/internal/domain/models"
)

// AllowsRole reports whether a gig's recorded role requirements admit the
// given role. An empty requirement set means the gig predates role rows and
// is treated as unrestricted.
func AllowsRole(required []models.GigRole, role string) bool {
	if len(required) == 0 {
		return true
	}
	role = strings.ToLower(strings.TrimSpace(role))
	for _, gr := range required {
		if strings.ToLower(gr.RoleName) == role {
			return true
		}
	}
	return false
}

// AppliedGigIDs returns the set of gig ids with a live (non-withdrawn)
// application among apps.
func AppliedGigIDs(apps []models.Application) map[int64]bool {
	ids := make(map[int64]bool, len(apps))
	for _, a := range apps {
		if a.Active() {
			ids[a.GigID] = true
		}
	}
	return ids
}

// Available filters gigs down to those the role may still apply to:
// no live application yet, and a role requirement set that admits the role.
func Available(gigs []models.Gig, rolesByGig map[int64][]models.GigRole, apps []models.Application, role string) []models.Gig {
	applied := AppliedGigIDs(apps)
	out := make([]models.Gig, 0, len(gigs))
	for _, g := range gigs {
		if applied[g.GigID] {
			continue
		}
		if !AllowsRole(rolesByGig[g.GigID], role) {
			continue
		}
		out = append(out, g)
	}
	return out
}
