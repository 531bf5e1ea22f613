// internal/app/features/dashboard/performer.go
package dashboard

import (
	"context"
	"html/template"
	"net/http"
	"sync"

	"github.com/dancecollective/gigboard/internal/app/store/gigs"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/gigrules"
	"github.com/dancecollective/gigboard/internal/app/system/htmlsanitize"
	"github.com/dancecollective/gigboard/internal/app/system/search"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// gigVM is one gig row on the performer dashboard.
type gigVM struct {
	models.Gig
	DetailsHTML template.HTML
	Roles       []models.GigRole
}

type performerData struct {
	viewdata.BaseVM
	Gigs         []gigVM
	Applications []models.Application
	Query        string
	Suggestion   string
	LoadError    string
}

// ServePerformer renders the dancer/choreographer dashboard: open gigs the
// active role can still apply to, plus the user's own applications.
func (h *Handler) ServePerformer(w http.ResponseWriter, r *http.Request, s auth.Session) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data := performerData{
		BaseVM: viewdata.NewBaseVM(r, "Find gigs", "/"),
		Query:  query.Get(r, "q"),
	}

	allGigs, err := h.Gigs.List(ctx, s.Token, gigs.Filter{})
	if err != nil {
		h.Log.Error("performer dashboard: list gigs", zap.Error(err))
		data.LoadError = "Gigs are unavailable right now. Please try again shortly."
		templates.Render(w, r, "dashboard_performer", data)
		return
	}

	apps, err := h.Applications.Mine(ctx, s.Token)
	if err != nil {
		// Applications missing is survivable; the gig list still renders.
		h.Log.Warn("performer dashboard: list applications", zap.Error(err))
	}
	data.Applications = apps

	rolesByGig := h.fetchRoleRows(ctx, s.Token, allGigs)

	available := gigrules.Available(allGigs, rolesByGig, apps, s.ActiveRole)
	matched := search.FilterGigs(available, data.Query)

	if data.Query != "" && len(matched) == 0 {
		data.Suggestion = search.Suggest(data.Query, gigCandidates(available))
	}

	data.Gigs = make([]gigVM, 0, len(matched))
	for _, g := range matched {
		data.Gigs = append(data.Gigs, gigVM{
			Gig:         g,
			DetailsHTML: htmlsanitize.SanitizeHTML(g.GigDetails),
			Roles:       rolesByGig[g.GigID],
		})
	}

	templates.Render(w, r, "dashboard_performer", data)
}

// fetchRoleRows loads each gig's role requirements concurrently. A failed
// lookup leaves that gig unrestricted rather than failing the page.
func (h *Handler) fetchRoleRows(ctx context.Context, token string, all []models.Gig) map[int64][]models.GigRole {
	rolesByGig := make(map[int64][]models.GigRole, len(all))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, gig := range all {
		gig := gig
		g.Go(func() error {
			rows, err := h.GigRoles.ForGig(gctx, token, gig.GigID)
			if err != nil {
				h.Log.Warn("fetch gig roles", zap.Int64("gig_id", gig.GigID), zap.Error(err))
				return nil
			}
			mu.Lock()
			rolesByGig[gig.GigID] = rows
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return rolesByGig
}

// gigCandidates collects the strings worth suggesting against: gig names and
// event types.
func gigCandidates(all []models.Gig) []string {
	seen := make(map[string]bool, len(all)*2)
	out := make([]string, 0, len(all)*2)
	for _, g := range all {
		for _, c := range []string{g.GigName, g.TypeName} {
			if c != "" && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
