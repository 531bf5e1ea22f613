// internal/app/features/dashboard/employer.go
package dashboard

import (
	"context"
	"html/template"
	"net/http"
	"sync"

	"github.com/dancecollective/gigboard/internal/app/store/gigs"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/htmlsanitize"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// employerGigVM is one of the employer's gigs with its applicant list.
type employerGigVM struct {
	models.Gig
	DetailsHTML template.HTML
	Applicants  []models.Application
	Mine        bool // posted by the signed-in user; edits allowed
}

type employerData struct {
	viewdata.BaseVM
	HasCompany bool
	MemberRole string
	Gigs       []employerGigVM
	LoadError  string
}

// ServeEmployer renders the employer dashboard: the company's gigs with
// per-gig applicant lists and decision actions.
func (h *Handler) ServeEmployer(w http.ResponseWriter, r *http.Request, s auth.Session) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data := employerData{
		BaseVM:     viewdata.NewBaseVM(r, "Your gigs", "/"),
		HasCompany: s.User.EmployerID != 0,
		MemberRole: s.User.MemberRole,
	}

	if !data.HasCompany {
		// An employer role without a membership happens when company
		// creation failed mid-registration. The page explains instead of
		// listing nothing.
		templates.Render(w, r, "dashboard_employer", data)
		return
	}

	companyGigs, err := h.Gigs.List(ctx, s.Token, gigs.Filter{EmployerID: s.User.EmployerID})
	if err != nil {
		h.Log.Error("employer dashboard: list gigs", zap.Error(err))
		data.LoadError = "Gigs are unavailable right now. Please try again shortly."
		templates.Render(w, r, "dashboard_employer", data)
		return
	}

	applicantsByGig := h.fetchApplicants(ctx, s.Token, companyGigs)

	data.Gigs = make([]employerGigVM, 0, len(companyGigs))
	for _, g := range companyGigs {
		data.Gigs = append(data.Gigs, employerGigVM{
			Gig:         g,
			DetailsHTML: htmlsanitize.SanitizeHTML(g.GigDetails),
			Applicants:  applicantsByGig[g.GigID],
			Mine:        g.PostedByUserID == s.User.UserID,
		})
	}

	templates.Render(w, r, "dashboard_employer", data)
}

// fetchApplicants loads each gig's applicant list concurrently. A failed
// lookup leaves that gig's list empty rather than failing the page.
func (h *Handler) fetchApplicants(ctx context.Context, token string, companyGigs []models.Gig) map[int64][]models.Application {
	applicantsByGig := make(map[int64][]models.Application, len(companyGigs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, gig := range companyGigs {
		gig := gig
		g.Go(func() error {
			rows, err := h.Applications.ForGig(gctx, token, gig.GigID)
			if err != nil {
				h.Log.Warn("fetch applicants", zap.Int64("gig_id", gig.GigID), zap.Error(err))
				return nil
			}
			mu.Lock()
			applicantsByGig[gig.GigID] = rows
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return applicantsByGig
}
