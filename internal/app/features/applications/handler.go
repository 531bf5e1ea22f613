// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/backend"
	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	appstore "github.com/dancecollective/gigboard/internal/app/store/applications"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"go.uber.org/zap"
)

// Handler covers the application lifecycle: a performer applies and
// withdraws, an employer shortlists, accepts, or rejects. All three routes
// are plain form posts that land back on the dashboard.
type Handler struct {
	Log          *zap.Logger
	Applications *appstore.Store
	ErrLog       *uierrors.ErrorLogger
}

func NewHandler(applicationStore *appstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:          logger,
		Applications: applicationStore,
		ErrLog:       errLog,
	}
}

// HandleApply creates an application for the session user on the posted gig.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	if !models.IsPerformerRole(s.ActiveRole) {
		uierrors.RenderForbidden(w, r, "Switch to a performer role to apply to gigs.", "/dashboard")
		return
	}

	gigID, ok := formID(r, "gig_id")
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "apply: bad gig id", nil, "That gig could not be found.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, err := h.Applications.Apply(ctx, s.Token, gigID)
	if err != nil {
		// Applying twice or to a finished gig comes back as a 400.
		if backend.IsStatus(err, http.StatusBadRequest) {
			h.Log.Warn("apply rejected", zap.Int64("gig_id", gigID), zap.Error(err))
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "apply to gig", err,
			"Your application could not be submitted. Please try again.", "/dashboard")
		return
	}

	h.Log.Info("applied to gig",
		zap.Int64("gig_id", gigID),
		zap.Int64("application_id", app.ApplicationID))
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/dashboard"), http.StatusSeeOther)
}

// HandleWithdraw marks the session user's application withdrawn. The backend
// keeps the record and reopens the gig for a later application.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)

	applicationID, ok := formID(r, "application_id")
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "withdraw: bad application id", nil, "That application could not be found.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Applications.Withdraw(ctx, s.Token, applicationID); err != nil {
		if backend.IsStatus(err, http.StatusForbidden) {
			uierrors.RenderForbidden(w, r, "You can only withdraw your own applications.", "/dashboard")
			return
		}
		h.ErrLog.LogServerError(w, r, "withdraw application", err,
			"The application could not be withdrawn. Please try again.", "/dashboard")
		return
	}

	h.Log.Info("application withdrawn", zap.Int64("application_id", applicationID))
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/dashboard"), http.StatusSeeOther)
}

// HandleDecide sets an applicant's status on behalf of an employer. The
// decision comes from which submit button was pressed.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)

	applicationID, ok := formID(r, "application_id")
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "decide: bad application id", nil, "That application could not be found.", "/dashboard")
		return
	}

	decision := r.PostFormValue("decision")
	switch decision {
	case models.StatusShortlisted, models.StatusAccepted, models.StatusRejected:
	default:
		h.ErrLog.LogBadRequest(w, r, "decide: bad decision value", nil, "Unknown decision.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Applications.SetStatus(ctx, s.Token, applicationID, decision); err != nil {
		if backend.IsStatus(err, http.StatusForbidden) {
			uierrors.RenderForbidden(w, r, "Only members of the gig's company can decide on applicants.", "/dashboard")
			return
		}
		h.ErrLog.LogServerError(w, r, "decide application", err,
			"The decision could not be saved. Please try again.", "/dashboard")
		return
	}

	h.Log.Info("application decided",
		zap.Int64("application_id", applicationID),
		zap.String("status", decision))
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/dashboard"), http.StatusSeeOther)
}

func formID(r *http.Request, field string) (int64, bool) {
	id, err := strconv.ParseInt(r.PostFormValue(field), 10, 64)
	return id, err == nil && id > 0
}
