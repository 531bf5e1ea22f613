// internal/app/features/gigs/handler.go
package gigs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/backend"
	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	"github.com/dancecollective/gigboard/internal/app/store/eventtypes"
	"github.com/dancecollective/gigboard/internal/app/store/gigroles"
	gigstore "github.com/dancecollective/gigboard/internal/app/store/gigs"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/formutil"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	Gigs       *gigstore.Store
	GigRoles   *gigroles.Store
	EventTypes *eventtypes.Store
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(
	gigStore *gigstore.Store,
	gigRoleStore *gigroles.Store,
	eventTypeStore *eventtypes.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		Gigs:       gigStore,
		GigRoles:   gigRoleStore,
		EventTypes: eventTypeStore,
		ErrLog:     errLog,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Form                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// gigForm covers both create and edit. A role is requested when its needed
// count is above zero; the backend stores one gig-role row per requested
// role.
type gigForm struct {
	GigName    string `schema:"gig_name"`
	GigDate    string `schema:"gig_date"`
	TypeName   string `schema:"type_name"`
	GigDetails string `schema:"gig_details"`

	DancerNeeded        int     `schema:"dancer_needed"`
	DancerPay           float64 `schema:"dancer_pay"`
	ChoreographerNeeded int     `schema:"choreographer_needed"`
	ChoreographerPay    float64 `schema:"choreographer_pay"`
	PayCurrency         string  `schema:"pay_currency"`
	PayUnit             string  `schema:"pay_unit"`
}

func (f *gigForm) validate(forCreate bool) string {
	if f.GigName == "" {
		return "Please enter a gig name."
	}
	if f.GigDate == "" {
		return "Please enter a date."
	}
	if f.TypeName == "" {
		return "Please choose an event type."
	}
	if forCreate && f.DancerNeeded <= 0 && f.ChoreographerNeeded <= 0 {
		return "Please request at least one role."
	}
	return ""
}

// roleRows converts the form's role fields into creation payloads.
func (f *gigForm) roleRows(gigID int64) []gigroles.NewGigRole {
	var rows []gigroles.NewGigRole
	if f.DancerNeeded > 0 {
		rows = append(rows, gigroles.NewGigRole{
			GigID:       gigID,
			RoleName:    models.RoleDancer,
			NeededCount: f.DancerNeeded,
			PayAmount:   f.DancerPay,
			PayCurrency: f.PayCurrency,
			PayUnit:     f.PayUnit,
		})
	}
	if f.ChoreographerNeeded > 0 {
		rows = append(rows, gigroles.NewGigRole{
			GigID:       gigID,
			RoleName:    models.RoleChoreographer,
			NeededCount: f.ChoreographerNeeded,
			PayAmount:   f.ChoreographerPay,
			PayCurrency: f.PayCurrency,
			PayUnit:     f.PayUnit,
		})
	}
	return rows
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /gigs/new, POST /gigs/new                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	if s.User.EmployerID == 0 {
		uierrors.RenderForbidden(w, r, "You need a company before you can post gigs.", "/dashboard")
		return
	}
	h.renderForm(w, r, "gig_new", gigForm{PayCurrency: "USD", PayUnit: "hour"}, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	if s.User.EmployerID == 0 {
		uierrors.RenderForbidden(w, r, "You need a company before you can post gigs.", "/dashboard")
		return
	}

	var form gigForm
	if err := formutil.Decode(r, &form); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode gig form", err, "Invalid form data.", "/gigs/new")
		return
	}
	if msg := form.validate(true); msg != "" {
		h.renderForm(w, r, "gig_new", form, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Gigs.Create(ctx, s.Token, gigstore.NewGig{
		GigName:    form.GigName,
		GigDate:    form.GigDate,
		GigDetails: form.GigDetails,
		TypeName:   form.TypeName,
		EmployerID: s.User.EmployerID,
	})
	if err != nil {
		h.Log.Error("create gig", zap.Error(err))
		h.renderForm(w, r, "gig_new", form, "The gig could not be created. Please try again.")
		return
	}

	// Role rows are separate calls. A failure partway leaves the gig and
	// earlier rows in place on the server; the user is told rather than
	// shown a clean success.
	for _, row := range form.roleRows(created.GigID) {
		if _, err := h.GigRoles.Create(ctx, s.Token, row); err != nil {
			h.Log.Error("create gig role",
				zap.Int64("gig_id", created.GigID),
				zap.String("role", row.RoleName),
				zap.Error(err))
			h.renderForm(w, r, "gig_new", form,
				"The gig was created, but saving the "+row.RoleName+
					" role failed. Edit the gig to finish setting it up.")
			return
		}
	}

	h.Log.Info("gig created",
		zap.Int64("gig_id", created.GigID),
		zap.Int64("employer_id", s.User.EmployerID))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /gigs/{id}/edit, POST /gigs/{id}/edit                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	gigID, ok := gigIDFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gig, ok := h.findCompanyGig(ctx, s, gigID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := gigForm{
		GigName:    gig.GigName,
		GigDate:    gig.GigDate,
		TypeName:   gig.TypeName,
		GigDetails: gig.GigDetails,
	}
	if rows, err := h.GigRoles.ForGig(ctx, s.Token, gigID); err == nil {
		for _, row := range rows {
			switch row.RoleName {
			case models.RoleDancer:
				form.DancerNeeded = row.NeededCount
				form.DancerPay = row.PayAmount
			case models.RoleChoreographer:
				form.ChoreographerNeeded = row.NeededCount
				form.ChoreographerPay = row.PayAmount
			}
			form.PayCurrency = row.PayCurrency
			form.PayUnit = row.PayUnit
		}
	}

	h.renderEditForm(w, r, gigID, form, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	gigID, ok := gigIDFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var form gigForm
	if err := formutil.Decode(r, &form); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode gig form", err, "Invalid form data.", "/dashboard")
		return
	}
	if msg := form.validate(false); msg != "" {
		h.renderEditForm(w, r, gigID, form, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ch := gigstore.Changes{
		GigName:    &form.GigName,
		GigDate:    &form.GigDate,
		GigDetails: &form.GigDetails,
		TypeName:   &form.TypeName,
	}
	if err := h.Gigs.Update(ctx, s.Token, gigID, ch); err != nil {
		if backendForbidden(err) {
			uierrors.RenderForbidden(w, r, "Only the member who posted this gig can edit it.", "/dashboard")
			return
		}
		h.Log.Error("update gig", zap.Int64("gig_id", gigID), zap.Error(err))
		h.renderEditForm(w, r, gigID, form, "The gig could not be updated. Please try again.")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /gigs/{id}/delete                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	gigID, ok := gigIDFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gigs.Delete(ctx, s.Token, gigID); err != nil {
		if backendForbidden(err) {
			uierrors.RenderForbidden(w, r, "Only the member who posted this gig can delete it.", "/dashboard")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete gig", err, "The gig could not be deleted. Please try again.", "/dashboard")
		return
	}

	h.Log.Info("gig deleted", zap.Int64("gig_id", gigID))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func gigIDFromURL(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// findCompanyGig looks the gig up within the employer's own gig list so an
// employer cannot load another company's gig into the edit form.
func (h *Handler) findCompanyGig(ctx context.Context, s auth.Session, gigID int64) (models.Gig, bool) {
	rows, err := h.Gigs.List(ctx, s.Token, gigstore.Filter{EmployerID: s.User.EmployerID})
	if err != nil {
		h.Log.Error("list company gigs", zap.Error(err))
		return models.Gig{}, false
	}
	for _, g := range rows {
		if g.GigID == gigID {
			return g, true
		}
	}
	return models.Gig{}, false
}

func backendForbidden(err error) bool {
	return backend.IsStatus(err, http.StatusForbidden)
}
