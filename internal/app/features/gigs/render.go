// internal/app/features/gigs/render.go
package gigs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type formData struct {
	viewdata.BaseVM
	Form       gigForm
	EventTypes []string
	Error      string
	Action     string
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, name string, form gigForm, errMsg string) {
	title := "Post a gig"
	if name == "gig_edit" {
		title = "Edit gig"
	}
	data := formData{
		BaseVM:     viewdata.NewBaseVM(r, title, "/dashboard"),
		Form:       form,
		EventTypes: h.eventTypeOptions(r),
		Error:      errMsg,
		Action:     "/gigs/new",
	}
	templates.Render(w, r, name, data)
}

func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, gigID int64, form gigForm, errMsg string) {
	data := formData{
		BaseVM:     viewdata.NewBaseVM(r, "Edit gig", "/dashboard"),
		Form:       form,
		EventTypes: h.eventTypeOptions(r),
		Error:      errMsg,
		Action:     "/gigs/" + strconv.FormatInt(gigID, 10) + "/edit",
	}
	templates.Render(w, r, "gig_edit", data)
}

// eventTypeOptions fetches the master list; the form falls back to a free
// baseline when the backend cannot supply it.
func (h *Handler) eventTypeOptions(r *http.Request) []string {
	s, _ := auth.CurrentSession(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	names, err := h.EventTypes.List(ctx, s.Token)
	if err != nil || len(names) == 0 {
		if err != nil {
			h.Log.Warn("list event types", zap.Error(err))
		}
		return []string{"concert", "music video", "theatre", "corporate event", "private party"}
	}
	return names
}
