// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	"github.com/dancecollective/gigboard/internal/app/session"
	"github.com/dancecollective/gigboard/internal/app/store/members"
	"github.com/dancecollective/gigboard/internal/app/store/roles"
	"github.com/dancecollective/gigboard/internal/app/store/skills"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/formutil"
	"github.com/dancecollective/gigboard/internal/app/system/normalize"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// pendingKey is the session value holding the wizard state between steps.
const pendingKey = "pending_register"

type Handler struct {
	Log      *zap.Logger
	Cookies  *auth.SessionManager
	Sessions *session.Manager
	Roles    *roles.Store
	Skills   *skills.Store
	Members  *members.Store
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(
	cookies *auth.SessionManager,
	sessions *session.Manager,
	roleStore *roles.Store,
	skillStore *skills.Store,
	memberStore *members.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:      logger,
		Cookies:  cookies,
		Sessions: sessions,
		Roles:    roleStore,
		Skills:   skillStore,
		Members:  memberStore,
		ErrLog:   errLog,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type detailsFormData struct {
	viewdata.BaseVM
	Error       string
	State       wizardState
	RoleOptions []string
}

type companyFormData struct {
	viewdata.BaseVM
	Error       string
	State       wizardState
	MemberTypes []string
}

type skillsFormData struct {
	viewdata.BaseVM
	Error        string
	State        wizardState
	SkillOptions []string
	Chosen       map[string]bool
}

type reviewFormData struct {
	viewdata.BaseVM
	Error      string
	State      wizardState
	StepErrors []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| Pending state in the session                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// loadState decodes the pending wizard state from the session. A missing or
// malformed value yields a fresh state.
func (h *Handler) loadState(r *http.Request) wizardState {
	var st wizardState
	sess, err := h.Cookies.GetSession(r)
	if err != nil {
		return st
	}
	raw, ok := sess.Values[pendingKey].(string)
	if !ok || raw == "" {
		return st
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		h.Log.Warn("pending registration state corrupt, starting over", zap.Error(err))
		return wizardState{}
	}
	return st
}

// saveState writes the wizard state back into the session cookie.
func (h *Handler) saveState(w http.ResponseWriter, r *http.Request, st wizardState) error {
	sess, err := h.Cookies.GetSession(r)
	if err != nil {
		// Undecodable cookie; GetSession still hands back a fresh session.
		h.Log.Warn("session decode failed, using fresh session", zap.Error(err))
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	sess.Values[pendingKey] = string(raw)
	return sess.Save(r, w)
}

// clearState drops the pending wizard state.
func (h *Handler) clearState(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Cookies.GetSession(r)
	if err != nil {
		return
	}
	delete(sess.Values, pendingKey)
	_ = sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /register                                                           |
| Step 1: account details.                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetails(w http.ResponseWriter, r *http.Request) {
	if s, ok := auth.CurrentSession(r); ok && s.SignedIn() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	st := h.loadState(r)
	h.renderDetails(w, r, st, "")
}

type detailsForm struct {
	Name        string   `schema:"name"`
	Email       string   `schema:"email"`
	DateOfBirth string   `schema:"date_of_birth"`
	Password    string   `schema:"password"`
	Confirm     string   `schema:"confirm"`
	Roles       []string `schema:"roles"`
}

func (h *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	var form detailsForm
	if err := formutil.Decode(r, &form); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode details form", err, "Invalid form data.", "/register")
		return
	}

	st := h.loadState(r)
	st.Name = form.Name
	st.Email = form.Email
	st.DateOfBirth = form.DateOfBirth
	st.Password = form.Password
	st.Confirm = form.Confirm
	st.Roles = nil
	for _, role := range form.Roles {
		st.Roles = append(st.Roles, normalize.Role(role))
	}

	if msg := st.validateDetails(); msg != "" {
		h.renderDetails(w, r, st, msg)
		return
	}

	if err := h.saveState(w, r, st); err != nil {
		h.ErrLog.LogServerError(w, r, "save wizard state", err, "Unable to save your progress. Please try again.", "/register")
		return
	}
	http.Redirect(w, r, "/register/"+st.nextStep(stepDetails), http.StatusSeeOther)
}

func (h *Handler) renderDetails(w http.ResponseWriter, r *http.Request, st wizardState, msg string) {
	opts := h.roleOptions(r.Context())
	templates.Render(w, r, "register_details", detailsFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Create an account", "/"),
		Error:       msg,
		State:       st,
		RoleOptions: opts,
	})
}

// roleOptions fetches the role master list, falling back to the known role
// names when the backend is unreachable so the form stays usable.
func (h *Handler) roleOptions(ctx context.Context) []string {
	cctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	opts, err := h.Roles.List(cctx)
	if err != nil || len(opts) == 0 {
		if err != nil {
			h.Log.Warn("role master list unavailable", zap.Error(err))
		}
		return []string{models.RoleDancer, models.RoleChoreographer, models.RoleEmployer}
	}
	return opts
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /register/company                                                   |
| Step 2: company details, employer role only.                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCompany(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateDetails() != "" || !st.wantsCompany() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	h.renderCompany(w, r, st, "")
}

type companyForm struct {
	CompanyName        string `schema:"company_name"`
	CompanyDescription string `schema:"company_description"`
	CompanyWebsite     string `schema:"company_website"`
	CompanyEmail       string `schema:"company_email"`
	CompanyPhone       string `schema:"company_phone"`
	MemberRole         string `schema:"member_role"`
}

func (h *Handler) HandleCompany(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateDetails() != "" || !st.wantsCompany() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	var form companyForm
	if err := formutil.Decode(r, &form); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode company form", err, "Invalid form data.", "/register/company")
		return
	}

	st.CompanyName = form.CompanyName
	st.CompanyDescription = form.CompanyDescription
	st.CompanyWebsite = form.CompanyWebsite
	st.CompanyEmail = normalize.Email(form.CompanyEmail)
	st.CompanyPhone = form.CompanyPhone
	st.MemberRole = normalize.Role(form.MemberRole)

	if msg := st.validateCompany(); msg != "" {
		h.renderCompany(w, r, st, msg)
		return
	}

	if err := h.saveState(w, r, st); err != nil {
		h.ErrLog.LogServerError(w, r, "save wizard state", err, "Unable to save your progress. Please try again.", "/register/company")
		return
	}
	http.Redirect(w, r, "/register/"+st.nextStep(stepCompany), http.StatusSeeOther)
}

func (h *Handler) renderCompany(w http.ResponseWriter, r *http.Request, st wizardState, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	types, err := h.Members.Types(ctx, "")
	if err != nil || len(types) == 0 {
		types = []string{"owner", "manager", "member"}
	}

	templates.Render(w, r, "register_company", companyFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Your company", "/register"),
		Error:       msg,
		State:       st,
		MemberTypes: types,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /register/skills                                                    |
| Step 3: skill selection, performer roles only.                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSkills(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateDetails() != "" || !st.wantsSkills() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	h.renderSkills(w, r, st, "")
}

type skillsForm struct {
	Skills []string `schema:"skills"`
}

func (h *Handler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateDetails() != "" || !st.wantsSkills() {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	var form skillsForm
	if err := formutil.Decode(r, &form); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode skills form", err, "Invalid form data.", "/register/skills")
		return
	}

	st.Skills = nil
	for _, skill := range form.Skills {
		if s := normalize.Skill(skill); s != "" {
			st.Skills = append(st.Skills, s)
		}
	}

	if err := h.saveState(w, r, st); err != nil {
		h.ErrLog.LogServerError(w, r, "save wizard state", err, "Unable to save your progress. Please try again.", "/register/skills")
		return
	}
	http.Redirect(w, r, "/register/review", http.StatusSeeOther)
}

func (h *Handler) renderSkills(w http.ResponseWriter, r *http.Request, st wizardState, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	opts, err := h.Skills.List(ctx)
	if err != nil {
		h.Log.Warn("skill master list unavailable", zap.Error(err))
	}

	chosen := make(map[string]bool, len(st.Skills))
	for _, s := range st.Skills {
		chosen[s] = true
	}

	templates.Render(w, r, "register_skills", skillsFormData{
		BaseVM:       viewdata.NewBaseVM(r, "Your skills", "/register"),
		Error:        msg,
		State:        st,
		SkillOptions: opts,
		Chosen:       chosen,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /register/review                                                    |
| Step 4: review and submit.                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateComplete() != "" {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "register_review", reviewFormData{
		BaseVM: viewdata.NewBaseVM(r, "Review and submit", "/register"),
		State:  st,
	})
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)
	if st.validateComplete() != "" {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	in := session.RegisterInput{
		Name:        st.Name,
		Email:       st.Email,
		DateOfBirth: st.DateOfBirth,
		Password:    st.Password,
		Roles:       st.Roles,
		Skills:      st.Skills,
	}
	if st.wantsCompany() {
		in.Employer = &session.EmployerInput{
			Name:        st.CompanyName,
			Description: st.CompanyDescription,
			Website:     st.CompanyWebsite,
			Email:       st.CompanyEmail,
			Phone:       st.CompanyPhone,
			MemberRole:  st.MemberRole,
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s, result, err := h.Sessions.Register(ctx, in)
	if err != nil {
		h.Log.Warn("registration saga failed", zap.Error(err))
		h.renderReviewFailure(w, r, st, result, err)
		return
	}

	h.clearState(w, r)
	if err := h.Cookies.Save(w, r, s); err != nil {
		h.ErrLog.LogServerError(w, r, "save session after registration", err, "Your account was created but sign-in failed. Please log in.", "/login")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// renderReviewFailure re-renders the review page with the saga's per-step
// outcomes. Steps that completed before the failure are durable on the
// server, so the page says what happened rather than pretending the whole
// submission rolled back.
func (h *Handler) renderReviewFailure(w http.ResponseWriter, r *http.Request, st wizardState, result *session.SagaResult, err error) {
	var stepErrs []string
	if result != nil {
		for _, step := range result.Steps {
			if step.Err != nil {
				stepErrs = append(stepErrs, step.Name+": "+step.Err.Error())
			}
		}
	}

	templates.Render(w, r, "register_review", reviewFormData{
		BaseVM:     viewdata.NewBaseVM(r, "Review and submit", "/register"),
		Error:      err.Error(),
		State:      st,
		StepErrors: stepErrs,
	})
}
