// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/gateway"
	userapi "github.com/doracare/murshid/internal/app/remote/users"
	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/ratelimit"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the combined sign-in / sign-up page and exchanges
// credentials with the tracking service.
type Handler struct {
	Users    *userapi.Store
	Sessions *auth.Manager
	Records  *sessionstore.Store
	Limiter  *ratelimit.LoginLimiter
	Log      *zap.Logger
}

func NewHandler(users *userapi.Store, sessions *auth.Manager, records *sessionstore.Store, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Records:  records,
		Limiter:  limiter,
		Log:      logger,
	}
}

type authPageData struct {
	viewdata.BaseVM
	Tab           string // "login" or "register"
	LoginError    string
	RegisterError string
	Notice        string
	Email         string // re-fill on failed login
	FullName      string // re-fill on failed registration
	RegEmail      string
	PhoneNumber   string
}

type loginForm struct {
	Email    string `validate:"required,email,max=254" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

type registerForm struct {
	FullName    string `validate:"required,max=120" label:"Full name"`
	Email       string `validate:"required,email,max=254" label:"Email"`
	Password    string `validate:"required,min=8,max=128" label:"Password"`
	PhoneNumber string `validate:"max=20" label:"Phone number"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAuthPage(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "auth_page", authPageData{
		BaseVM: viewdata.NewBaseVM(r, "Sign In", "/"),
		Tab:    "login",
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data.", "")
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if res := inputval.Validate(form); res.HasErrors() {
		h.renderLoginError(w, r, res.First(), form.Email)
		return
	}

	if h.Limiter != nil {
		allowed, reason := h.Limiter.Check(r, form.Email)
		if !allowed {
			h.Log.Warn("login rate limited",
				zap.String("reason", reason),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderLoginError(w, r, "Too many sign-in attempts. Please wait a few minutes and try again.", form.Email)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Users.Login(ctx, form.Email, form.Password)
	if err != nil {
		msg, serviceDown := loginFailureMessage(err)
		if serviceDown {
			h.Log.Error("login call failed", zap.Error(err))
		}
		h.renderLoginError(w, r, msg, form.Email)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(form.Email)
	}

	u := auth.SessionUser{
		ID:    res.UserID,
		Name:  res.FullName,
		Email: form.Email,
		Role:  res.Role,
		Token: res.Token,
	}
	if err := h.Sessions.Establish(w, r, u); err != nil {
		h.Log.Error("establish session failed", zap.Error(err), zap.String("user_id", res.UserID))
		h.renderLoginError(w, r, "Unable to create a session. Please try again.", form.Email)
		return
	}

	if h.Records != nil {
		if _, err := h.Records.Open(ctx, res.UserID, res.FullName, res.Role, res.Token); err != nil {
			h.Log.Warn("record session open failed", zap.Error(err), zap.String("user_id", res.UserID))
		}
	}

	http.Redirect(w, r, auth.HomeFor(res.Role), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/register                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegisterError(w, r, "Invalid form data.", registerForm{})
		return
	}

	form := registerForm{
		FullName:    strings.TrimSpace(r.FormValue("full_name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Password:    r.FormValue("password"),
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
	}
	if res := inputval.Validate(form); res.HasErrors() {
		h.renderRegisterError(w, r, res.First(), form)
		return
	}
	if form.Password != r.FormValue("confirm_password") {
		h.renderRegisterError(w, r, "Passwords do not match.", form)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.Register(ctx, userapi.RegisterInput{
		FullName:    form.FullName,
		Email:       form.Email,
		Password:    form.Password,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		msg, serviceDown := registerFailureMessage(err)
		if serviceDown {
			h.Log.Error("register call failed", zap.Error(err))
		}
		h.renderRegisterError(w, r, msg, form)
		return
	}

	templates.Render(w, r, "auth_page", authPageData{
		BaseVM: viewdata.NewBaseVM(r, "Sign In", "/"),
		Tab:    "login",
		Notice: "Account created. You can sign in now.",
		Email:  form.Email,
	})
}

// loginFailureMessage maps a failed login call to what the form shows.
// The tracking service throttles sign-in attempts itself; its 429 gets a
// dedicated message regardless of payload. The second result reports a
// service-side failure worth logging.
func loginFailureMessage(err error) (string, bool) {
	if gateway.IsRateLimited(err) {
		return "Too many sign-in attempts. Please wait a few minutes and try again.", false
	}
	if ge, ok := gateway.AsError(err); ok && ge.Status < http.StatusInternalServerError {
		return ge.UserMessage("Invalid email or password."), false
	}
	return "Sign-in is unavailable right now. Please try again.", true
}

func registerFailureMessage(err error) (string, bool) {
	if gateway.IsRateLimited(err) {
		return "Too many registration attempts. Please wait a few minutes and try again.", false
	}
	if ge, ok := gateway.AsError(err); ok && ge.Status < http.StatusInternalServerError {
		return ge.UserMessage("That account could not be created."), false
	}
	return "Registration is unavailable right now. Please try again.", true
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "auth_page", authPageData{
		BaseVM:     viewdata.NewBaseVM(r, "Sign In", "/"),
		Tab:        "login",
		LoginError: msg,
		Email:      email,
	})
}

func (h *Handler) renderRegisterError(w http.ResponseWriter, r *http.Request, msg string, form registerForm) {
	templates.Render(w, r, "auth_page", authPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Create Account", "/"),
		Tab:           "register",
		RegisterError: msg,
		FullName:      form.FullName,
		RegEmail:      form.Email,
		PhoneNumber:   form.PhoneNumber,
	})
}
