package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smartbuy/auth/core"
	"github.com/smartbuy/auth/pkg/auth"
	"github.com/smartbuy/auth/pkg/jwt"
	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/magiclink"
	"github.com/smartbuy/auth/pkg/oauth"
	"github.com/smartbuy/auth/pkg/validator"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  auth.Profile `json:"user"`
}

func (m *Module) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Text(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := m.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr):
			core.JSON(w, http.StatusUnprocessableEntity, core.ValidationFailure{
				Error:  "Validation failed",
				Fields: verr.Fields(),
			})
		case errors.Is(err, auth.ErrEmailTaken):
			core.Text(w, http.StatusConflict, "Email already registered")
		default:
			m.serverError(w, r, err)
		}
		return
	}

	core.JSON(w, http.StatusOK, user.Profile())
}

func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Text(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := m.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			core.Text(w, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			core.Text(w, http.StatusUnauthorized, "Invalid password")
		default:
			m.serverError(w, r, err)
		}
		return
	}

	core.JSON(w, http.StatusOK, sessionResponse{
		Token: result.Token,
		User:  result.User.Profile(),
	})
}

// handleLogout acknowledges the logout. Sessions are stateless bearer
// tokens, so the client drops the token and the server has nothing to
// revoke.
func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, http.StatusOK, core.Message{Message: "Logged out successfully"})
}

func (m *Module) handleMagicLinkRequest(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Text(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := m.service.RequestMagicLink(r.Context(), req.Email); err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr):
			core.JSON(w, http.StatusUnprocessableEntity, core.ValidationFailure{
				Error:  "Validation failed",
				Fields: verr.Fields(),
			})
		case errors.Is(err, magiclink.ErrDeliveryFailed):
			core.Text(w, http.StatusBadGateway, "Failed to send magic link")
		default:
			m.serverError(w, r, err)
		}
		return
	}

	core.JSON(w, http.StatusAccepted, core.Message{Message: "Magic link sent! Check your email."})
}

func (m *Module) handleMagicLinkVerify(w http.ResponseWriter, r *http.Request) {
	linkToken := r.URL.Query().Get("token")
	if linkToken == "" {
		core.Text(w, http.StatusBadRequest, "Missing token")
		return
	}

	result, err := m.service.RedeemMagicLink(r.Context(), linkToken)
	if err != nil {
		switch {
		case errors.Is(err, magiclink.ErrLinkInvalid),
			errors.Is(err, magiclink.ErrLinkExpired),
			errors.Is(err, magiclink.ErrLinkAlreadyUsed):
			core.Text(w, http.StatusUnauthorized, "Invalid or expired token")
		default:
			m.serverError(w, r, err)
		}
		return
	}

	core.JSON(w, http.StatusOK, sessionResponse{
		Token: result.Token,
		User:  result.User.Profile(),
	})
}

// handleForgotPassword always acknowledges with 202. Unknown addresses get
// the same response as known ones so the endpoint cannot be used to probe
// which emails are registered.
func (m *Module) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Text(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := m.service.ForgotPassword(r.Context(), req.Email); err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		m.serverError(w, r, err)
		return
	}

	core.JSON(w, http.StatusAccepted, core.Message{
		Message: "If that email is registered, a reset link has been sent.",
	})
}

func (m *Module) handleGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	url, err := m.service.GoogleAuthURL(state)
	if err != nil {
		m.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}

func (m *Module) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		core.Text(w, http.StatusBadRequest, "Missing code")
		return
	}

	if cookie, err := r.Cookie(stateCookieName); err != nil || cookie.Value == "" ||
		cookie.Value != r.URL.Query().Get("state") {
		core.Text(w, http.StatusBadRequest, "Invalid state")
		return
	}
	// One attempt per state.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})

	result, err := m.service.LoginWithGoogle(r.Context(), code)
	if err != nil {
		// Only exchange failures are the client's fault; anything after a
		// successful exchange is an infrastructure problem.
		if errors.Is(err, oauth.ErrExchangeFailed) {
			m.logger.ErrorContext(r.Context(), "google code exchange failed",
				logger.Error(err),
				logger.Component("modules/auth"),
			)
			core.Text(w, http.StatusBadRequest, "Failed to get ID token")
			return
		}
		m.serverError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    auth.Profile `json:"user"`
	}{
		Message: "Google login successful",
		Token:   result.Token,
		User:    result.User.Profile(),
	})
}

func (m *Module) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.SessionClaimsFromContext(r.Context())
	if !ok {
		core.Text(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	core.JSON(w, http.StatusOK, struct {
		User jwt.SessionClaims `json:"user"`
	}{User: claims})
}

func (m *Module) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := m.service.ListUsers(r.Context())
	if err != nil {
		m.serverError(w, r, err)
		return
	}

	profiles := make([]auth.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}

	core.JSON(w, http.StatusOK, struct {
		Users []auth.Profile `json:"users"`
	}{Users: profiles})
}

func (m *Module) serverError(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.ErrorContext(r.Context(), "request failed",
		logger.Error(err),
		logger.Component("modules/auth"),
	)
	core.Text(w, http.StatusInternalServerError, "Internal server error")
}
