package server

import (
	"errors"
	"net/http"
	"strconv"

	"vidjot/internal/service"
	"vidjot/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler aggregates the page handlers and their service dependencies.
type Handler struct {
	userSvc  *service.UserService
	resetSvc *service.ResetService
	sessions *session.Manager
}

func NewHandler(userSvc *service.UserService, resetSvc *service.ResetService, sessions *session.Manager) *Handler {
	return &Handler{userSvc: userSvc, resetSvc: resetSvc, sessions: sessions}
}

// render merges queued flash messages into the template data.
func render(c *gin.Context, tmpl string, data gin.H) {
	st := session.FromContext(c)
	if data == nil {
		data = gin.H{}
	}
	if msgs := st.PopFlashes("success"); len(msgs) > 0 {
		data["SuccessFlash"] = msgs
	}
	if msgs := st.PopFlashes("error"); len(msgs) > 0 {
		data["ErrorFlash"] = msgs
	}
	c.HTML(http.StatusOK, tmpl, data)
}

// renderError is the generic fallback page for persistence and other
// unexpected failures; the cause stays in the log.
func renderError(c *gin.Context, msg string) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": msg})
}

func (h *Handler) ShowLogin(c *gin.Context)    { render(c, "login.html", nil) }
func (h *Handler) ShowRegister(c *gin.Context) { render(c, "register.html", nil) }
func (h *Handler) ShowForgot(c *gin.Context)   { render(c, "forgot.html", nil) }
func (h *Handler) ShowChat(c *gin.Context)     { render(c, "chat.html", nil) }

// ShowUpdateAccount renders the profile form. The id is embedded in the
// form itself so the POST carries it explicitly.
func (h *Handler) ShowUpdateAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid ID"})
		return
	}
	render(c, "update.html", gin.H{"ID": id})
}

// Register handles the registration form.
func (h *Handler) Register(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("password2")

	u, err := h.userSvc.Register(name, email, password, confirm)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			render(c, "register.html", gin.H{"Errors": verr.Messages, "Name": name, "Email": email})
		case errors.Is(err, service.ErrDuplicateAccount):
			session.FromContext(c).Flash("error", email+" is already registered")
			c.Redirect(http.StatusFound, "/showRegister")
		default:
			log.Error().Err(err).Str("email", email).Msg("register")
			renderError(c, "Could not create your account. Please try again later.")
		}
		return
	}
	session.FromContext(c).Flash("success", u.Email+" registered successfully")
	c.Redirect(http.StatusFound, "/showLogin")
}

// Login authenticates the form credentials and establishes the session.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	st := session.FromContext(c)

	u, err := h.userSvc.Login(email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same message for unknown user and wrong password.
			st.Flash("error", "Invalid email or password")
			c.Redirect(http.StatusFound, "/showLogin")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("login")
		renderError(c, "Login failed. Please try again later.")
		return
	}
	if err := h.sessions.Renew(c, st); err != nil {
		log.Error().Err(err).Uint("user_id", u.ID).Msg("login: session renew")
		renderError(c, "Login failed. Please try again later.")
		return
	}
	st.SetUserID(u.ID)
	c.Redirect(http.StatusFound, "/chat")
}

// Logout destroys the session.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Destroy(c, session.FromContext(c))
	c.Redirect(http.StatusFound, "/showLogin")
}

// UpdateProfile applies the profile form. The id travels in the form body.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("id"), 10, 64)
	if err != nil || id == 0 {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid ID"})
		return
	}
	name := c.PostForm("name")
	email := c.PostForm("email")

	if err := h.userSvc.UpdateProfile(uint(id), name, email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid ID"})
			return
		}
		log.Error().Err(err).Uint64("user_id", id).Msg("update profile")
		renderError(c, "Could not update your account. Please try again later.")
		return
	}
	session.FromContext(c).Flash("success", email+" updated successfully")
	c.Redirect(http.StatusFound, "/chat")
}

// RequestReset handles the forgot-password form.
func (h *Handler) RequestReset(c *gin.Context) {
	email := c.PostForm("email")
	st := session.FromContext(c)

	if err := h.resetSvc.RequestReset(email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			st.Flash("error", email+" is not registered")
			c.Redirect(http.StatusFound, "/showForgot")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("request reset")
		renderError(c, "Could not start the password reset. Please try again later.")
		return
	}
	st.Flash("success", "A password reset link has been sent to "+email)
	c.Redirect(http.StatusFound, "/showLogin")
}

// resetParams pulls the id and token out of the reset-link path.
func resetParams(c *gin.Context) (uint, string, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}
	return uint(id), c.Param("token"), true
}

// ShowReset verifies the reset link and renders the form. A bad or
// expired token is an explicit error page, never a silent pass-through.
func (h *Handler) ShowReset(c *gin.Context) {
	id, token, ok := resetParams(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid ID"})
		return
	}
	u, err := h.resetSvc.VerifyReset(id, token)
	if err != nil {
		h.renderResetFailure(c, id, err)
		return
	}
	render(c, "reset.html", gin.H{"Email": u.Email, "ID": id, "Token": token})
}

// SubmitReset re-verifies the link and applies the new password.
func (h *Handler) SubmitReset(c *gin.Context) {
	id, token, ok := resetParams(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid ID"})
		return
	}
	password := c.PostForm("password")
	confirm := c.PostForm("password2")

	if err := h.resetSvc.SubmitReset(id, token, password, confirm); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			render(c, "reset.html", gin.H{"Errors": verr.Messages, "ID": id, "Token": token})
			return
		}
		h.renderResetFailure(c, id, err)
		return
	}
	session.FromContext(c).Flash("success", "Password changed successfully")
	c.Redirect(http.StatusFound, "/showLogin")
}

func (h *Handler) renderResetFailure(c *gin.Context, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Invalid ID"})
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "This reset link is invalid or has expired. Please request a new one."})
	default:
		log.Error().Err(err).Uint("user_id", id).Msg("verify reset")
		renderError(c, "Could not verify the reset link. Please try again later.")
	}
}
