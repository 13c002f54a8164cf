package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
)

type AuthHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	*Pages
	jwtService jwt.Service
}

type loginPage struct {
	page
	Email  string
	Next   string
	Fields map[string]string
}

func NewAuthHandler(p *Pages, jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{Pages: p, jwtService: jwtService}
}

// LoginPage implements AuthHandler. A signed-in admin is sent to the dashboard.
func (h *authHandlerImpl) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.signedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.views.Page(w, http.StatusOK, "login", loginPage{
		page: h.base(r.Context(), "Sign in", ""),
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Error("Login form parse error", "error", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req := auth.LoginRequest{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	next := safeNext(r.PostForm.Get("next"))

	u, err := h.authService.Login(r.Context(), req)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		f := response.Classify(err)
		pg := h.base(r.Context(), "Sign in", "")
		if len(f.Fields) == 0 {
			pg.Error = f.Message
		}
		h.views.Page(w, f.Status, "login", loginPage{page: pg, Email: req.Email, Next: next, Fields: f.Fields})
		return
	}

	token, expiresAt, err := h.jwtService.IssueConsoleToken(u)
	if err != nil {
		slog.Error("Failed to issue console token", "error", err)
		h.authService.Logout(r.Context())
		h.fail(w, r, response.Classify(err), "/login")
		return
	}
	http.SetCookie(w, h.jwtService.ConsoleCookie(token, expiresAt))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(jwt.CookieName); err == nil && cookie.Value != "" {
		h.jwtService.RevokeToken(cookie.Value)
	}
	h.authService.Logout(r.Context())
	http.SetCookie(w, h.jwtService.ClearCookie())
	redirectToLogin(w, r)
}

func (h *authHandlerImpl) signedIn(r *http.Request) bool {
	cookie, err := r.Cookie(jwt.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	if _, err := h.jwtService.ValidateConsoleToken(cookie.Value); err != nil {
		return false
	}
	_, err = h.authService.CurrentUser(r.Context())
	return err == nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
