package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/view"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
)

// page is the layout data every template receives.
type page struct {
	Title         string
	Nav           string
	User          *user.User
	Topics        []string
	Key           string
	Pending       bool
	Error         string
	Notifications []notify.Notification
}

type errorPage struct {
	page
	Status  int
	Message string
	Back    string
}

// Pages builds layout data and renders shared pages.
type Pages struct {
	views         *view.Renderer
	authService   auth.AuthService
	notifications *notify.Center
}

func (p *Pages) base(ctx context.Context, title, nav string, topics ...string) page {
	pg := page{
		Title:         title,
		Nav:           nav,
		Topics:        append([]string{notify.Topic}, topics...),
		Notifications: p.notifications.List(),
	}
	if u, err := p.authService.CurrentUser(ctx); err == nil {
		pg.User = &u
	}
	return pg
}

// fail renders f as an error page, or sends the operator to sign in when the session has ended.
func (p *Pages) fail(w http.ResponseWriter, r *http.Request, f response.Failure, back string) {
	if f.SignIn {
		redirectToLogin(w, r)
		return
	}
	p.views.Page(w, f.Status, "error", errorPage{
		page:    p.base(r.Context(), "Error", ""),
		Status:  f.Status,
		Message: f.Message,
		Back:    back,
	})
}

// notifyFailure raises a toast for f unless the API client already did.
func (p *Pages) notifyFailure(f response.Failure, title string) {
	if f.Reported || f.SignIn {
		return
	}
	p.notifications.Notify(notify.LevelError, title, f.Message)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func NewPages(views *view.Renderer, authService auth.AuthService, notifications *notify.Center) *Pages {
	return &Pages{views: views, authService: authService, notifications: notifications}
}
