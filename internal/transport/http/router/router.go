package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	// Session
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Verification / reset
	VerifyAccount(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	UpdatePassword(w http.ResponseWriter, r *http.Request)

	// Admin
	ListUsers(w http.ResponseWriter, r *http.Request)
	FilterUsers(w http.ResponseWriter, r *http.Request)
	SetBlocked(w http.ResponseWriter, r *http.Request)
	ResendEmail(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health  HealthHandler
	Account AccountHandler

	// Global runs first, outermost first (request id, recover, logging, metrics).
	Global []Middleware

	// Gates
	UserMW  Middleware // USER or ADMIN
	AdminMW Middleware // ADMIN only

	// Rate limits, nil means unlimited.
	RLRegister       Middleware
	RLLogin          Middleware
	RLRefresh        Middleware
	RLForgotPassword Middleware
	RLTokenRedeem    Middleware
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Account == nil {
		return nil, fmt.Errorf("nil Account handler")
	}
	if deps.UserMW == nil {
		return nil, fmt.Errorf("nil User middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()
	for _, mw := range deps.Global {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	a := deps.Account
	r.Route("/api/users", func(r chi.Router) {
		// --- public ---
		r.With(opt(deps.RLRegister)...).Post("/register", a.Register)
		r.With(opt(deps.RLLogin)...).Post("/login", a.Login)
		r.With(opt(deps.RLRefresh)...).Get("/refresh", a.Refresh)
		r.With(opt(deps.RLRefresh)...).Post("/refresh", a.Refresh)
		r.With(opt(deps.RLTokenRedeem)...).Post("/verify", a.VerifyAccount)
		r.With(opt(deps.RLForgotPassword)...).Post("/forgot-password", a.ForgotPassword)
		r.With(opt(deps.RLTokenRedeem)...).Post("/update-password", a.UpdatePassword)

		// --- any signed-in user ---
		r.Group(func(r chi.Router) {
			r.Use(deps.UserMW)
			r.Patch("/logout", a.Logout)
			r.Get("/me", a.Me)
		})

		// --- admin ---
		r.Group(func(r chi.Router) {
			r.Use(deps.AdminMW)
			r.Get("/all", a.ListUsers)
			r.Post("/filter", a.FilterUsers)
			r.Patch("/{id}/block", a.SetBlocked)
			r.Post("/resend-email", a.ResendEmail)
		})
	})

	return r, nil
}

func opt(mw Middleware) []Middleware {
	if mw == nil {
		return nil
	}
	return []Middleware{mw}
}
