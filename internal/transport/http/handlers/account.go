package http_handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/transport/http/dto"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

type AccountHandlerConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SecureCookies bool
	// ExposeResetToken returns the raw reset token from /forgot-password.
	ExposeResetToken bool
}

type AccountHandler struct {
	svc *account.Service
	cfg AccountHandlerConfig
}

func NewAccountHandler(svc *account.Service, cfg AccountHandlerConfig) *AccountHandler {
	return &AccountHandler{svc: svc, cfg: cfg}
}

// decode reads and validates a JSON body, writing the error response on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := response.DecodeJSON(r, dst); err != nil {
		response.WriteError(w, r, err)
		return false
	}
	if err := dto.Validate(dst); err != nil {
		response.WriteError(w, r, err)
		return false
	}
	return true
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.Register(r.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("account_id", res.Account.ID).
		Bool("mail_sent", res.MailSent).
		Msg("account_registered")

	response.Created(w, dto.RegisterData{
		User:     dto.NewAccountView(res.Account),
		MailSent: res.MailSent,
	}, res.Message)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		middleware.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	middleware.LoginAttemptsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetSessionCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken,
		h.cfg.AccessTTL, h.cfg.RefreshTTL, h.cfg.SecureCookies)

	response.OK(w, dto.SessionData{
		User:   dto.NewAccountView(res.Account),
		Tokens: tokensView(res.Tokens),
	}, "user logged in successfully")
}

// Refresh serves GET and POST; the refresh token is read from its cookie only.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RefreshTokens(r.Context(), security.ReadRefreshToken(r))
	middleware.TokenRefreshTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetSessionCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken,
		h.cfg.AccessTTL, h.cfg.RefreshTTL, h.cfg.SecureCookies)

	response.OK(w, dto.SessionData{
		User:   dto.NewAccountView(res.Account),
		Tokens: tokensView(res.Tokens),
	}, "tokens refreshed")
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	a, err := h.svc.Logout(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.ClearSessionCookies(w, h.cfg.SecureCookies)
	response.OK(w, dto.NewAccountView(a), "user logged out successfully")
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	a, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountView(a), "")
}

func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	as, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountViews(as), "")
}

func (h *AccountHandler) FilterUsers(w http.ResponseWriter, r *http.Request) {
	var req dto.FilterRequest
	if !decode(w, r, &req) {
		return
	}

	as, err := h.svc.FilterUsers(r.Context(), req.ToFilter())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountViews(as), "")
}

func (h *AccountHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	targetID := strings.TrimSpace(chi.URLParam(r, "id"))
	if targetID == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	var req dto.BlockRequest
	if !decode(w, r, &req) {
		return
	}

	actorID, _ := middleware.AccountIDFromContext(r.Context())
	a, err := h.svc.SetBlocked(r.Context(), actorID, targetID, *req.Blocked)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	msg := "user unblocked"
	if a.IsBlocked {
		msg = "user blocked"
	}
	response.OK(w, dto.NewAccountView(a), msg)
}

func (h *AccountHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.svc.VerifyAccount(r.Context(), req.Token, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountView(a), "account verified")
}

func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.svc.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	data := dto.ForgotPasswordData{MailSent: res.MailSent}
	if h.cfg.ExposeResetToken {
		data.Token = res.Token
	}
	msg := "password reset email sent"
	if !res.MailSent {
		msg = "password reset token issued, but the email could not be sent"
	}
	response.OK(w, data, msg)
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.svc.UpdatePassword(r.Context(), req.Token, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountView(a), "password updated")
}

func (h *AccountHandler) ResendEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendEmailRequest
	if !decode(w, r, &req) {
		return
	}

	sent, err := h.svc.ResendEmail(r.Context(), req.Email, req.EmailType, req.URL)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	msg := "email sent"
	if !sent {
		msg = "email could not be sent"
	}
	response.OK(w, dto.ResendEmailData{Sent: sent}, msg)
}

func tokensView(t account.AuthTokens) dto.TokensView {
	return dto.TokensView{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}
