package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ShipIM/database-refactoring/internal/api/shared"
	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// AccountService registers and authenticates users. auth.Service implements it.
type AccountService interface {
	Register(ctx context.Context, candidate *domain.User) (*auth.Session, error)
	Authenticate(ctx context.Context, candidate *domain.User) (*auth.Session, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts AccountService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register handles POST /auth/registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	birthDate, err := time.Parse(DateLayout, req.BirthDate)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format", nil))
		return
	}

	candidate, err := domain.NewUser(req.Email, req.Password, birthDate)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, err := h.accounts.Register(r.Context(), candidate)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Token: session.Token,
		Email: session.User.Login,
	})
}

// Login handles POST /auth/authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.accounts.Authenticate(r.Context(), &domain.User{
		Login:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token: session.Token,
		Email: session.User.Login,
	})
}
