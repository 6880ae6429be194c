package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
)

// --- Request/response DTOs (HTTP boundary) ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // customer | driver

	// driver-only fields, feed the provider profile
	LicenseNumber string         `json:"license_number,omitempty"`
	ServiceKind   string         `json:"service_kind,omitempty"` // fuel | mechanic
	Vehicle       map[string]any `json:"vehicle,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ----- Handler: POST /auth/register -----

func (handler *OrderHTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req registerRequest
	if !handler.decodeStrict(ctx, w, r, &req, 256<<10) {
		return
	}

	role, err := user.ParseRole(req.Role)
	if err != nil || role == user.RoleAdmin {
		handler.httpError(ctx, w, http.StatusBadRequest, "role must be one of: customer, driver", err)
		return
	}
	if len(req.Password) < 8 {
		handler.httpError(ctx, w, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}

	// driver accounts carry a provider profile
	var serviceKind order.Kind
	if role == user.RoleDriver {
		serviceKind, err = order.ParseKind(req.ServiceKind)
		if err != nil {
			handler.httpError(ctx, w, http.StatusBadRequest, "service_kind must be one of: fuel, mechanic", err)
			return
		}
		if strings.TrimSpace(req.LicenseNumber) == "" {
			handler.httpError(ctx, w, http.StatusBadRequest, "license_number is required for drivers", nil)
			return
		}
	}

	hash, err := jwt.HashPassword(req.Password)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	var created *user.User
	err = handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if existing, err := handler.users.GetByEmail(txCtx, req.Email); err != nil {
			return err
		} else if existing != nil {
			return errors.New("email already registered")
		}

		u, err := user.NewUser(req.Email, req.FullName, role, hash, nil)
		if err != nil {
			return err
		}
		u.Phone = strings.TrimSpace(req.Phone)
		if err := handler.users.CreateUser(txCtx, u); err != nil {
			return err
		}

		if role == user.RoleDriver {
			prov, err := provider.NewProvider(u.ID, req.FullName, req.LicenseNumber, serviceKind, req.Vehicle)
			if err != nil {
				return err
			}
			prov.ContactPhone = u.Phone
			if err := handler.providers.CreateProvider(txCtx, prov); err != nil {
				return err
			}
		}

		created = u
		return nil
	})
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	token, claims, err := handler.auth.IssueUserToken(created.ID, created.Role)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	log.Info(ctx, handler.logger, "user_registered", "User registered: "+created.Email)

	handler.jsonResponse(ctx, w, http.StatusCreated, authResponse{
		UserID:    created.ID,
		Email:     created.Email,
		Role:      created.Role.String(),
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// ----- Handler: POST /auth/login -----

func (handler *OrderHTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req loginRequest
	if !handler.decodeStrict(ctx, w, r, &req, 256<<10) {
		return
	}

	var account *user.User
	err := handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
		u, err := handler.users.GetByEmail(txCtx, req.Email)
		if err != nil {
			return err
		}
		account = u
		return nil
	})
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "login failed", err)
		return
	}
	if account == nil || jwt.VerifyPassword(account.PasswordHash, req.Password) != nil {
		// same answer for unknown email and wrong password
		handler.httpError(ctx, w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, claims, err := handler.auth.IssueUserToken(account.ID, account.Role)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	log.Info(ctx, handler.logger, "user_logged_in", "User logged in: "+account.Email)

	handler.jsonResponse(ctx, w, http.StatusOK, authResponse{
		UserID:    account.ID,
		Email:     account.Email,
		Role:      account.Role.String(),
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// decodeStrict decodes a JSON body with the shared guards: content type,
// size limit, unknown field rejection. It writes the error response itself
// and reports whether decoding succeeded.
func (handler *OrderHTTPHandler) decodeStrict(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return false
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}
