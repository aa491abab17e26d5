package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/logging"
	"github.com/verkhov/picvault/internal/server/users"
)

// UserService is the slice of the users service the auth handlers need.
type UserService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*users.User, error)
	Login(ctx context.Context, email, password string) (*users.User, string, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// userData is the public-safe projection of an identity returned by the
// auth endpoints. The verifier never appears here.
type userData struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Token     string `json:"token,omitempty"`
}

type AuthHandler struct {
	users  UserService
	logger logging.Logger
}

func NewAuthHandler(users UserService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger.With("module", "auth_handler")}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An undecodable body is treated as an empty submission so the
	// validation pass reports every missing field.
	var req registerRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	req.FirstName = sanitize(req.FirstName)
	req.LastName = sanitize(req.LastName)
	req.Email = sanitize(req.Email)
	req.Password = sanitize(req.Password)

	v := &validator{}
	if v.require("firstName", req.FirstName, "First name must be specified.") {
		v.alphanumeric("firstName", req.FirstName, "First name has non-alphanumeric characters.")
	}
	if v.require("lastName", req.LastName, "Last name must be specified.") {
		v.alphanumeric("lastName", req.LastName, "Last name has non-alphanumeric characters.")
	}
	if v.require("email", req.Email, "Email must be specified.") {
		v.email("email", req.Email, "Email must be a valid email address.")
	}
	v.minLen("password", req.Password, 6, "Password must be 6 characters or greater.")

	if v.ok() {
		taken, err := h.users.EmailTaken(ctx, req.Email)
		if err != nil {
			h.logger.Error(ctx, "email lookup failed", "error", err.Error())
			errorResponse(w, "Internal Server Error")
			return
		}
		if taken {
			v.add("email", "E-mail already in use", req.Email)
		}
	}

	if !v.ok() {
		validationErrorWithData(w, "Validation Error.", v.errs)
		return
	}

	user, err := h.users.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		// the unique index caught a concurrent registration
		if errors.Is(err, common.ErrorAlreadyExists) {
			v.add("email", "E-mail already in use", req.Email)
			validationErrorWithData(w, "Validation Error.", v.errs)
			return
		}
		h.logger.Error(ctx, "registration failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	h.logger.Info(ctx, "registered", "email", user.Email)

	successResponseWithData(w, "Registration Success.", userData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	req.Email = sanitize(req.Email)
	req.Password = sanitize(req.Password)

	v := &validator{}
	if v.require("email", req.Email, "Email must be specified.") {
		v.email("email", req.Email, "Email must be a valid email address.")
	}
	v.require("password", req.Password, "Password must be specified.")

	if !v.ok() {
		validationErrorWithData(w, "Validation Error.", v.errs)
		return
	}

	user, token, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		// unknown email and wrong password produce the same response
		if errors.Is(err, common.ErrorUnauthorized) {
			unauthorizedResponse(w, "Email or Password wrong.")
			return
		}
		h.logger.Error(ctx, "login failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	successResponseWithData(w, "Login Success.", userData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     token,
	})
}
