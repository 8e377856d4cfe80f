// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booking_backend/internal/api"
	"booking_backend/internal/feature/auth/domain"
	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
	"booking_backend/internal/platform/http/middleware"
	jwtmw "booking_backend/internal/platform/jwt"
	"booking_backend/internal/platform/validation"
)

// Public messages. Internal errors never reach the client.
const (
	msgRegistered      = "User registered successfully. Please check your email for verification code."
	msgVerified        = "Email verified successfully"
	msgLoggedIn        = "Login successful"
	msgInvalidInput    = "Invalid request body"
	msgMissingRegister = "Please provide all required fields: email, password, first_name, last_name"
	msgMissingVerify   = "Please provide email and verification code"
	msgInvalidEmail    = "Please provide a valid email address"
	msgWeakPassword    = "Password must be at least 8 characters long"
	msgLongPassword    = "Password must be at most 72 bytes long"
	msgInvalidRole     = "Role must be one of: customer, agent, admin"
	msgEmailTaken      = "User with this email already exists"
	msgMissingLogin    = "Please provide email and password"
	msgBadCredentials  = "Invalid email or password"
	msgBadCode         = "Invalid verification code"
	msgAlreadyVerified = "Email is already verified"
	msgUserNotFound    = "User not found"
	msgInvalidUserID   = "Invalid user id"
	msgNotAuthorized   = "Not authorized to access this route"
	msgRegisterFailed  = "Server error during registration"
	msgLoginFailed     = "Server error during login"
	msgVerifyFailed    = "Server error during email verification"
	msgLookupFailed    = "Server error"
)

// AuthUsecase defines the account operations the handlers need.
// The consumer owns the interface, following the usual Go convention.
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	VerifyEmail(ctx context.Context, email, code string) (*entity.User, error)
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler backed by auth.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err, msgMissingRegister, msgRegisterFailed)
		return
	}

	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.AuthResponse{
		Success: true,
		Message: msgRegistered,
		Token:   res.Token,
		User:    toAPIUser(res.User),
	})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req api.VerifyEmailRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		slog.Warn("email verification failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err, msgMissingVerify, msgVerifyFailed)
		return
	}

	slog.Info("email verified", "user_id", user.ID)
	c.JSON(http.StatusOK, api.UserResponse{
		Success: true,
		Message: msgVerified,
		User:    toAPIUser(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// same response for unknown email and wrong password
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err, msgMissingLogin, msgLoginFailed)
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.AuthResponse{
		Success: true,
		Message: msgLoggedIn,
		Token:   res.Token,
		User:    toAPIUser(res.User),
	})
}

// Me handles GET /api/auth/me. It must run behind jwtmw.Authenticate.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := jwtmw.IdentityFrom(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized, nil)
		return
	}
	h.respondUser(c, id.UserID)
}

// GetUser handles GET /api/auth/users/:id for staff roles.
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, msgInvalidUserID, nil)
		return
	}
	h.respondUser(c, uint(id))
}

func (h *AuthHandler) respondUser(c *gin.Context, id uint) {
	user, err := h.auth.GetByID(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, usecase.ErrUserNotFound) {
			slog.Error("user lookup failed", "error", err, "user_id", id)
		}
		writeError(c, err, "", msgLookupFailed)
		return
	}
	c.JSON(http.StatusOK, api.UserResponse{Success: true, User: toAPIUser(user)})
}

// bind decodes the JSON body and writes a 400 with field details on failure.
// An empty body decodes to the zero request so the usecase reports missing fields.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("request validation failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		respondError(c, http.StatusBadRequest, msgInvalidInput, validation.ToDetails(err))
		return false
	}
	return true
}

// writeError maps usecase and domain errors to a status and public message.
// missingMsg is the endpoint-specific text for ErrMissingFields/ErrMissingCredentials.
func writeError(c *gin.Context, err error, missingMsg, serverMsg string) {
	switch {
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrMissingCredentials):
		respondError(c, http.StatusBadRequest, missingMsg, nil)
	case errors.Is(err, domain.ErrInvalidEmail):
		respondError(c, http.StatusBadRequest, msgInvalidEmail, nil)
	case errors.Is(err, domain.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, msgWeakPassword, nil)
	case errors.Is(err, domain.ErrPasswordTooLong):
		respondError(c, http.StatusBadRequest, msgLongPassword, nil)
	case errors.Is(err, domain.ErrInvalidRole):
		respondError(c, http.StatusBadRequest, msgInvalidRole, nil)
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		respondError(c, http.StatusBadRequest, msgEmailTaken, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, msgBadCredentials, nil)
	case errors.Is(err, domain.ErrInvalidVerificationCode):
		respondError(c, http.StatusBadRequest, msgBadCode, nil)
	case errors.Is(err, domain.ErrEmailAlreadyVerified):
		respondError(c, http.StatusBadRequest, msgAlreadyVerified, nil)
	case errors.Is(err, usecase.ErrUserNotFound):
		respondError(c, http.StatusNotFound, msgUserNotFound, nil)
	default:
		respondError(c, http.StatusInternalServerError, serverMsg, nil)
	}
}

func respondError(c *gin.Context, status int, message string, details map[string]string) {
	resp := api.ErrorResponse{Success: false, Message: message, Errors: details}
	if rid, err := uuid.Parse(middleware.RequestIDFrom(c.Request.Context())); err == nil {
		resp.RequestId = &rid
	}
	c.AbortWithStatusJSON(status, resp)
}

func toAPIUser(u *entity.User) api.User {
	return api.User{
		Id:            int64(u.ID),
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Name:          u.DisplayName(),
		Role:          api.UserRole(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
