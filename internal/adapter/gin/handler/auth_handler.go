package handler

import (
	"errors"
	"net/http"

	"auth-service/internal/usecase/auth"
	pkgerrors "auth-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// CookieConfig controls the attributes of the session-token cookie.
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // seconds; should match the token TTL
}

// AuthHandler handles HTTP requests for the authentication flow
type AuthHandler struct {
	uc     auth.Usecase
	cookie CookieConfig
	log    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Usecase, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cookie: cookie,
		log:    log,
	}
}

// CredentialsRequest represents the HTTP request body for sign-up and login
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the HTTP response for a created user.
// The password hash is not exposed.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// MessageResponse represents a plain acknowledgment response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SignUp handles POST /auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid sign-up request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Gin SignUp request", zap.String("email", req.Email))

	resp, err := h.uc.SignUp(c.Request.Context(), auth.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("Gin SignUp failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusCreated, UserResponse{
		ID:    resp.User.ID,
		Email: resp.User.Email,
	})
}

// SignIn handles POST /auth/login
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Gin SignIn request", zap.String("email", req.Email))

	resp, err := h.uc.SignIn(c.Request.Context(), auth.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.log.Warn("Gin SignIn failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

// setTokenCookie attaches the session token to the response as an HTTP-only
// cookie so it is not readable by client-side scripts.
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, token, h.cookie.MaxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

// handleError converts usecase errors to appropriate HTTP responses. The
// usecase decides the messages; this only maps types to status codes.
func (h *AuthHandler) handleError(c *gin.Context, err error) {
	var (
		alreadyExists *pkgerrors.AlreadyExistsError
		invalidCreds  *pkgerrors.InvalidCredentialsError
		validation    *pkgerrors.ValidationError
	)

	switch {
	case errors.As(err, &alreadyExists):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "already_exists",
			Message: alreadyExists.Error(),
		})
	case errors.As(err, &invalidCreds):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: invalidCreds.Error(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validation.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
