package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"auth-service/internal/domain/user"
	pkgerrors "auth-service/pkg/errors"
	"auth-service/pkg/security"
	"auth-service/pkg/token"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, a caching decorator) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *user.User) (int64, error)          // Create a new user
	GetByEmail(ctx context.Context, email string) (*user.User, error) // Retrieve user by email, nil if absent
}

// SignInCreatedMessage is the acknowledgment returned on successful login.
const SignInCreatedMessage = "Token created"

// authUsecase implements the authentication flow: it orchestrates the user
// store, the password hasher, and the token issuer, and is the single place
// where user-visible auth errors are decided.
type authUsecase struct {
	repo     Repository          // Repository for user persistence
	issuer   *token.Issuer       // Issuer for session tokens
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new authentication usecase with the provided repository,
// token issuer, and logger.
func New(r Repository, issuer *token.Issuer, log *zap.Logger) Usecase {
	return &authUsecase{repo: r, issuer: issuer, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// SignUp registers a new user: it rejects duplicate emails, hashes the
// password, persists the user, and issues a session token for the new
// account. A storage-level uniqueness conflict is treated the same as a
// failed pre-check, so concurrent sign-ups with one email lose cleanly.
func (uc *authUsecase) SignUp(ctx context.Context, in SignUpRequest) (*SignUpResponse, error) {
	uc.log.Info("signing up user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.NewAlreadyExistsError("user", "User already exists")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	id, err := uc.repo.Create(ctx, &user.User{
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		var conflict *pkgerrors.ConflictError
		if errors.As(err, &conflict) {
			// Lost the check-then-create race: same outcome as the pre-check
			uc.log.Warn("email taken during create", zap.String("email", in.Email))
			return nil, pkgerrors.NewAlreadyExistsError("user", "User already exists")
		}
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	signed, err := uc.issuer.Issue(id, in.Email)
	if err != nil {
		uc.log.Error("failed to issue token", zap.Int64("id", id), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}

	uc.log.Info("user signed up", zap.Int64("id", id), zap.String("email", in.Email))

	return &SignUpResponse{
		User:  User{ID: id, Email: in.Email},
		Token: signed,
	}, nil
}

// SignIn authenticates an existing user and issues a session token. An
// unknown email and a wrong password are distinct outcomes in the error
// taxonomy even though both surface as unauthorized.
func (uc *authUsecase) SignIn(ctx context.Context, in SignInRequest) (*SignInResponse, error) {
	uc.log.Info("signing in user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to look up user", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		uc.log.Warn("sign-in with unknown email", zap.String("email", in.Email))
		return nil, pkgerrors.NewInvalidCredentialsError("Incorrect email")
	}

	if !security.VerifyPassword(in.Password, u.PasswordHash) {
		uc.log.Warn("sign-in with wrong password", zap.Int64("id", u.ID))
		return nil, pkgerrors.NewInvalidCredentialsError("Incorrect email or password")
	}

	signed, err := uc.issuer.Issue(u.ID, u.Email)
	if err != nil {
		uc.log.Error("failed to issue token", zap.Int64("id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}

	uc.log.Info("user signed in", zap.Int64("id", u.ID))

	return &SignInResponse{
		Message: SignInCreatedMessage,
		Token:   signed,
	}, nil
}
