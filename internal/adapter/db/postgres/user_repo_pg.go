package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "auth-service/pkg/errors"

	"auth-service/internal/domain/user"
)

// UserRepoPG implements the user store contract using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// The unique index on email_address is the authoritative guard against
// duplicate accounts: two concurrent sign-ups can both pass the existence
// pre-check, but only one insert survives.
type UserSchema struct {
	ID       int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email    string `gorm:"column:email_address;not null;unique"`
	Password string `gorm:"column:password;not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Create inserts a new user into the database. A uniqueness violation on the
// email column is returned as a ConflictError so the caller can translate it.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Email:    u.Email,
		Password: u.PasswordHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return 0, pkgerrors.NewConflictError("user", "email already taken", err)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByEmail retrieves a user from the database by their email address.
// A missing row is a normal outcome and returns (nil, nil).
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email_address = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.Password,
	}, nil
}

// isDuplicateKey reports whether err is a storage-level uniqueness violation.
// GORM translates driver errors when TranslateError is enabled; the message
// checks cover drivers that do not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || // postgres 23505
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}
