package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"auth-service/internal/adapter/cache"
	domain "auth-service/internal/domain/user"
	"auth-service/internal/usecase/auth"
)

// MockRepository is a mock implementation of the auth.Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupCachedRepo(t *testing.T) (auth.Repository, *MockRepository) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	log := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, time.Minute, log)
	dbRepo := new(MockRepository)
	return NewCachedUserRepository(dbRepo, userCache, log), dbRepo
}

func TestCachedUserRepository_GetByEmail_PopulatesCache(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	u := &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "hash"}
	// DB is hit only once; the second lookup is served from cache
	dbRepo.On("GetByEmail", ctx, "a@x.com").Return(u, nil).Once()

	first, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first, second)

	dbRepo.AssertExpectations(t)
}

func TestCachedUserRepository_GetByEmail_NotFoundNotCached(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	// Both lookups reach the DB: absence is never cached
	dbRepo.On("GetByEmail", ctx, "missing@x.com").Return(nil, nil).Twice()

	got, err := repo.GetByEmail(ctx, "missing@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByEmail(ctx, "missing@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	dbRepo.AssertExpectations(t)
}

func TestCachedUserRepository_Create_InvalidatesCache(t *testing.T) {
	repo, dbRepo := setupCachedRepo(t)
	ctx := context.Background()

	stale := &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "old"}
	dbRepo.On("GetByEmail", ctx, "a@x.com").Return(stale, nil).Once()

	_, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	dbRepo.On("Create", ctx, mock.Anything).Return(int64(2), nil)
	_, err = repo.Create(ctx, &domain.User{Email: "a@x.com", PasswordHash: "new"})
	require.NoError(t, err)

	fresh := &domain.User{ID: 2, Email: "a@x.com", PasswordHash: "new"}
	dbRepo.On("GetByEmail", ctx, "a@x.com").Return(fresh, nil).Once()

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	dbRepo.AssertExpectations(t)
}
