package auth

import (
	"context"
	"testing"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreate(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) CreditCoins(ctx context.Context, userID uint, amount int64, ref wallet.Reference) error {
	args := m.Called(ctx, userID, amount, ref)
	return args.Error(0)
}

func (m *MockWalletService) DebitCoins(ctx context.Context, userID uint, amount int64, ref wallet.Reference) error {
	args := m.Called(ctx, userID, amount, ref)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with wallet", func(t *testing.T) {
		repo := new(MockUserRepo)
		wallets := new(MockWalletService)
		repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "sam@example.com" && u.Role == "user" && u.Password != "hunter2boat"
		})).Return(nil)
		wallets.On("GetOrCreate", ctx, uint(1)).Return(&models.Wallet{ID: 7, UserID: 1}, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.WalletID != nil && *u.WalletID == 7
		})).Return(nil)

		user, err := NewService(repo, wallets).Register(ctx, RegisterRequest{
			Email:       "Sam@Example.com",
			Password:    "hunter2boat",
			DisplayName: "Sam",
		})
		require.NoError(t, err)
		assert.Equal(t, "sam@example.com", user.Email)
		assert.Empty(t, user.Password)
		repo.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		repo := new(MockUserRepo)
		_, err := NewService(repo, new(MockWalletService)).Register(ctx, RegisterRequest{
			Email:       "sam@example.com",
			Password:    "short",
			DisplayName: "Sam",
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", mock.Anything).Return(repositories.ErrDuplicateEmail)

		_, err := NewService(repo, new(MockWalletService)).Register(ctx, RegisterRequest{
			Email:       "sam@example.com",
			Password:    "hunter2boat",
			DisplayName: "Sam",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	stored := &models.User{
		Email:     "sam@example.com",
		Password:  hashPassword(t, "hunter2boat"),
		Role:      "user",
		IsCreator: true,
	}
	stored.ID = 1

	t.Run("issues tokens with creator permissions", func(t *testing.T) {
		repo := new(MockUserRepo)
		u := *stored
		repo.On("GetByEmail", "sam@example.com").Return(&u, nil)

		user, access, refresh, err := NewService(repo, new(MockWalletService)).Login(ctx, "sam@example.com", "hunter2boat")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Empty(t, user.Password)

		claims := claimsFor(&u)
		assert.True(t, claims.HasPermission(models.PermissionPayoutRequest))
		assert.True(t, claims.HasPermission(models.PermissionGiftSend))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		u := *stored
		repo.On("GetByEmail", "sam@example.com").Return(&u, nil)

		_, _, _, err := NewService(repo, new(MockWalletService)).Login(ctx, "sam@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrUserNotFound)

		_, _, _, err := NewService(repo, new(MockWalletService)).Login(ctx, "nobody@example.com", "hunter2boat")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_RefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	stored := &models.User{
		Email:    "sam@example.com",
		Password: hashPassword(t, "hunter2boat"),
		Role:     "user",
	}
	stored.ID = 1

	repo := new(MockUserRepo)
	u := *stored
	repo.On("GetByEmail", "sam@example.com").Return(&u, nil)
	repo.On("GetByID", uint(1)).Return(&u, nil)

	svc := NewService(repo, new(MockWalletService))
	_, _, refresh, err := svc.Login(ctx, "sam@example.com", "hunter2boat")
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshTokens(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEmpty(t, refresh2)

	_, _, err = svc.RefreshTokens("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
