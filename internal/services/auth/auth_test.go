package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/trader-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/trader-hub/internal/lib/password"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) ExistsUserByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) UpdateUserRole(ctx context.Context, userUID string, fromRole, toRole models.Role) (bool, error) {
	args := m.Called(ctx, userUID, fromRole, toRole)
	return args.Bool(0), args.Error(1)
}

func newTestService(users UserRepository) *Service {
	return New(users, jwt.NewJWTMaker("test_secret", 15*time.Minute))
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("успешная регистрация, email приводится к нижнему регистру", func(t *testing.T) {
		users := new(UsersMock)
		users.On("ExistsUserByEmailOrUsername", mock.Anything, "user@example.com", "someuser").
			Return(false, nil)
		users.On("CreateUser", mock.Anything, "user@example.com", "someuser", mock.AnythingOfType("string")).
			Return(&models.User{UID: "uid-1", Email: "user@example.com", Username: "someuser", Role: models.RoleUser}, nil)

		svc := newTestService(users)
		user, err := svc.Register(ctx, "User@Example.COM", "someuser", "password123")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UID)
		assert.Equal(t, models.RoleUser, user.Role)

		// В хранилище должен уйти хэш, а не открытый пароль
		storedHash := users.Calls[1].Arguments.String(3)
		assert.NotEqual(t, "password123", storedHash)
		assert.NoError(t, password.CompareHash(storedHash, "password123"))
		users.AssertExpectations(t)
	})

	t.Run("занятый email или username", func(t *testing.T) {
		users := new(UsersMock)
		users.On("ExistsUserByEmailOrUsername", mock.Anything, "user@example.com", "someuser").
			Return(true, nil)

		svc := newTestService(users)
		_, err := svc.Register(ctx, "user@example.com", "someuser", "password123")
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
		users.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := password.GetHash("correct_password")
	require.NoError(t, err)
	storedUser := &models.User{UID: "uid-1", Email: "user@example.com", PasswordHash: hash, Role: models.RoleUser}

	t.Run("успешный вход", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByEmail", mock.Anything, "user@example.com").Return(storedUser, nil)

		svc := newTestService(users)
		token, user, err := svc.Login(ctx, "user@example.com", "correct_password")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "uid-1", user.UID)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByEmail", mock.Anything, "user@example.com").Return(storedUser, nil)

		svc := newTestService(users)
		_, _, err := svc.Login(ctx, "user@example.com", "wrong_password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("неизвестный email дает ту же ошибку, что и неверный пароль", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrUserNotFound)

		svc := newTestService(users)
		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute)

	t.Run("валидный токен резолвится в пользователя с актуальной ролью", func(t *testing.T) {
		token, err := maker.GenerateToken("uid-1")
		require.NoError(t, err)

		users := new(UsersMock)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", Role: models.RoleTrader}, nil)

		svc := New(users, maker)
		user, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleTrader, user.Role)
	})

	t.Run("токен удаленного пользователя", func(t *testing.T) {
		token, err := maker.GenerateToken("uid-gone")
		require.NoError(t, err)

		users := new(UsersMock)
		users.On("GetUserByUID", mock.Anything, "uid-gone").
			Return(nil, repository.ErrUserNotFound)

		svc := New(users, maker)
		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("токен с чужим секретом не доходит до хранилища", func(t *testing.T) {
		foreign := jwt.NewJWTMaker("other_secret", 15*time.Minute)
		token, err := foreign.GenerateToken("uid-1")
		require.NoError(t, err)

		users := new(UsersMock)
		svc := New(users, maker)
		_, err = svc.ValidateToken(ctx, token)
		assert.Error(t, err)
		users.AssertNotCalled(t, "GetUserByUID", mock.Anything, mock.Anything)
	})
}

func TestService_BecomeTrader(t *testing.T) {
	ctx := context.Background()

	t.Run("переход user -> trader", func(t *testing.T) {
		users := new(UsersMock)
		users.On("UpdateUserRole", mock.Anything, "uid-1", models.RoleUser, models.RoleTrader).
			Return(true, nil)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", Role: models.RoleTrader}, nil)

		svc := newTestService(users)
		role, err := svc.BecomeTrader(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleTrader, role)
	})

	t.Run("повторный вызов идемпотентен", func(t *testing.T) {
		users := new(UsersMock)
		users.On("UpdateUserRole", mock.Anything, "uid-1", models.RoleUser, models.RoleTrader).
			Return(false, nil)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", Role: models.RoleTrader}, nil)

		svc := newTestService(users)
		role, err := svc.BecomeTrader(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleTrader, role)
	})

	t.Run("ошибка хранилища пробрасывается", func(t *testing.T) {
		users := new(UsersMock)
		users.On("UpdateUserRole", mock.Anything, "uid-1", models.RoleUser, models.RoleTrader).
			Return(false, errors.New("db error"))

		svc := newTestService(users)
		_, err := svc.BecomeTrader(ctx, "uid-1")
		assert.Error(t, err)
	})
}
