// Package auth содержит логику регистрации, входа и резолва идентичности
// по токену доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/trader-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/trader-hub/internal/lib/password"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

// ErrInvalidCredentials — неверная пара email/пароль. Неизвестный email
// и неверный пароль отдают одну и ту же ошибку, чтобы по ответу нельзя было
// перебирать зарегистрированные адреса.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя с ролью user.
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)

	// ExistsUserByEmailOrUsername сообщает, занят ли email или username.
	ExistsUserByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// GetUserByEmail возвращает пользователя по email или repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUID возвращает пользователя по UID или repository.ErrUserNotFound.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// UpdateUserRole выполняет условный переход роли fromRole -> toRole.
	UpdateUserRole(ctx context.Context, userUID string, fromRole, toRole models.Role) (bool, error)
}

// Service отвечает за регистрацию, вход и резолв идентичности по JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью user.
// Email приводится к нижнему регистру. Занятые email или username —
// repository.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (*models.User, error) {
	const op = "auth.Register"
	email = strings.ToLower(email)

	taken, err := s.users.ExistsUserByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrAlreadyExists)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, email, username, hashed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login проверяет пароль пользователя и выпускает токен доступа.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет токен и резолвит его subject в актуальную запись
// пользователя. Роль всегда читается из хранилища, а не из токена.
// Токен с UID удаленного пользователя дает repository.ErrUserNotFound:
// middleware сводит его к тому же 401, что и невалидный токен.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"
	userUID, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// BecomeTrader выполняет одностороннний переход роли user -> trader.
// Повторный вызов идемпотентен: роль не меняется, ошибки нет.
// Возвращает актуальную роль пользователя.
func (s *Service) BecomeTrader(ctx context.Context, userUID string) (models.Role, error) {
	const op = "auth.BecomeTrader"
	if _, err := s.users.UpdateUserRole(ctx, userUID, models.RoleUser, models.RoleTrader); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return user.Role, nil
}
