package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// scanUser читает строку пользователя, отбрасывая неизвестные роли на границе данных.
func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var role string
	var discordID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&role, &discordID, &u.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	if discordID.Valid {
		u.DiscordID = &discordID.String
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя с ролью user и возвращает его.
// Нарушение уникальности email или username — ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, 'user')
			  RETURNING uid, email, username, password_hash, role, discord_id, created_at`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, email, username, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ExistsUserByEmailOrUsername сообщает, занят ли email или username.
func (s *Storage) ExistsUserByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	const op = "storage.ExistsUserByEmailOrUsername"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, discord_id, created_at
			  FROM users
			  WHERE email = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUserByUID возвращает пользователя по его UID или ErrUserNotFound.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, discord_id, created_at
			  FROM users
			  WHERE uid = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateUserRole выполняет условный переход роли: строка меняется только если
// текущая роль равна fromRole. Возвращает true, если переход произошел.
// Повторный вызов для уже переведенного пользователя — false без ошибки.
func (s *Storage) UpdateUserRole(ctx context.Context, userUID string, fromRole, toRole models.Role) (bool, error) {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE uid = $2 AND role = $3`
	result, err := s.DB.ExecContext(ctx, query, string(toRole), userUID, string(fromRole))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
