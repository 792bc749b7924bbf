// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, профилей трейдеров, подписок и постов.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища. Обработчики сопоставляют их с HTTP-статусами через errors.Is.
var (
	// ErrUserNotFound — пользователь не найден по uid или email.
	ErrUserNotFound = errors.New("user not found")
	// ErrTraderNotFound — профиль трейдера не найден.
	ErrTraderNotFound = errors.New("trader not found")
	// ErrAlreadyExists — нарушение уникальности (email или username заняты).
	ErrAlreadyExists = errors.New("already exists")
)

// Storage инкапсулирует пул соединений с PostgreSQL. Пул создается один раз
// в точке сборки приложения и передается всем потребителям явно.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation сообщает, вызвана ли ошибка нарушением unique-ограничения.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
