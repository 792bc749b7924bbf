// Package models содержит доменные структуры платформы: пользователей,
// профили трейдеров, подписки и посты. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import (
	"fmt"
	"time"
)

// Role — роль пользователя. Закрытое множество значений,
// любые другие строки отбрасываются на границе данных через ParseRole.
type Role string

const (
	// RoleUser — обычный пользователь, читатель ленты.
	RoleUser Role = "user"
	// RoleTrader — трейдер, автор платного контента.
	RoleTrader Role = "trader"
	// RoleAdmin — администратор.
	RoleAdmin Role = "admin"
)

// ParseRole преобразует строку в Role. Неизвестные значения — ошибка.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleTrader, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, хранится в нижнем регистре)
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         Role      // Роль пользователя: user, trader или admin
	DiscordID    *string   // Привязанный discord-аккаунт, если есть
	CreatedAt    time.Time // Дата регистрации
}
