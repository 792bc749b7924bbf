// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Токен несёт только subject (UID пользователя) и срок действия.
// Роль и остальные данные пользователя в токен не кладутся:
// они всегда читаются из хранилища при резолве идентичности,
// чтобы смена роли действовала сразу, а не после перевыпуска токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и проверки токенов доступа.
type Maker interface {
	// GenerateToken выпускает подписанный токен для пользователя с данным UID.
	GenerateToken(userUID string) (string, error)
	// ParseToken проверяет подпись и срок действия токена, возвращает UID.
	ParseToken(tokenStr string) (string, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL). Подпись строго HS256.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
