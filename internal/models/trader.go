package models

import "time"

// TraderProfile — публичный профиль трейдера, расширение User (1:1).
// Создается и обновляется только самим трейдером или администратором.
type TraderProfile struct {
	UserUID                string    // UID пользователя-владельца профиля
	DisplayName            string    // Отображаемое имя
	Bio                    string    // Описание профиля
	BannerURL              *string   // Ссылка на баннер, если есть
	AvatarURL              *string   // Ссылка на аватар, если есть
	SubscriptionPriceCents int       // Цена подписки в минорных единицах валюты
	IsVerified             bool      // Флаг верификации, выставляется только администрацией
	CreatedAt              time.Time // Дата создания профиля
}

// DummyTraderProfile используется для приёма данных профиля из JSON-запроса,
// прежде чем конвертировать их в TraderProfile.
type DummyTraderProfile struct {
	DisplayName            string  `json:"display_name" validate:"required,min=1,max=64"` // Отображаемое имя
	Bio                    string  `json:"bio" validate:"max=2000"`                       // Описание
	BannerURL              *string `json:"banner_url"`                                    // Баннер
	AvatarURL              *string `json:"avatar_url"`                                    // Аватар
	SubscriptionPriceCents int     `json:"subscription_price_cents" validate:"required,gt=0"`
}
