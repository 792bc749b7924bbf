package models

import "time"

// LockedPostPlaceholder подставляется вместо текста премиум-поста,
// когда у читателя нет активной подписки на автора.
const LockedPostPlaceholder = "Subscribe to unlock this post."

// Типы постов.
const (
	// PostTypeTrade — торговая рекомендация.
	PostTypeTrade = "trade"
	// PostTypeSBC — решение SBC.
	PostTypeSBC = "sbc"
	// PostTypePrediction — прогноз.
	PostTypePrediction = "prediction"
)

// Post — запись трейдера в ленте. Премиум-посты видны полностью
// только владельцу и активным подписчикам, остальным тело заменяется
// на LockedPostPlaceholder. Карточки и метаданные не скрываются.
type Post struct {
	ID                string     // Уникальный идентификатор поста
	TraderUID         string     // UID трейдера-автора
	TraderDisplayName *string    // Отображаемое имя автора из профиля
	Type              string     // trade | sbc | prediction
	Title             string     // Заголовок
	Content           string     // Текст поста — платный актив
	IsPremium         bool       // Флаг премиум-контента
	CreatedAt         time.Time  // Дата публикации
	ExpiresAt         *time.Time // Дата устаревания, если задана
	Cards             []PostCard // Карточки с ценовыми ориентирами
	Locked            bool       // true, если тело скрыто для читателя
}

// PostCard — структурированная карточка игрока с ценовыми ориентирами,
// принадлежит ровно одному посту.
type PostCard struct {
	ID           string // Уникальный идентификатор карточки
	PlayerID     string // Идентификатор игрока
	Platform     string // ps | xbox | pc
	BuyPriceMin  *int   // Нижняя граница цены покупки
	BuyPriceMax  *int   // Верхняя граница цены покупки
	SellPriceMin *int   // Нижняя граница цены продажи
	SellPriceMax *int   // Верхняя граница цены продажи
}

// DummyPostCard используется для приёма карточки из JSON-запроса.
type DummyPostCard struct {
	PlayerID     string `json:"player_id" validate:"required"`
	Platform     string `json:"platform" validate:"omitempty,oneof=ps xbox pc"`
	BuyPriceMin  *int   `json:"buy_price_min"`
	BuyPriceMax  *int   `json:"buy_price_max"`
	SellPriceMin *int   `json:"sell_price_min"`
	SellPriceMax *int   `json:"sell_price_max"`
}

// DummyPost используется для приёма данных поста из JSON-запроса,
// прежде чем конвертировать их в Post.
type DummyPost struct {
	Type      string          `json:"type" validate:"omitempty,oneof=trade sbc prediction"`
	Title     string          `json:"title" validate:"required,min=1,max=200"`
	Content   string          `json:"content" validate:"required"`
	IsPremium *bool           `json:"is_premium"` // nil трактуется как true
	ExpiresAt *time.Time      `json:"expires_at"`
	Cards     []DummyPostCard `json:"cards" validate:"dive"`
}
