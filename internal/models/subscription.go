package models

import "time"

// Статусы подписки. Статус — единственный источник истины о доступе:
// отмена сразу переводит строку в canceled, ends_at не интерпретируется лениво.
const (
	// SubscriptionStatusActive — подписка действует.
	SubscriptionStatusActive = "active"
	// SubscriptionStatusCanceled — подписка отменена подписчиком.
	SubscriptionStatusCanceled = "canceled"
	// SubscriptionStatusPastDue — оплата просрочена.
	SubscriptionStatusPastDue = "past_due"
)

// Subscription — платная связь между подписчиком и трейдером.
// На пару (SubscriberUID, TraderUID) существует не более одной строки:
// повторная подписка после отмены реактивирует ту же строку.
type Subscription struct {
	ID            string     // Уникальный идентификатор строки
	SubscriberUID string     // UID подписчика
	TraderUID     string     // UID трейдера
	Status        string     // active | canceled | past_due
	StartedAt     time.Time  // Дата первого оформления
	EndsAt        *time.Time // Дата завершения, выставляется при отмене
	BillingRef    *string    // Внешний биллинговый идентификатор, если есть
}

// SubscriptionEvent — событие жизненного цикла подписки,
// публикуется в RabbitMQ для воркера синхронизации discord-ролей.
type SubscriptionEvent struct {
	Action        string `json:"action"` // activated | canceled
	SubscriberUID string `json:"subscriber_uid"`
	TraderUID     string `json:"trader_uid"`
}
