package rabbitmq

// SubscriptionsExchange — exchange событий жизненного цикла подписок.
const SubscriptionsExchange = "subscriptions"

// Ключи маршрутизации событий подписки.
const (
	// RoutingKeyActivated — подписка оформлена или реактивирована.
	RoutingKeyActivated = "activated"
	// RoutingKeyCanceled — подписка отменена.
	RoutingKeyCanceled = "canceled"
)

// QueueConfig описывает очередь и ключи маршрутизации, по которым она
// привязывается к exchange.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// GetSubscriptionQueues возвращает очереди подписочных событий.
func GetSubscriptionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscriptions.discord-sync", RoutingKeys: []string{RoutingKeyActivated, RoutingKeyCanceled}},
	}
}
