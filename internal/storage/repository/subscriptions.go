package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

func scanSubscription(sub *models.Subscription, scan func(dest ...any) error) error {
	var endsAt sql.NullTime
	var billingRef sql.NullString
	if err := scan(&sub.ID, &sub.SubscriberUID, &sub.TraderUID, &sub.Status,
		&sub.StartedAt, &endsAt, &billingRef); err != nil {
		return err
	}
	if endsAt.Valid {
		sub.EndsAt = &endsAt.Time
	}
	if billingRef.Valid {
		sub.BillingRef = &billingRef.String
	}
	return nil
}

// FindActiveSubscription сообщает, есть ли для упорядоченной пары
// (подписчик, трейдер) строка со статусом active. Только статус:
// ends_at здесь не интерпретируется.
func (s *Storage) FindActiveSubscription(ctx context.Context, subscriberUID, traderUID string) (bool, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE subscriber_uid = $1 AND trader_uid = $2 AND status = 'active'
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, subscriberUID, traderUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpsertSubscription активирует подписку пары (подписчик, трейдер):
// вставляет новую строку или реактивирует существующую, сбрасывая ends_at.
// Уникальность пары гарантирует ограничение БД, поэтому конкурентные
// вызовы для одной пары сходятся к одной строке без блокировок в приложении.
func (s *Storage) UpsertSubscription(ctx context.Context, subscriberUID, traderUID string) (*models.Subscription, error) {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (subscriber_uid, trader_uid, status)
			  VALUES ($1, $2, 'active')
			  ON CONFLICT (subscriber_uid, trader_uid)
			  DO UPDATE SET status = 'active', ends_at = NULL
			  RETURNING id, subscriber_uid, trader_uid, status, started_at, ends_at, billing_ref`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, subscriberUID, traderUID)
	if err := scanSubscription(sub, row.Scan); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CancelSubscription переводит подписку пары в canceled и проставляет ends_at.
// Строка сохраняется для истории. Возвращает количество изменённых строк.
func (s *Storage) CancelSubscription(ctx context.Context, subscriberUID, traderUID string) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'canceled', ends_at = now()
			  WHERE subscriber_uid = $1 AND trader_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, subscriberUID, traderUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptionsBySubscriber возвращает подписки пользователя, новые первыми.
func (s *Storage) ListSubscriptionsBySubscriber(ctx context.Context, subscriberUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsBySubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscriber_uid, trader_uid, status, started_at, ends_at, billing_ref
			  FROM subscriptions
			  WHERE subscriber_uid = $1
			  ORDER BY started_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, subscriberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		if err := scanSubscription(sub, rows.Scan); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
