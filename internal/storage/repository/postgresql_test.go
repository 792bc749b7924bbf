package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("создание пользователя и чтение по uid", func(t *testing.T) {
		user, err := storage.CreateUser(ctx, "user1@example.com", "user1", "hash1")
		require.NoError(t, err)
		assert.NotEmpty(t, user.UID)
		assert.Equal(t, models.RoleUser, user.Role)

		got, err := storage.GetUserByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, "user1@example.com", got.Email)
	})

	t.Run("дубликат email дает ErrAlreadyExists", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, "dup@example.com", "dupuser", "hash")
		require.NoError(t, err)

		_, err = storage.CreateUser(ctx, "dup@example.com", "otheruser", "hash")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("проверка занятости email и username", func(t *testing.T) {
		taken, err := storage.ExistsUserByEmailOrUsername(ctx, "user1@example.com", "nobody")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = storage.ExistsUserByEmailOrUsername(ctx, "free@example.com", "freeuser")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("неизвестный uid дает ErrUserNotFound", func(t *testing.T) {
		_, err := storage.GetUserByUID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("переход роли user -> trader условный и идемпотентный", func(t *testing.T) {
		user, err := storage.CreateUser(ctx, "role@example.com", "roleuser", "hash")
		require.NoError(t, err)

		updated, err := storage.UpdateUserRole(ctx, user.UID, models.RoleUser, models.RoleTrader)
		require.NoError(t, err)
		assert.True(t, updated)

		// Повторный переход не находит строку с ролью user
		updated, err = storage.UpdateUserRole(ctx, user.UID, models.RoleUser, models.RoleTrader)
		require.NoError(t, err)
		assert.False(t, updated)

		got, err := storage.GetUserByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleTrader, got.Role)
	})
}

func TestStorage_TraderProfiles(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	req := models.DummyTraderProfile{
		DisplayName:            "Pro Trader",
		Bio:                    "signals",
		SubscriptionPriceCents: 1999,
	}

	t.Run("upsert создает и обновляет профиль одной строкой", func(t *testing.T) {
		uid := factory.CreateUser(t, "trader1@example.com", "trader1", "trader")

		created, err := storage.UpsertTraderProfile(ctx, uid, req)
		require.NoError(t, err)
		assert.Equal(t, "Pro Trader", created.DisplayName)
		assert.False(t, created.IsVerified)

		updatedReq := req
		updatedReq.DisplayName = "Renamed Trader"
		updated, err := storage.UpsertTraderProfile(ctx, uid, updatedReq)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Trader", updated.DisplayName)

		var count int
		err = storage.DB.QueryRow("SELECT COUNT(*) FROM trader_profiles WHERE user_uid = $1", uid).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("upsert не трогает флаг верификации", func(t *testing.T) {
		uid := factory.CreateTraderWithProfile(t, "verified@example.com", "verified", "Verified", true)

		updated, err := storage.UpsertTraderProfile(ctx, uid, req)
		require.NoError(t, err)
		assert.True(t, updated.IsVerified)
	})

	t.Run("несуществующий профиль дает ErrTraderNotFound", func(t *testing.T) {
		_, err := storage.GetTraderProfile(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrTraderNotFound)
	})

	t.Run("каталог отдает верифицированных первыми", func(t *testing.T) {
		factory.CreateTraderWithProfile(t, "plain@example.com", "plain", "Plain", false)
		factory.CreateTraderWithProfile(t, "star@example.com", "star", "Star", true)

		profiles, err := storage.ListTraderProfiles(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, profiles)
		// Все верифицированные идут до первого неверифицированного
		seenUnverified := false
		for _, p := range profiles {
			if !p.IsVerified {
				seenUnverified = true
			} else {
				assert.False(t, seenUnverified, "verified profile after unverified one")
			}
		}
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	t.Run("повторный upsert держит одну строку на пару", func(t *testing.T) {
		subscriber := factory.CreateUser(t, "sub1@example.com", "sub1", "user")
		trader := factory.CreateTraderWithProfile(t, "t1@example.com", "t1", "T1", false)

		first, err := storage.UpsertSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionStatusActive, first.Status)

		second, err := storage.UpsertSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int
		err = storage.DB.QueryRow(
			"SELECT COUNT(*) FROM subscriptions WHERE subscriber_uid = $1 AND trader_uid = $2",
			subscriber, trader).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("отмена и реактивация той же строки", func(t *testing.T) {
		subscriber := factory.CreateUser(t, "sub2@example.com", "sub2", "user")
		trader := factory.CreateTraderWithProfile(t, "t2@example.com", "t2", "T2", false)

		created, err := storage.UpsertSubscription(ctx, subscriber, trader)
		require.NoError(t, err)

		active, err := storage.FindActiveSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.True(t, active)

		count, err := storage.CancelSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		active, err = storage.FindActiveSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.False(t, active)

		// Повторная подписка реактивирует ту же строку и чистит ends_at
		reactivated, err := storage.UpsertSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.Equal(t, created.ID, reactivated.ID)
		assert.Equal(t, models.SubscriptionStatusActive, reactivated.Status)
		assert.Nil(t, reactivated.EndsAt)
	})

	t.Run("отмена без подписки затрагивает ноль строк", func(t *testing.T) {
		subscriber := factory.CreateUser(t, "sub3@example.com", "sub3", "user")
		trader := factory.CreateTraderWithProfile(t, "t3@example.com", "t3", "T3", false)

		count, err := storage.CancelSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("canceled строка не считается активной", func(t *testing.T) {
		subscriber := factory.CreateUser(t, "sub4@example.com", "sub4", "user")
		trader := factory.CreateTraderWithProfile(t, "t4@example.com", "t4", "T4", false)
		factory.CreateSubscription(t, subscriber, trader, models.SubscriptionStatusCanceled)

		active, err := storage.FindActiveSubscription(ctx, subscriber, trader)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("список подписок пользователя", func(t *testing.T) {
		subscriber := factory.CreateUser(t, "sub5@example.com", "sub5", "user")
		traderA := factory.CreateTraderWithProfile(t, "t5@example.com", "t5", "T5", false)
		traderB := factory.CreateTraderWithProfile(t, "t6@example.com", "t6", "T6", false)
		factory.CreateSubscription(t, subscriber, traderA, models.SubscriptionStatusActive)
		factory.CreateSubscription(t, subscriber, traderB, models.SubscriptionStatusCanceled)

		subs, err := storage.ListSubscriptionsBySubscriber(ctx, subscriber)
		require.NoError(t, err)
		assert.Len(t, subs, 2)
	})
}

func TestStorage_Posts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	t.Run("пост и карточки сохраняются атомарно", func(t *testing.T) {
		trader := factory.CreateTraderWithProfile(t, "author@example.com", "author", "Author", false)
		buyMin, buyMax := 5000, 7000

		created, err := storage.CreatePost(ctx, models.Post{
			TraderUID: trader,
			Type:      models.PostTypeTrade,
			Title:     "Buy low",
			Content:   "details",
			IsPremium: true,
		}, []models.PostCard{
			{PlayerID: "player-9", Platform: "ps", BuyPriceMin: &buyMin, BuyPriceMax: &buyMax},
			{PlayerID: "player-10", Platform: "pc"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		require.Len(t, created.Cards, 2)

		cards, err := storage.ListPostCards(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, "player-9", cards[0].PlayerID)
		require.NotNil(t, cards[0].BuyPriceMin)
		assert.Equal(t, 5000, *cards[0].BuyPriceMin)
		assert.Nil(t, cards[1].BuyPriceMin)
	})

	t.Run("вставка карточки для чужого post_id откатывает весь пост", func(t *testing.T) {
		trader := factory.CreateTraderWithProfile(t, "author2@example.com", "author2", "Author2", false)

		var before int
		require.NoError(t, storage.DB.QueryRow("SELECT COUNT(*) FROM posts").Scan(&before))

		// platform длиной не провоцирует ошибку, поэтому бьем по NOT NULL player_id
		_, err := storage.DB.Exec("ALTER TABLE post_cards ADD CONSTRAINT chk_player CHECK (player_id <> '')")
		require.NoError(t, err)

		_, err = storage.CreatePost(ctx, models.Post{
			TraderUID: trader,
			Type:      models.PostTypeTrade,
			Title:     "Broken",
			Content:   "details",
			IsPremium: true,
		}, []models.PostCard{{PlayerID: "", Platform: "ps"}})
		assert.Error(t, err)

		var after int
		require.NoError(t, storage.DB.QueryRow("SELECT COUNT(*) FROM posts").Scan(&after))
		assert.Equal(t, before, after, "post row must be rolled back with its cards")
	})

	t.Run("лента подтягивает отображаемое имя автора", func(t *testing.T) {
		trader := factory.CreateTraderWithProfile(t, "named@example.com", "named", "Named Trader", false)
		_, err := storage.CreatePost(ctx, models.Post{
			TraderUID: trader,
			Type:      models.PostTypeSBC,
			Title:     "Named post",
			Content:   "text",
			IsPremium: false,
		}, nil)
		require.NoError(t, err)

		posts, err := storage.ListRecentPosts(ctx, 100)
		require.NoError(t, err)
		require.NotEmpty(t, posts)

		var found bool
		for _, p := range posts {
			if p.Title == "Named post" {
				found = true
				require.NotNil(t, p.TraderDisplayName)
				assert.Equal(t, "Named Trader", *p.TraderDisplayName)
			}
		}
		assert.True(t, found)
	})
}

func TestStorage_CheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	assert.NoError(t, storage.CheckDatabaseReady(context.Background()))
}
