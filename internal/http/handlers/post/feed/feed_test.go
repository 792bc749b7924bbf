package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Feed(ctx context.Context, readerUID string) ([]*models.Post, error) {
	args := m.Called(ctx, readerUID)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestFeedHandler_ServeHTTP(t *testing.T) {
	t.Run("лента отдается с заблокированными и открытыми постами", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Feed", mock.Anything, "uid-1").Return([]*models.Post{
			{ID: "p-1", Content: "open tip", Locked: false},
			{ID: "p-2", Content: models.LockedPostPlaceholder, Locked: true},
		}, nil)

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		data := got["data"].(map[string]any)
		assert.Equal(t, float64(2), data["list_count"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("без пользователя в контексте 401", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Feed", mock.Anything, mock.Anything)
	})

	t.Run("ошибка сервиса дает 500", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Feed", mock.Anything, "uid-1").Return(nil, errors.New("db error"))

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
