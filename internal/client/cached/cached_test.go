package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exampleapi/internal/cache"
	cacheMocks "exampleapi/internal/cache/mocks"
	clientMocks "exampleapi/internal/client/mocks"
	"exampleapi/internal/logger"
)

func TestClient_FetchExternalData(t *testing.T) {
	ctx := context.Background()
	key := keyPrefix + "r1"

	tests := []struct {
		name       string
		setupMocks func(mCache *cacheMocks.MockCache, mNext *clientMocks.MockExternalServiceClient)
		wantBody   string
		wantOK     bool
	}{
		{
			name: "cache hit skips upstream",
			setupMocks: func(mCache *cacheMocks.MockCache, mNext *clientMocks.MockExternalServiceClient) {
				mCache.On("Get", ctx, key).Return("cached", nil)
			},
			wantBody: "cached",
			wantOK:   true,
		},
		{
			name: "cache miss fetches and stores",
			setupMocks: func(mCache *cacheMocks.MockCache, mNext *clientMocks.MockExternalServiceClient) {
				mCache.On("Get", ctx, key).Return("", cache.ErrMiss)
				mNext.On("FetchExternalData", ctx, "r1").Return("fresh", true)
				mCache.On("Set", ctx, key, "fresh", 30*time.Second).Return(nil)
			},
			wantBody: "fresh",
			wantOK:   true,
		},
		{
			name: "absent result is not cached",
			setupMocks: func(mCache *cacheMocks.MockCache, mNext *clientMocks.MockExternalServiceClient) {
				mCache.On("Get", ctx, key).Return("", cache.ErrMiss)
				mNext.On("FetchExternalData", ctx, "r1").Return("", false)
			},
			wantOK: false,
		},
		{
			name: "cache errors degrade to upstream",
			setupMocks: func(mCache *cacheMocks.MockCache, mNext *clientMocks.MockExternalServiceClient) {
				mCache.On("Get", ctx, key).Return("", errors.New("redis down"))
				mNext.On("FetchExternalData", ctx, "r1").Return("fresh", true)
				mCache.On("Set", ctx, key, "fresh", mock.Anything).Return(errors.New("redis down"))
			},
			wantBody: "fresh",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mCache := new(cacheMocks.MockCache)
			mNext := new(clientMocks.MockExternalServiceClient)
			c := New(mNext, mCache, 30*time.Second, logger.Discard())

			tt.setupMocks(mCache, mNext)

			body, ok := c.FetchExternalData(ctx, "r1")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBody, body)
			mCache.AssertExpectations(t)
			mNext.AssertExpectations(t)
		})
	}
}

func TestClient_NotifyPassesThrough(t *testing.T) {
	ctx := context.Background()
	mCache := new(cacheMocks.MockCache)
	mNext := new(clientMocks.MockExternalServiceClient)
	mNext.On("NotifyExternalService", ctx, "example.created", "{}").Return()

	New(mNext, mCache, 0, logger.Discard()).NotifyExternalService(ctx, "example.created", "{}")

	mNext.AssertExpectations(t)
	mCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(new(clientMocks.MockExternalServiceClient), new(cacheMocks.MockCache), -1, logger.Discard())
	assert.Equal(t, time.Minute, c.ttl)
}
