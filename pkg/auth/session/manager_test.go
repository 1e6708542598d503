package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string]string)}
}

func (f *fakeBackend) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return nil
}

func (f *fakeBackend) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (f *fakeBackend) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeBackend) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager(backend *fakeBackend) *Manager {
	return &Manager{store: backend, keyer: backend, ttl: time.Hour}
}

func TestRotateReplacesSession(t *testing.T) {
	backend := newFakeBackend()
	manager := newTestManager(backend)
	ctx := context.Background()

	secret, err := manager.Generate(ctx, "access-123")
	require.NoError(t, err)
	assert.Equal(t, secret, backend.data["sess:access-123"])

	_, _, err = manager.Rotate(ctx, "access-123", "wrong-secret")
	require.True(t, errors.Is(err, ErrInvalidRefreshToken))

	nextID, nextSecret, err := manager.Rotate(ctx, "access-123", secret)
	require.NoError(t, err)
	assert.NotEqual(t, "access-123", nextID)
	assert.NotEqual(t, secret, nextSecret)

	_, stale := backend.data["sess:access-123"]
	assert.False(t, stale, "old session must be deleted on rotation")
	assert.Equal(t, nextSecret, backend.data["sess:"+nextID])
}

func TestRotateUnknownSession(t *testing.T) {
	manager := newTestManager(newFakeBackend())

	_, _, err := manager.Rotate(context.Background(), "never-issued", "anything")
	require.True(t, errors.Is(err, ErrInvalidRefreshToken))
}

func TestRevokeEndsSession(t *testing.T) {
	backend := newFakeBackend()
	manager := newTestManager(backend)
	ctx := context.Background()

	_, err := manager.Generate(ctx, "access-1")
	require.NoError(t, err)

	active, err := manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, manager.Revoke(ctx, "access-1"))

	active, err = manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, active)
}
