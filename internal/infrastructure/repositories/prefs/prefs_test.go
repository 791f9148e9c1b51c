package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBoltStore_LastListFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prefs.db")
	ctx := context.Background()

	store, err := OpenBolt(path)
	require.NoError(t, err)

	ts, err := store.LastListFetch(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero(), "nunca se hizo fetch")

	when := time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC)
	require.NoError(t, store.SetLastListFetch(ctx, when))
	require.NoError(t, store.Close())

	// sobrevive reinicios
	store, err = OpenBolt(path)
	require.NoError(t, err)
	defer store.Close()

	ts, err = store.LastListFetch(ctx)
	require.NoError(t, err)
	assert.True(t, ts.Equal(when))

	require.NoError(t, store.Clear(ctx))
	ts, err = store.LastListFetch(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SetLastListFetch(ctx, now))
	ts, err := store.LastListFetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, ts)

	require.NoError(t, store.Clear(ctx))
	ts, _ = store.LastListFetch(ctx)
	assert.True(t, ts.IsZero())
}

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	cmd := redis.NewStringCmd(ctx, "get", key)
	if args.Error(1) != nil {
		cmd.SetErr(args.Error(1))
	} else {
		cmd.SetVal(args.String(0))
	}
	return cmd
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if args.Error(0) != nil {
		cmd.SetErr(args.Error(0))
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	cmd := redis.NewIntCmd(ctx, "del")
	cmd.SetVal(int64(args.Int(0)))
	return cmd
}

func TestRedisStore(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockRedisClient)
		wantZero  bool
		wantErr   bool
	}{
		{
			name: "sin valor es tiempo cero",
			setupMock: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "coinbit:meta:last_list_fetch").Return("", redis.Nil)
			},
			wantZero: true,
		},
		{
			name: "valor guardado",
			setupMock: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "coinbit:meta:last_list_fetch").Return("1714557600000", nil)
			},
		},
		{
			name: "error de conexion",
			setupMock: func(m *MockRedisClient) {
				m.On("Get", mock.Anything, "coinbit:meta:last_list_fetch").Return("", errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockRedisClient)
			tt.setupMock(client)
			store := NewRedisStore(client, "coinbit:")

			ts, err := store.LastListFetch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantZero, ts.IsZero())
			if !tt.wantZero {
				assert.Equal(t, int64(1714557600000), ts.UnixMilli())
			}
			client.AssertExpectations(t)
		})
	}
}

func TestRedisStore_SetAndClear(t *testing.T) {
	client := new(MockRedisClient)
	when := time.UnixMilli(1714557600000)
	client.On("Set", mock.Anything, "p:meta:last_list_fetch", "1714557600000", time.Duration(0)).Return(nil)
	client.On("Del", mock.Anything, []string{"p:meta:last_list_fetch"}).Return(1)

	store := NewRedisStore(client, "p:")
	require.NoError(t, store.SetLastListFetch(context.Background(), when))
	require.NoError(t, store.Clear(context.Background()))
	client.AssertExpectations(t)
}
