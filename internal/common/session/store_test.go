// internal/common/session/store_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquery/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStoreWithClient(client, ttl), mr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestStore_AppendAndHistory(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	err := store.Append(ctx, "session-1",
		models.ConversationTurn{Role: "user", Content: "¿Cuánto facturamos en 2024?"},
		models.ConversationTurn{Role: "assistant", Content: "SELECT ..."},
	)
	require.NoError(t, err)

	err = store.Append(ctx, "session-1",
		models.ConversationTurn{Role: "user", Content: "¿Y en 2025?"},
	)
	require.NoError(t, err)

	history, err := store.History(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "¿Y en 2025?", history[2].Content)
}

func TestStore_MissingSessionIsEmpty(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	history, err := store.History(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", models.ConversationTurn{Role: "user", Content: "pregunta a"}))
	require.NoError(t, store.Append(ctx, "b", models.ConversationTurn{Role: "user", Content: "pregunta b"}))

	historyA, err := store.History(ctx, "a")
	require.NoError(t, err)
	require.Len(t, historyA, 1)
	assert.Equal(t, "pregunta a", historyA[0].Content)
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "session-1", models.ConversationTurn{Role: "user", Content: "hola"}))
	require.NoError(t, store.Clear(ctx, "session-1"))

	history, err := store.History(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

// ==========================
// Expiry Tests
// ==========================

func TestStore_HistoryExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "session-1", models.ConversationTurn{Role: "user", Content: "hola"}))

	mr.FastForward(2 * time.Minute)

	history, err := store.History(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStore_AppendRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "session-1", models.ConversationTurn{Role: "user", Content: "uno"}))
	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Append(ctx, "session-1", models.ConversationTurn{Role: "user", Content: "dos"}))
	mr.FastForward(45 * time.Second)

	history, err := store.History(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, history, 2, "second append restarted the clock")
}
