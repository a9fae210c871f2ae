package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sorare-price-bot/server/internal/bot/cache"
	"github.com/sorare-price-bot/server/internal/bot/model"
)

var pending = model.ConversationState{
	Stage: model.AwaitingSelection,
	Candidates: []model.Player{
		{Slug: "cristiano-ronaldo-dos-santos-aveiro", DisplayName: "Cristiano Ronaldo"},
		{Slug: "ronaldo-luis-nazario-de-lima", DisplayName: "Ronaldo"},
	},
}

func TestSessionRepository_Memory(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository(cache.NewMemory[model.ConversationState](10, time.Minute))

	require.Equal(t, model.AwaitingName, r.Load(ctx, "1:1").Stage)

	r.Save(ctx, "1:1", pending)
	require.Equal(t, pending, r.Load(ctx, "1:1"))
	require.Equal(t, model.AwaitingName, r.Load(ctx, "1:2").Stage, "sessions are isolated")

	r.Clear(ctx, "1:1")
	require.Equal(t, model.ConversationState{}, r.Load(ctx, "1:1"))
}

func TestSessionRepository_SavingInitialStateClears(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory[model.ConversationState](10, time.Minute)
	r := NewSessionRepository(store)

	r.Save(ctx, "7:7", pending)
	r.Save(ctx, "7:7", model.ConversationState{})
	require.Zero(t, store.Len())
}

func TestSessionRepository_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := NewSessionRepository(cache.NewRedis[model.ConversationState](rdb, "sorare-bot", 15*time.Minute))

	r.Save(ctx, "42:42", pending)
	require.True(t, mr.Exists("sorare-bot:session:42:42"))
	require.Equal(t, pending, r.Load(ctx, "42:42"))

	mr.FastForward(16 * time.Minute)
	require.Equal(t, model.AwaitingName, r.Load(ctx, "42:42").Stage, "idle session expires")
}
