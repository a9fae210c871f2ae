package repo

import (
	"context"
	"fmt"

	"github.com/sorare-price-bot/server/internal/bot/cache"
	"github.com/sorare-price-bot/server/internal/bot/model"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

// SessionRepository keeps dialog state in any cache backend. Idle sessions
// expire with the cache TTL; terminal transitions delete them explicitly.
type SessionRepository struct {
	store cache.Cache[model.ConversationState]
}

func NewSessionRepository(store cache.Cache[model.ConversationState]) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) model.ConversationState {
	state, ok := r.store.Get(ctx, r.sessionKey(sessionID))
	if !ok {
		return model.ConversationState{Stage: model.AwaitingName}
	}
	return state
}

func (r *SessionRepository) Save(ctx context.Context, sessionID string, state model.ConversationState) {
	if state.Stage == model.AwaitingName && len(state.Candidates) == 0 {
		r.Clear(ctx, sessionID)
		return
	}
	r.store.Set(ctx, r.sessionKey(sessionID), state)
	logx.Debug().Str("session", sessionID).Str("stage", state.Stage.String()).Int("candidates", len(state.Candidates)).Msg("session saved")
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) {
	r.store.Delete(ctx, r.sessionKey(sessionID))
}

var _ model.SessionRepository = (*SessionRepository)(nil)
