package dialog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sorare-price-bot/server/internal/bot/cache"
	"github.com/sorare-price-bot/server/internal/bot/model"
	"github.com/sorare-price-bot/server/internal/bot/repo"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]model.Player
	calls   []string
}

func (f *fakeSearcher) SearchPlayers(_ context.Context, name string) []model.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.results[name]
}

type quote struct {
	price float64
	ok    bool
}

type fakePrices struct {
	mu     sync.Mutex
	quotes map[string]quote
	panics bool
	calls  []string
}

func (f *fakePrices) GetMinPrice(_ context.Context, slug string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, slug)
	if f.panics {
		panic("cache corrupted")
	}
	q := f.quotes[slug]
	return q.price, q.ok
}

var (
	messi   = model.Player{Slug: "lionel-andres-messi-cuccittini", DisplayName: "Lionel Messi"}
	ronaldo = model.Player{Slug: "cristiano-ronaldo-dos-santos-aveiro", DisplayName: "Cristiano Ronaldo"}
	fixedAt = time.Date(2024, 5, 1, 18, 30, 15, 0, time.UTC)
)

func manyPlayers(n int) []model.Player {
	out := make([]model.Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Player{Slug: fmt.Sprintf("silva-%d", i), DisplayName: fmt.Sprintf("Silva %d", i)})
	}
	return out
}

type harness struct {
	ctrl     *Controller
	searcher *fakeSearcher
	prices   *fakePrices
	sessions *repo.SessionRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		searcher: &fakeSearcher{results: map[string][]model.Player{
			"Messi":   {messi},
			"Ronaldo": {ronaldo, {Slug: "ronaldo-luis-nazario-de-lima", DisplayName: "Ronaldo"}},
			"Silva":   manyPlayers(8),
		}},
		prices: &fakePrices{quotes: map[string]quote{
			messi.Slug:   {price: 0.9, ok: true},
			ronaldo.Slug: {price: 1.23456, ok: true},
		}},
		sessions: repo.NewSessionRepository(cache.NewMemory[model.ConversationState](100, time.Hour)),
	}

	ctrl, err := NewController(context.Background(), GraphConfig{
		Searcher: h.searcher,
		Prices:   h.prices,
		Now:      func() time.Time { return fixedAt },
	}, h.sessions)
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func (h *harness) text(sessionID, text string) model.Reply {
	return h.ctrl.Handle(context.Background(), model.Inbound{SessionID: sessionID, Text: text})
}

func (h *harness) command(sessionID, cmd string) model.Reply {
	return h.ctrl.Handle(context.Background(), model.Inbound{SessionID: sessionID, Text: "/" + cmd, Command: cmd})
}

func (h *harness) stage(sessionID string) model.Stage {
	return h.sessions.Load(context.Background(), sessionID).Stage
}

// ---------------------------------------------------------------------------
// construction
// ---------------------------------------------------------------------------

func TestNewController_RequiresDependencies(t *testing.T) {
	sessions := repo.NewSessionRepository(cache.NewMemory[model.ConversationState](1, time.Minute))

	_, err := NewController(context.Background(), GraphConfig{Prices: &fakePrices{}}, sessions)
	require.Error(t, err)

	_, err = NewController(context.Background(), GraphConfig{Searcher: &fakeSearcher{}, Prices: &fakePrices{}}, nil)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// commands
// ---------------------------------------------------------------------------

func TestStart_SendsWelcomeAndKeepsStage(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, model.Reply{Text: MsgWelcome}, h.command("s", CommandStart))
	require.Equal(t, model.AwaitingName, h.stage("s"))

	h.text("s", "Ronaldo")
	require.Equal(t, MsgWelcome, h.command("s", CommandStart).Text)
	require.Equal(t, model.AwaitingSelection, h.stage("s"), "start does not touch a pending selection")
}

func TestCancel_ResetsFromAnyStage(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, model.Reply{Text: MsgCancelled}, h.command("s", CommandCancel))

	h.text("s", "Ronaldo")
	reply := h.command("s", CommandCancel)
	require.Equal(t, MsgCancelled, reply.Text)
	require.True(t, reply.RemoveOptions)
	require.Equal(t, model.AwaitingName, h.stage("s"))
}

func TestUnknownCommand_RepliesWithInstructions(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, MsgWelcome, h.command("s", "help").Text)
	require.Empty(t, h.searcher.calls)
}

// ---------------------------------------------------------------------------
// name stage
// ---------------------------------------------------------------------------

func TestEmptyName_IsRejected(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		h := newHarness(t)
		reply := h.text("s", in)
		require.Equal(t, MsgEmptyName, reply.Text)
		require.Equal(t, model.AwaitingName, h.stage("s"))
		require.Empty(t, h.searcher.calls)
	}
}

func TestNoResults_RepliesNotFound(t *testing.T) {
	h := newHarness(t)

	reply := h.text("s", "Nobody")
	require.Equal(t, model.Reply{Text: MsgNotFound}, reply)
	require.Equal(t, model.AwaitingName, h.stage("s"))
	require.Empty(t, h.prices.calls)
}

func TestSingleResult_GoesStraightToPrice(t *testing.T) {
	h := newHarness(t)

	reply := h.text("s", "  Messi ")
	require.Equal(t, []string{"Messi"}, h.searcher.calls, "search receives trimmed text")
	require.Equal(t, []string{messi.Slug}, h.prices.calls)
	require.Empty(t, reply.Options)
	require.False(t, reply.RemoveOptions)
	require.Equal(t, "✅ Lionel Messi\nМинимальная цена: 0.90 ETH\n🕒 18:30:15", reply.Text)
	require.Equal(t, model.AwaitingName, h.stage("s"))
}

func TestSingleResult_NoCards(t *testing.T) {
	h := newHarness(t)
	h.searcher.results["Nobody Listed"] = []model.Player{{Slug: "unlisted", DisplayName: "Unlisted Player"}}

	reply := h.text("s", "Nobody Listed")
	require.Equal(t, "ℹ️ Unlisted Player: Нет карточек", reply.Text)
	require.Equal(t, model.AwaitingName, h.stage("s"))
}

func TestManyResults_PresentsBoundedMenu(t *testing.T) {
	h := newHarness(t)

	reply := h.text("s", "Silva")
	require.Equal(t, MsgChoosePlayer, reply.Text)
	require.Len(t, reply.Options, model.MaxCandidates)
	require.Equal(t, []string{"Silva 0", "Silva 1", "Silva 2", "Silva 3", "Silva 4"}, reply.Options)

	state := h.sessions.Load(context.Background(), "s")
	require.Equal(t, model.AwaitingSelection, state.Stage)
	require.Equal(t, reply.Options, candidateOptions(state.Candidates), "stored candidates match the menu")
	require.Empty(t, h.prices.calls)
}

func TestManyResults_ChoosingBeyondMenuFails(t *testing.T) {
	h := newHarness(t)

	h.text("s", "Silva")
	reply := h.text("s", "Silva 6")
	require.Equal(t, MsgSelectionError, reply.Text)
	require.Empty(t, h.prices.calls)
}

// ---------------------------------------------------------------------------
// selection stage
// ---------------------------------------------------------------------------

func TestSelection_MatchReportsPrice(t *testing.T) {
	h := newHarness(t)

	h.text("s", "Ronaldo")
	reply := h.text("s", "Cristiano Ronaldo")

	require.Equal(t, "✅ Cristiano Ronaldo\nМинимальная цена: 1.23 ETH\n🕒 18:30:15", reply.Text)
	require.True(t, reply.RemoveOptions)
	require.Equal(t, []string{ronaldo.Slug}, h.prices.calls)
	require.Equal(t, model.AwaitingName, h.stage("s"))
	require.Equal(t, []string{"Ronaldo"}, h.searcher.calls, "selection does not search again")
}

func TestSelection_MismatchResets(t *testing.T) {
	h := newHarness(t)

	h.sessions.Save(context.Background(), "s", model.ConversationState{
		Stage:      model.AwaitingSelection,
		Candidates: []model.Player{{Slug: "slug-a", DisplayName: "Messi"}},
	})

	reply := h.text("s", "Ronaldo")
	require.Equal(t, MsgSelectionError, reply.Text)
	require.True(t, reply.RemoveOptions)
	require.Equal(t, model.AwaitingName, h.stage("s"))
	require.Empty(t, h.searcher.calls)
	require.Empty(t, h.prices.calls)
}

func TestSelection_NoCards(t *testing.T) {
	h := newHarness(t)

	h.text("s", "Ronaldo")
	reply := h.text("s", "Ronaldo")
	require.Equal(t, "ℹ️ Ronaldo: Нет карточек", reply.Text)
	require.Equal(t, model.AwaitingName, h.stage("s"))
}

func TestSessionsAreIndependent(t *testing.T) {
	h := newHarness(t)

	h.text("a", "Ronaldo")
	reply := h.text("b", "Messi")
	require.Contains(t, reply.Text, "Lionel Messi")

	require.Equal(t, model.AwaitingSelection, h.stage("a"))
	require.Equal(t, model.AwaitingName, h.stage("b"))
}

// ---------------------------------------------------------------------------
// failures
// ---------------------------------------------------------------------------

func TestPricePanic_RepliesFetchFailed(t *testing.T) {
	h := newHarness(t)
	h.prices.panics = true

	reply := h.text("s", "Messi")
	require.Equal(t, MsgFetchFailed, reply.Text)
	require.Equal(t, model.AwaitingName, h.stage("s"))

	h.prices.panics = false
	h.text("s", "Ronaldo")
	h.prices.panics = true
	reply = h.text("s", "Cristiano Ronaldo")
	require.Equal(t, MsgFetchFailed, reply.Text)
	require.True(t, reply.RemoveOptions)
	require.Equal(t, model.AwaitingName, h.stage("s"))
}
