package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/sorare-price-bot/server/internal/bot/model"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

const (
	NodeInput  = "input"
	NodeSearch = "search"
	NodeSelect = "select"
	NodePrice  = "price"
)

// NewInputNode normalises the text and rejects empty names.
func NewInputNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.Text = strings.TrimSpace(t.Text)
		if t.State.Stage == model.AwaitingName && t.Text == "" {
			t.Reply = model.Reply{Text: MsgEmptyName}
			t.Done = true
		}
		return t, nil
	})
}

// NewInputCondition routes by session stage.
func NewInputCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		switch {
		case t.Done:
			return compose.END, nil
		case t.State.Stage == model.AwaitingSelection:
			return NodeSelect, nil
		default:
			return NodeSearch, nil
		}
	}
}

// NewSearchNode looks the name up. A single match is resolved directly; more
// matches are offered as a bounded menu and the session waits for a choice.
func NewSearchNode(searcher PlayerSearcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		players := searcher.SearchPlayers(ctx, t.Text)

		switch len(players) {
		case 0:
			t.Reply = model.Reply{Text: MsgNotFound}
			t.Done = true
		case 1:
			p := players[0]
			t.Player = &p
		default:
			candidates := players
			if len(candidates) > model.MaxCandidates {
				candidates = candidates[:model.MaxCandidates]
			}
			candidates = append([]model.Player(nil), candidates...)
			t.State = model.ConversationState{Stage: model.AwaitingSelection, Candidates: candidates}
			t.Reply = model.Reply{Text: MsgChoosePlayer, Options: candidateOptions(candidates)}
			logx.Debug().
				Str("session", t.SessionID).
				Int("found", len(players)).
				Int("offered", len(candidates)).
				Msg("asking user to pick a player")
		}
		return t, nil
	})
}

// NewSelectNode matches the chosen display name against stored candidates.
func NewSelectNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		p, ok := t.State.FindCandidate(t.Text)
		if !ok {
			logx.Debug().Str("session", t.SessionID).Str("selection", t.Text).Msg("selection matches no candidate")
			t.Reply = model.Reply{Text: MsgSelectionError, RemoveOptions: true}
			t.Done = true
			return t, nil
		}
		t.Player = &p
		return t, nil
	})
}

// NewResolvedCondition continues to pricing once a player is known.
func NewResolvedCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		if t.Player != nil && !t.Done {
			return NodePrice, nil
		}
		return compose.END, nil
	}
}

// NewPriceNode reports the lowest price of the resolved player. A panic
// while resolving is turned into an error so the controller can answer.
func NewPriceNode(prices PriceLookup, now func() time.Time) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (out *model.Turn, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("price resolution panicked: %v", r)
			}
		}()

		if t.Player == nil {
			return nil, fmt.Errorf("price resolution without a player")
		}
		p := *t.Player

		reply := model.Reply{RemoveOptions: t.State.Stage == model.AwaitingSelection}
		price, ok := prices.GetMinPrice(ctx, p.Slug)
		if ok {
			reply.Text = priceMessage(p, price, now())
		} else {
			reply.Text = noCardsMessage(p)
		}

		t.Reply = reply
		t.Done = true
		return t, nil
	})
}
