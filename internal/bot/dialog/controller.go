// Package dialog drives the two-stage lookup conversation: collect a player
// name, optionally disambiguate, then report the lowest card price.
package dialog

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/sorare-price-bot/server/internal/bot/model"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

const (
	CommandStart  = "start"
	CommandCancel = "cancel"
)

// Controller answers every inbound message; it never returns an error to
// the transport.
type Controller struct {
	runnable compose.Runnable[*model.Turn, *model.Turn]
	sessions model.SessionRepository
}

// NewController compiles the dialog graph around the given clients.
func NewController(ctx context.Context, cfg GraphConfig, sessions model.SessionRepository) (*Controller, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session repository is nil")
	}
	runnable, err := BuildGraph(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	return &Controller{runnable: runnable, sessions: sessions}, nil
}

// Handle processes one message for its session and returns the reply.
func (c *Controller) Handle(ctx context.Context, in model.Inbound) model.Reply {
	if in.Command != "" {
		return c.handleCommand(ctx, in)
	}

	state := c.sessions.Load(ctx, in.SessionID)
	turn := &model.Turn{
		SessionID: in.SessionID,
		Text:      in.Text,
		State:     state,
	}

	out, err := c.invoke(ctx, turn)
	if err != nil {
		logx.Error().Err(err).Str("session", in.SessionID).Msg("failed to resolve player price")
		c.sessions.Clear(ctx, in.SessionID)
		return model.Reply{Text: MsgFetchFailed, RemoveOptions: state.Stage == model.AwaitingSelection}
	}

	if out.Done {
		c.sessions.Clear(ctx, in.SessionID)
	} else {
		c.sessions.Save(ctx, in.SessionID, out.State)
	}

	logx.Info().
		Str("session", in.SessionID).
		Str("from_stage", state.Stage.String()).
		Bool("done", out.Done).
		Msg("dialog turn handled")
	return out.Reply
}

func (c *Controller) invoke(ctx context.Context, turn *model.Turn) (out *model.Turn, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("dialog graph panicked: %v", r)
		}
	}()

	out, err = c.runnable.Invoke(ctx, turn, compose.WithCallbacks(NewNodeCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("dialog graph returned no turn")
	}
	return out, nil
}

func (c *Controller) handleCommand(ctx context.Context, in model.Inbound) model.Reply {
	switch in.Command {
	case CommandCancel:
		state := c.sessions.Load(ctx, in.SessionID)
		c.sessions.Clear(ctx, in.SessionID)
		return model.Reply{Text: MsgCancelled, RemoveOptions: state.Stage == model.AwaitingSelection}
	case CommandStart:
		return model.Reply{Text: MsgWelcome}
	default:
		logx.Debug().Str("session", in.SessionID).Str("command", in.Command).Msg("unknown command")
		return model.Reply{Text: MsgWelcome}
	}
}
