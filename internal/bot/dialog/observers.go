package dialog

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/sorare-price-bot/server/pkg/logger"
)

func nodeName(info *einocb.RunInfo) string {
	if info == nil {
		return ""
	}
	return info.Name
}

// NewNodeCallbacks logs the lifecycle of every dialog node.
// Attach it via compose.WithCallbacks(...) when invoking the graph.
func NewNodeCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			logx.Debug().Str("node", nodeName(info)).Msg("dialog node start")
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Debug().Str("node", nodeName(info)).Msg("dialog node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("node", nodeName(info)).Msg("dialog node failed")
			return ctx
		}).
		Build()
}
