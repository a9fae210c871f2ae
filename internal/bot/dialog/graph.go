package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/sorare-price-bot/server/internal/bot/model"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

type PlayerSearcher interface {
	SearchPlayers(ctx context.Context, name string) []model.Player
}

type PriceLookup interface {
	GetMinPrice(ctx context.Context, slug string) (float64, bool)
}

// GraphConfig holds everything the dialog graph depends on.
type GraphConfig struct {
	Searcher PlayerSearcher
	Prices   PriceLookup
	Now      func() time.Time
}

// GraphBuilder handles the construction of the lookup dialog graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.Turn, *model.Turn]
}

// BuildGraph constructs and returns the compiled dialog graph:
//
//	START -> input -> (search | select | END)
//	search -> (price | END)
//	select -> (price | END)
//	price  -> END
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*model.Turn, *model.Turn], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Searcher == nil || config.Prices == nil {
		return nil, fmt.Errorf("player searcher and price lookup are required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	builder := &GraphBuilder{
		config: config,
		graph:  compose.NewGraph[*model.Turn, *model.Turn](),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

func (b *GraphBuilder) addNodes() error {
	nodes := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{NodeInput, NewInputNode()},
		{NodeSearch, NewSearchNode(b.config.Searcher)},
		{NodeSelect, NewSelectNode()},
		{NodePrice, NewPriceNode(b.config.Prices, b.config.Now)},
	}
	for _, n := range nodes {
		if err := b.graph.AddLambdaNode(n.key, n.lambda, compose.WithNodeName(n.key)); err != nil {
			return fmt.Errorf("add node %s: %w", n.key, err)
		}
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, NodeInput},
		{NodePrice, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	inputBranch := compose.NewGraphBranch(
		NewInputCondition(),
		map[string]bool{
			NodeSearch:  true,
			NodeSelect:  true,
			compose.END: true,
		},
	)
	if err := b.graph.AddBranch(NodeInput, inputBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding input branch")
		return fmt.Errorf("error adding input branch: %w", err)
	}

	for _, from := range []string{NodeSearch, NodeSelect} {
		resolvedBranch := compose.NewGraphBranch(
			NewResolvedCondition(),
			map[string]bool{
				NodePrice:   true,
				compose.END: true,
			},
		)
		if err := b.graph.AddBranch(from, resolvedBranch); err != nil {
			logx.Error().Err(err).Str("node", from).Msg("Error adding resolution branch")
			return fmt.Errorf("error adding resolution branch from %s: %w", from, err)
		}
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.Turn, *model.Turn], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("sorare_price_dialog"),
		compose.WithMaxRunSteps(10),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Dialog graph compiled successfully")
	return runnable, nil
}
