package sorare

import (
	"context"

	errx "github.com/sorare-price-bot/server/internal/core/error"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

// GetMinPrice returns the lowest buyNow price in ETH among the sellable cards
// of a player. The bool is false when no card is listed or the lookup failed.
// Only numeric results are cached: a card listed right after an empty answer
// must show up on the next request.
func (c *Client) GetMinPrice(ctx context.Context, slug string) (float64, bool) {
	if cached, ok := c.prices.Get(ctx, slug); ok {
		logx.Debug().Str("slug", slug).Float64("price", cached).Msg("price cache hit")
		return cached, true
	}

	var data playerCardsData
	if err := c.query(ctx, c.priceTimeout, playerCardsQuery, map[string]any{"slug": slug}, &data); err != nil {
		logx.Error().Err(err).Int("status", errx.StatusOf(err)).Str("slug", slug).Msg("price lookup failed")
		return 0, false
	}

	if data.Football == nil || data.Football.Player == nil || data.Football.Player.Cards == nil {
		logx.Debug().Str("slug", slug).Msg("player has no card data")
		return 0, false
	}

	price, ok := minPrice(data.Football.Player.Cards.Nodes)
	if !ok {
		logx.Debug().Str("slug", slug).Int("cards", len(data.Football.Player.Cards.Nodes)).Msg("no priced cards on sale")
		return 0, false
	}

	c.prices.Set(ctx, slug, price)
	return price, true
}

func minPrice(cards []cardNode) (float64, bool) {
	var (
		lowest float64
		found  bool
	)
	for _, card := range cards {
		if !card.Price.Set {
			continue
		}
		if !found || card.Price.Value < lowest {
			lowest = card.Price.Value
			found = true
		}
	}
	return lowest, found
}
