package sorare

import (
	"context"
	"encoding/json"

	"github.com/sorare-price-bot/server/internal/bot/model"
	errx "github.com/sorare-price-bot/server/internal/core/error"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

// SearchPlayers returns the players matching name. The cache is keyed by the
// exact string, and successful responses are cached even when empty. Any
// failure is logged and yields an empty, uncached result.
func (c *Client) SearchPlayers(ctx context.Context, name string) []model.Player {
	if cached, ok := c.players.Get(ctx, name); ok {
		logx.Debug().Str("name", name).Int("players", len(cached)).Msg("player search cache hit")
		return cached
	}

	nodes, err := c.searchNodes(ctx, name)
	if err != nil {
		logx.Error().Err(err).Int("status", errx.StatusOf(err)).Str("name", name).Str("schema", string(c.schema)).Msg("player search failed")
		return []model.Player{}
	}

	players := make([]model.Player, 0, len(nodes))
	for i, raw := range nodes {
		var p model.Player
		if err := json.Unmarshal(raw, &p); err != nil {
			logx.Warn().Err(err).Str("name", name).Int("index", i).Msg("skipping malformed player record")
			continue
		}
		if p.Slug == "" || p.DisplayName == "" {
			logx.Warn().Str("name", name).Int("index", i).Msg("skipping player record without slug or displayName")
			continue
		}
		players = append(players, p)
	}

	c.players.Set(ctx, name, players)
	logx.Debug().Str("name", name).Int("players", len(players)).Msg("player search completed")
	return players
}

func (c *Client) searchNodes(ctx context.Context, name string) ([]json.RawMessage, error) {
	vars := c.schema.variables(name)

	if c.schema == SchemaFootball {
		var data footballSearchData
		if err := c.query(ctx, c.searchTimeout, c.schema.query(), vars, &data); err != nil {
			return nil, err
		}
		if data.Football == nil || data.Football.AllPlayers == nil {
			return nil, nil
		}
		return data.Football.AllPlayers.Nodes, nil
	}

	var data legacySearchData
	if err := c.query(ctx, c.searchTimeout, c.schema.query(), vars, &data); err != nil {
		return nil, err
	}
	if data.AllFootballPlayers == nil {
		return nil, nil
	}
	return data.AllFootballPlayers.Nodes, nil
}
