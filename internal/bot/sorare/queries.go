package sorare

import (
	"fmt"
	"strings"

	"github.com/sorare-price-bot/server/internal/bot/model"
)

// SearchSchema selects which GraphQL shape is used for player search.
type SearchSchema string

const (
	// SchemaLegacy queries the root allFootballPlayers(search:) field.
	SchemaLegacy SearchSchema = "legacy"
	// SchemaFootball queries football.allPlayers(name:).
	SchemaFootball SearchSchema = "football"
)

// ParseSearchSchema rejects unknown values instead of guessing.
func ParseSearchSchema(v string) (SearchSchema, error) {
	switch s := SearchSchema(strings.ToLower(strings.TrimSpace(v))); s {
	case SchemaLegacy, SchemaFootball:
		return s, nil
	case "":
		return SchemaLegacy, nil
	default:
		return "", fmt.Errorf("sorare: unknown search schema %q", v)
	}
}

const legacySearchQuery = `
query SearchPlayers($search: String!) {
	allFootballPlayers(search: $search) {
		nodes {
			slug
			displayName
		}
	}
}`

const footballSearchQuery = `
query SearchPlayers($name: String!) {
	football {
		allPlayers(name: $name) {
			nodes {
				slug
				displayName
			}
		}
	}
}`

var playerCardsQuery = fmt.Sprintf(`
query GetPlayerCards($slug: String!) {
	football {
		player(slug: $slug) {
			cards(rarities: [%s], auctionType: [%s]) {
				nodes {
					price
				}
			}
		}
	}
}`, strings.Join(model.Rarities, ", "), model.SaleMode)

func (s SearchSchema) query() string {
	if s == SchemaFootball {
		return footballSearchQuery
	}
	return legacySearchQuery
}

func (s SearchSchema) variables(name string) map[string]any {
	if s == SchemaFootball {
		return map[string]any{"name": name}
	}
	return map[string]any{"search": name}
}
