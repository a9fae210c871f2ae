package sorare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse keeps data raw so each operation decodes its own path.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// playerNodes defers record decoding so one malformed node does not sink
// the whole page.
type playerNodes struct {
	Nodes []json.RawMessage `json:"nodes"`
}

type legacySearchData struct {
	AllFootballPlayers *playerNodes `json:"allFootballPlayers"`
}

type footballSearchData struct {
	Football *struct {
		AllPlayers *playerNodes `json:"allPlayers"`
	} `json:"football"`
}

type playerCardsData struct {
	Football *struct {
		Player *struct {
			Cards *struct {
				Nodes []cardNode `json:"nodes"`
			} `json:"cards"`
		} `json:"player"`
	} `json:"football"`
}

type cardNode struct {
	Price cardPrice `json:"price"`
}

// cardPrice accepts a JSON string or number. Set is false for null, missing
// or empty values.
type cardPrice struct {
	Value float64
	Set   bool
}

func (p *cardPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = cardPrice{}
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*p = cardPrice{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parse price %q: not a finite number", raw)
	}
	*p = cardPrice{Value: v, Set: true}
	return nil
}
