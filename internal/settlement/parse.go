package settlement

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawPlayer is a roster row as typed by a user, before any parsing.
type RawPlayer struct {
	Name       string `json:"name"`
	StartStack string `json:"startStack"`
	EndStack   string `json:"endStack"`
}

// ParseStack parses a chip count. A blank field counts as zero chips.
// Anything else must be a non-negative number.
func ParseStack(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0, &InvalidInputError{Field: "stack", Value: raw}
	}
	return d.InexactFloat64(), nil
}

// ParseCoinValue parses the money value of one chip. Unlike stacks, a blank
// coin value is an error.
func ParseCoinValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &InvalidInputError{Field: "coin value", Value: raw}
	}
	return d.InexactFloat64(), nil
}

// ParsePlayers parses a whole roster. Names are kept as typed; blank names
// are filled in by ComputeResults.
func ParsePlayers(rows []RawPlayer) ([]Player, error) {
	players := make([]Player, 0, len(rows))
	for i, row := range rows {
		start, err := ParseStack(row.StartStack)
		if err != nil {
			return nil, &InvalidInputError{Row: i + 1, Field: "start stack", Value: row.StartStack}
		}
		end, err := ParseStack(row.EndStack)
		if err != nil {
			return nil, &InvalidInputError{Row: i + 1, Field: "end stack", Value: row.EndStack}
		}
		players = append(players, Player{Name: row.Name, StartStack: start, EndStack: end})
	}
	return players, nil
}

// UnmarshalJSON accepts stacks both as JSON strings and as JSON numbers.
func (p *RawPlayer) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string          `json:"name"`
		StartStack json.RawMessage `json:"startStack"`
		EndStack   json.RawMessage `json:"endStack"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := rawField(raw.StartStack)
	if err != nil {
		return fmt.Errorf("startStack: %w", err)
	}
	end, err := rawField(raw.EndStack)
	if err != nil {
		return fmt.Errorf("endStack: %w", err)
	}

	*p = RawPlayer{Name: raw.Name, StartStack: start, EndStack: end}
	return nil
}

func rawField(msg json.RawMessage) (string, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return "", nil
	}
	if msg[0] == '"' {
		var s string
		err := json.Unmarshal(msg, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
