package roster

import (
	"strings"

	"github.com/susu3304/pokerpal/internal/settlement"
)

// ParseInline parses a one-line roster such as
// "Alice 1000 1500, Bob 1000 500" or "Alice:1000:1500;Bob:1000:500".
// Entries are separated by commas, semicolons or newlines. In the spaced
// form the last two words are the stacks and the rest is the name.
// Stacks are left raw for settlement.ParsePlayers.
func ParseInline(text string) ([]settlement.RawPlayer, error) {
	entries := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	players := make([]settlement.RawPlayer, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		p, ok := parseEntry(entry)
		if !ok {
			return nil, &settlement.InvalidInputError{Row: len(players) + 1, Field: "entry", Value: entry}
		}
		players = append(players, p)
	}
	return players, nil
}

func parseEntry(entry string) (settlement.RawPlayer, bool) {
	if strings.Contains(entry, ":") {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return settlement.RawPlayer{}, false
		}
		return settlement.RawPlayer{
			Name:       strings.TrimSpace(parts[0]),
			StartStack: strings.TrimSpace(parts[1]),
			EndStack:   strings.TrimSpace(parts[2]),
		}, true
	}

	fields := strings.Fields(entry)
	if len(fields) < 2 {
		return settlement.RawPlayer{}, false
	}
	n := len(fields)
	return settlement.RawPlayer{
		Name:       strings.Join(fields[:n-2], " "),
		StartStack: fields[n-2],
		EndStack:   fields[n-1],
	}, true
}
