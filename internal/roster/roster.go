// Package roster reads table rosters written in HCL, for settling a game
// from the command line.
//
//	coin_value = 0.01
//	currency   = "EUR"
//	buy_in     = 1000
//
//	player "Alice" {
//	  start = 1000
//	  end   = 1500
//	}
//	player "Bob" {
//	  end = 500
//	}
package roster

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/susu3304/pokerpal/internal/settlement"
)

type file struct {
	CoinValue float64       `hcl:"coin_value"`
	Currency  string        `hcl:"currency,optional"`
	BuyIn     float64       `hcl:"buy_in,optional"`
	Players   []playerBlock `hcl:"player,block"`
}

type playerBlock struct {
	Name  string   `hcl:"name,label"`
	Start *float64 `hcl:"start,optional"`
	End   float64  `hcl:"end"`
}

// Roster is a decoded roster file. Players without a start stack start with
// BuyIn chips.
type Roster struct {
	CoinValue float64
	Currency  string
	BuyIn     float64
	Players   []settlement.Player
}

// Load reads and decodes a roster file.
func Load(path string) (*Roster, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes roster source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Roster, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse roster: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode roster: %s", diags.Error())
	}

	if !(raw.CoinValue > 0) || math.IsInf(raw.CoinValue, 0) {
		return nil, &settlement.InvalidInputError{Field: "coin value", Value: fmt.Sprint(raw.CoinValue)}
	}
	if raw.BuyIn < 0 {
		return nil, &settlement.InvalidInputError{Field: "buy-in", Value: fmt.Sprint(raw.BuyIn)}
	}
	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency != "" {
		if _, ok := settlement.LookupCurrency(currency); !ok {
			return nil, &settlement.InvalidInputError{Field: "currency", Value: raw.Currency}
		}
	}

	r := &Roster{
		CoinValue: raw.CoinValue,
		Currency:  currency,
		BuyIn:     raw.BuyIn,
		Players:   make([]settlement.Player, 0, len(raw.Players)),
	}
	for i, p := range raw.Players {
		start := raw.BuyIn
		if p.Start != nil {
			start = *p.Start
		}
		if start < 0 {
			return nil, &settlement.InvalidInputError{Row: i + 1, Field: "start stack", Value: fmt.Sprint(start)}
		}
		if p.End < 0 {
			return nil, &settlement.InvalidInputError{Row: i + 1, Field: "end stack", Value: fmt.Sprint(p.End)}
		}
		r.Players = append(r.Players, settlement.Player{
			Name:       strings.TrimSpace(p.Name),
			StartStack: start,
			EndStack:   p.End,
		})
	}
	return r, nil
}

// Settle runs the settlement for the roster, in the roster's currency or
// fallback when the file names none.
func (r *Roster) Settle(fallback settlement.CurrencyUnit) (*settlement.Result, error) {
	currency := fallback
	if r.Currency != "" {
		currency, _ = settlement.LookupCurrency(r.Currency)
	}
	return settlement.Settle(r.Players, r.CoinValue, currency)
}
