package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/susu3304/pokerpal/internal/config"
	"github.com/susu3304/pokerpal/internal/roster"
	"github.com/susu3304/pokerpal/internal/settlement"
	"github.com/susu3304/pokerpal/internal/share"
)

// SettleCmd settles a game offline. Players given with --player are added
// after the ones in the roster file.
type SettleCmd struct {
	File     string   `short:"f" type:"existingfile" help:"HCL roster file"`
	Players  []string `name:"player" short:"p" help:"Player as name:start:end (repeatable)"`
	Coin     float64  `help:"Money value of one chip, overrides coin_value"`
	Currency string   `help:"Currency code, overrides currency"`
}

func (c *SettleCmd) Run(out io.Writer) error {
	if c.File == "" && len(c.Players) == 0 {
		return errors.New("settle needs --file or at least one --player")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	r := &roster.Roster{}
	if c.File != "" {
		if r, err = roster.Load(c.File); err != nil {
			return err
		}
	}

	if len(c.Players) > 0 {
		raw, err := roster.ParseInline(strings.Join(c.Players, ","))
		if err != nil {
			return err
		}
		players, err := settlement.ParsePlayers(raw)
		if err != nil {
			return err
		}
		r.Players = append(r.Players, players...)
	}

	if c.Coin != 0 {
		r.CoinValue = c.Coin
	}
	if r.CoinValue <= 0 {
		return errors.New("coin value must be greater than zero, use --coin")
	}

	currency := cfg.DefaultCurrency
	if c.Currency != "" {
		r.Currency = c.Currency
	}
	if r.Currency != "" {
		var ok bool
		if currency, ok = settlement.LookupCurrency(r.Currency); !ok {
			return fmt.Errorf("unsupported currency %q", r.Currency)
		}
	}

	result, err := r.Settle(currency)
	var discrepancy *settlement.DiscrepancyError
	if errors.As(err, &discrepancy) {
		fmt.Fprintln(out, discrepancy.Describe(currency))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, share.Text(result, ""))
	return nil
}
