// Package settlement turns the chip counts of a cash game into money results
// and a list of transfers that settles every balance.
package settlement

import (
	"fmt"
	"math"
	"strings"
)

// CheckConservation reports whether the chips at the start of the session
// equal the chips at the end. The comparison is exact. When it fails the
// returned discrepancy is (totalStart - totalEnd) * coinValue.
func CheckConservation(players []Player, coinValue float64) (float64, bool) {
	var totalStart, totalEnd float64
	for _, p := range players {
		totalStart += p.StartStack
		totalEnd += p.EndStack
	}
	if totalStart != totalEnd {
		return (totalStart - totalEnd) * coinValue, false
	}
	return 0, true
}

// ComputeResults converts every player's stacks to money, in roster order.
// Blank names are replaced by "Player N".
func ComputeResults(players []Player, coinValue float64) []PlayerResult {
	results := make([]PlayerResult, 0, len(players))
	for i, p := range players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		startingValue := p.StartStack * coinValue
		endingValue := p.EndStack * coinValue
		results = append(results, PlayerResult{
			Name:          name,
			StartStack:    p.StartStack,
			EndStack:      p.EndStack,
			StartingValue: startingValue,
			EndingValue:   endingValue,
			Result:        endingValue - startingValue,
		})
	}
	return results
}

// MatchPayouts settles winners against losers greedily. Both sides are walked
// in roster order: every winner collects from the losers in turn until the
// winner is paid in full. The pairing is deterministic but does not minimise
// the number of transfers.
func MatchPayouts(results []PlayerResult) []Payout {
	type balance struct {
		name      string
		remaining float64
	}

	var winners, losers []*balance
	for _, r := range results {
		switch {
		case r.Result > 0:
			winners = append(winners, &balance{name: r.Name, remaining: r.Result})
		case r.Result < 0:
			losers = append(losers, &balance{name: r.Name, remaining: r.Result})
		}
	}

	payouts := []Payout{}
	for _, w := range winners {
		for _, l := range losers {
			amount := math.Min(w.remaining, math.Abs(l.remaining))
			if amount <= 0 {
				continue
			}
			payouts = append(payouts, Payout{From: l.name, To: w.name, Amount: amount})
			w.remaining -= amount
			l.remaining += amount
		}
	}
	return payouts
}

// ComputePotValue is the money value of all chips on the table at the end.
func ComputePotValue(players []Player, coinValue float64) float64 {
	var totalEnd float64
	for _, p := range players {
		totalEnd += p.EndStack
	}
	return totalEnd * coinValue
}

// Settle runs a full settlement. A conservation failure is returned as a
// *DiscrepancyError and nothing else is computed. An empty roster settles to
// an empty result with a zero pot.
func Settle(players []Player, coinValue float64, currency CurrencyUnit) (*Result, error) {
	if err := checkFinite(players, coinValue); err != nil {
		return nil, err
	}

	if err := checkTotals(players); err != nil {
		return nil, err
	}

	if discrepancy, ok := CheckConservation(players, coinValue); !ok {
		if !isFinite(discrepancy) {
			return nil, fmt.Errorf("discrepancy: %w", ErrNonFinite)
		}
		return nil, &DiscrepancyError{Amount: discrepancy}
	}

	playerResults := ComputeResults(players, coinValue)
	potValue := ComputePotValue(players, coinValue)
	if err := checkValues(playerResults, potValue); err != nil {
		return nil, err
	}

	return &Result{
		PlayerResults: playerResults,
		Payouts:       MatchPayouts(playerResults),
		PotValue:      potValue,
		Currency:      currency,
	}, nil
}

func checkFinite(players []Player, coinValue float64) error {
	if !isFinite(coinValue) {
		return fmt.Errorf("coin value: %w", ErrNonFinite)
	}
	for i, p := range players {
		if !isFinite(p.StartStack) {
			return fmt.Errorf("player %d start stack: %w", i+1, ErrNonFinite)
		}
		if !isFinite(p.EndStack) {
			return fmt.Errorf("player %d end stack: %w", i+1, ErrNonFinite)
		}
	}
	return nil
}

// Large but finite stacks can still overflow once summed.
func checkTotals(players []Player) error {
	var totalStart, totalEnd float64
	for _, p := range players {
		totalStart += p.StartStack
		totalEnd += p.EndStack
	}
	if !isFinite(totalStart) || !isFinite(totalEnd) {
		return fmt.Errorf("stack totals: %w", ErrNonFinite)
	}
	return nil
}

// checkValues rejects results whose money values overflowed when multiplied
// by the coin value. A NaN result is neither a winner nor a loser and would
// drop out of the payouts.
func checkValues(results []PlayerResult, potValue float64) error {
	for i, r := range results {
		if !isFinite(r.StartingValue) || !isFinite(r.EndingValue) || !isFinite(r.Result) {
			return fmt.Errorf("player %d value: %w", i+1, ErrNonFinite)
		}
	}
	if !isFinite(potValue) {
		return fmt.Errorf("pot value: %w", ErrNonFinite)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
