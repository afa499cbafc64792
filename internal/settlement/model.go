package settlement

import (
	"errors"
	"fmt"
)

// Player is one row of the table roster. Stacks are chip counts.
type Player struct {
	Name       string  `json:"name"`
	StartStack float64 `json:"startStack"`
	EndStack   float64 `json:"endStack"`
}

// PlayerResult is a player's outcome converted to money.
type PlayerResult struct {
	Name          string  `json:"name"`
	StartStack    float64 `json:"startStack"`
	EndStack      float64 `json:"endStack"`
	StartingValue float64 `json:"startingValue"`
	EndingValue   float64 `json:"endingValue"`
	Result        float64 `json:"result"`
}

// Payout is a transfer from a losing player to a winning one.
type Payout struct {
	From   string  `json:"fromPlayer"`
	To     string  `json:"toPlayer"`
	Amount float64 `json:"amount"`
}

// Result is the output of one settlement run.
type Result struct {
	PlayerResults []PlayerResult `json:"playerResults"`
	Payouts       []Payout       `json:"payouts"`
	PotValue      float64        `json:"potValue"`
	Currency      CurrencyUnit   `json:"currency"`
}

// ErrNonFinite is returned when a stack or the coin value is NaN or infinite.
var ErrNonFinite = errors.New("non-finite numeric input")

// DiscrepancyError reports that the chips at the end of the session do not
// match the chips at the start. Amount is (totalStart - totalEnd) * coinValue,
// so a positive amount means chips went missing.
type DiscrepancyError struct {
	Amount float64 `json:"amount"`
}

func (e *DiscrepancyError) Error() string {
	return fmt.Sprintf("stack discrepancy of %s: starting and ending stacks are not equal", FormatAmount(e.Amount))
}

// InvalidInputError describes a roster field that could not be parsed.
type InvalidInputError struct {
	Row   int // 1-based, 0 when not tied to a row
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("player %d: invalid %s %q", e.Row, e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}
