package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a money value with two decimals. Rounding happens only
// here; the engine keeps full precision.
func FormatAmount(v float64) string {
	if !isFinite(v) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatMoney prefixes the currency symbol, e.g. "€5.00" or "-€5.00".
func FormatMoney(c CurrencyUnit, v float64) string {
	if v < 0 && FormatAmount(-v) != "0.00" {
		return "-" + c.Symbol + FormatAmount(-v)
	}
	return c.Symbol + FormatAmount(abs(v))
}

// FormatSignedMoney is FormatMoney with a leading "+" for winnings.
func FormatSignedMoney(c CurrencyUnit, v float64) string {
	if v > 0 {
		return "+" + FormatMoney(c, v)
	}
	return FormatMoney(c, v)
}

// Describe renders the payout as a sentence, e.g. "Bob should pay Alice €5.00".
func (p Payout) Describe(c CurrencyUnit) string {
	return fmt.Sprintf("%s should pay %s %s", p.From, p.To, FormatMoney(c, p.Amount))
}

// Describe renders the discrepancy notice shown before a settlement can run.
func (e *DiscrepancyError) Describe(c CurrencyUnit) string {
	return fmt.Sprintf("The starting and ending stacks are not equal. Discrepancy: %s. Adjust values before calculating.",
		FormatMoney(c, abs(e.Amount)))
}

// DescribePayouts renders every payout of a result in order.
func (r *Result) DescribePayouts() []string {
	lines := make([]string, 0, len(r.Payouts))
	for _, p := range r.Payouts {
		lines = append(lines, p.Describe(r.Currency))
	}
	return lines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
