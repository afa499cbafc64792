package settlement

import "strings"

// CurrencyUnit describes the currency a game is played for. It carries no
// conversion logic; chips are converted with the coin value.
type CurrencyUnit struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var supportedCurrencies = []CurrencyUnit{
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "CHF", Symbol: "CHF ", Name: "Swiss Franc"},
	{Code: "SEK", Symbol: "kr ", Name: "Swedish Krona"},
	{Code: "NOK", Symbol: "kr ", Name: "Norwegian Krone"},
	{Code: "DKK", Symbol: "kr ", Name: "Danish Krone"},
}

// DefaultCurrency is used when no currency is selected.
var DefaultCurrency = supportedCurrencies[0]

// Currencies returns the supported currencies in display order.
func Currencies() []CurrencyUnit {
	out := make([]CurrencyUnit, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// LookupCurrency finds a supported currency by ISO code, ignoring case.
func LookupCurrency(code string) (CurrencyUnit, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range supportedCurrencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyUnit{}, false
}
