package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/pokerpal/internal/settlement"
)

const fridayNight = `
coin_value = 0.5
currency   = "usd"
buy_in     = 100

player "Alice" {
  start = 100
  end   = 150
}

player "Bob" {
  end = 50
}

player "" {
  start = 0
  end   = 0
}
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(fridayNight), "friday.hcl")
	require.NoError(t, err)

	assert.Equal(t, 0.5, r.CoinValue)
	assert.Equal(t, "USD", r.Currency)
	assert.Equal(t, []settlement.Player{
		{Name: "Alice", StartStack: 100, EndStack: 150},
		{Name: "Bob", StartStack: 100, EndStack: 50},
		{Name: "", StartStack: 0, EndStack: 0},
	}, r.Players)

	res, err := r.Settle(settlement.DefaultCurrency)
	require.NoError(t, err)
	assert.Equal(t, "USD", res.Currency.Code)
	assert.Equal(t, "Player 3", res.PlayerResults[2].Name)
	assert.Equal(t, []string{"Bob should pay Alice $25.00"}, res.DescribePayouts())
}

func TestSettleFallsBackToDefaultCurrency(t *testing.T) {
	r, err := Parse([]byte(`
coin_value = 1
player "Alice" {
  start = 10
  end   = 10
}
`), "solo.hcl")
	require.NoError(t, err)

	res, err := r.Settle(settlement.DefaultCurrency)
	require.NoError(t, err)
	assert.Equal(t, "EUR", res.Currency.Code)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{name: "zero coin value", src: `coin_value = 0`, field: "coin value"},
		{name: "unknown currency", src: "coin_value = 1\ncurrency = \"XBT\"", field: "currency"},
		{name: "negative end", src: "coin_value = 1\nplayer \"A\" {\n  end = -5\n}", field: "end stack"},
		{name: "negative buy-in", src: "coin_value = 1\nbuy_in = -1", field: "buy-in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			var invalid *settlement.InvalidInputError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestParseRejectsMalformedHCL(t *testing.T) {
	_, err := Parse([]byte(`coin_value = `), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse roster")

	_, err = Parse([]byte(`player "A" {
  end = 1
}`), "missing.hcl")
	assert.ErrorContains(t, err, "failed to decode roster")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.hcl")
	require.NoError(t, os.WriteFile(path, []byte(fridayNight), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Players, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
