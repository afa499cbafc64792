package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/pokerpal/internal/settlement"
)

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DEFAULT_CURRENCY", "PUBLIC_BASE_URL", "TOKEN_TTL", "SAVE_TIMEOUT", "CACHE_TTL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestSettleFromFlags(t *testing.T) {
	cleanEnv(t)

	var out bytes.Buffer
	cmd := &SettleCmd{
		Players: []string{"Alice:1000:1500", "Bob:1000:500"},
		Coin:    0.01,
	}
	require.NoError(t, cmd.Run(&out))
	assert.Contains(t, out.String(), "Total Pot: €20.00")
	assert.Contains(t, out.String(), "Bob should pay Alice €5.00")
}

func TestSettleFromFile(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), "friday.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
coin_value = 0.5
buy_in     = 100

player "Alice" {
  end = 150
}
`), 0o600))

	var out bytes.Buffer
	cmd := &SettleCmd{File: path, Players: []string{"Bob 100 50"}, Currency: "gbp"}
	require.NoError(t, cmd.Run(&out))
	assert.Contains(t, out.String(), "Bob should pay Alice £25.00")
}

func TestSettleReportsDiscrepancy(t *testing.T) {
	cleanEnv(t)

	var out bytes.Buffer
	cmd := &SettleCmd{Players: []string{"Alice:100:150", "Bob:100:54"}, Coin: 0.5}
	err := cmd.Run(&out)

	var discrepancy *settlement.DiscrepancyError
	require.True(t, errors.As(err, &discrepancy))
	assert.Contains(t, out.String(), "Discrepancy: €2.00")
}

func TestSettleValidation(t *testing.T) {
	cleanEnv(t)

	tests := []struct {
		name string
		cmd  SettleCmd
		want string
	}{
		{name: "no input", cmd: SettleCmd{}, want: "--file or at least one --player"},
		{name: "no coin", cmd: SettleCmd{Players: []string{"A:1:1"}}, want: "coin value"},
		{name: "bad currency", cmd: SettleCmd{Players: []string{"A:1:1"}, Coin: 1, Currency: "XBT"}, want: "unsupported currency"},
		{name: "bad stack", cmd: SettleCmd{Players: []string{"A:x:1"}, Coin: 1}, want: "invalid start stack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(&bytes.Buffer{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCLIParsesSettleFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"settle", "--player", "Alice:1000:1500", "-p", "Bob:1000:500", "--coin", "0.01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice:1000:1500", "Bob:1000:500"}, cli.Settle.Players)
	assert.Equal(t, 0.01, cli.Settle.Coin)
}

func TestCurrencies(t *testing.T) {
	cleanEnv(t)

	var out bytes.Buffer
	require.NoError(t, (&CurrenciesCmd{}).Run(&out))
	assert.Contains(t, out.String(), "EUR")
	assert.Contains(t, out.String(), "(default)")
	assert.Contains(t, out.String(), "Swiss Franc")
}
