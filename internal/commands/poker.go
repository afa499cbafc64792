package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/games"
	"github.com/susu3304/pokerpal/internal/roster"
	"github.com/susu3304/pokerpal/internal/settlement"
	"github.com/susu3304/pokerpal/internal/share"
)

// Interactions must be answered within three seconds.
const lookupTimeout = 2 * time.Second

// Poker serves the /poker command.
type Poker struct {
	Games           *games.Service // nil without a database
	DefaultCurrency settlement.CurrencyUnit
	PublicBaseURL   string
	Logger          zerolog.Logger
}

func (p *Poker) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		respondText(s, i, "Please choose a subcommand.")
		return
	}

	sub := options[0]
	var reply string
	switch sub.Name {
	case "settle":
		reply = p.settleMessage(
			getStringOption(sub.Options, "players"),
			getNumberOption(sub.Options, "coin"),
			getStringOption(sub.Options, "currency"),
		)
	case "currencies":
		reply = currenciesMessage(p.DefaultCurrency)
	case "game":
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		reply = p.gameMessage(ctx, getStringOption(sub.Options, "id"))
	default:
		reply = "Unknown subcommand."
	}

	if err := respondChunks(s, i, share.Chunks(reply, share.DiscordMessageLimit)); err != nil {
		p.Logger.Warn().Err(err).Str("subcommand", sub.Name).Msg("failed to respond to interaction")
	}
}

func (p *Poker) settleMessage(playersText string, coinValue float64, currencyCode string) string {
	currency := p.DefaultCurrency
	if currencyCode != "" {
		c, ok := settlement.LookupCurrency(currencyCode)
		if !ok {
			return fmt.Sprintf("Unsupported currency %q.", currencyCode)
		}
		currency = c
	}
	if coinValue <= 0 {
		return "The coin value must be greater than zero."
	}

	raw, err := roster.ParseInline(playersText)
	if err != nil {
		return "Could not read the players: " + err.Error() + `. Use "Name start end, Name start end".`
	}
	players, err := settlement.ParsePlayers(raw)
	if err != nil {
		return "Could not read the players: " + err.Error() + "."
	}
	if len(players) == 0 {
		return "Add at least one player."
	}

	result, err := settlement.Settle(players, coinValue, currency)
	var discrepancy *settlement.DiscrepancyError
	switch {
	case errors.As(err, &discrepancy):
		return discrepancy.Describe(currency)
	case err != nil:
		return "Could not settle the game: " + err.Error() + "."
	}

	return share.Text(result, "")
}

func (p *Poker) gameMessage(ctx context.Context, rawID string) string {
	if p.Games == nil {
		return "Saved games are not available."
	}
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return "That is not a valid game id."
	}

	game, err := p.Games.Get(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return "Game not found."
	}
	if err != nil {
		p.Logger.Error().Err(err).Str("game_id", id.String()).Msg("failed to load game")
		return "Could not load the game, please try again."
	}

	return fmt.Sprintf("**%s** (%s)\n%s", game.Title, game.PlayedAt.Format("2006-01-02"),
		share.Text(games.Result(game), share.GameURL(p.PublicBaseURL, game.ID.String())))
}

func currenciesMessage(def settlement.CurrencyUnit) string {
	var b strings.Builder
	b.WriteString("Supported currencies:\n")
	for _, c := range settlement.Currencies() {
		fmt.Fprintf(&b, "%s %s (%s)", c.Code, strings.TrimSpace(c.Symbol), c.Name)
		if c.Code == def.Code {
			b.WriteString(" - default")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
