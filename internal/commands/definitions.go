package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/susu3304/pokerpal/internal/settlement"
)

// GetCommands returns the application commands registered in every guild.
// The game subcommand needs saved games and is only offered with a database.
func GetCommands(withGames bool) []*discordgo.ApplicationCommand {
	currencyChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0)
	for _, c := range settlement.Currencies() {
		currencyChoices = append(currencyChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Code + " (" + c.Name + ")",
			Value: c.Code,
		})
	}

	subcommands := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "settle",
			Description: "Settle a game and post who pays whom",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "players",
					Description: "Name, start and end stack per player, e.g. \"Alice 1000 1500, Bob 1000 500\"",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "coin",
					Description: "Money value of one chip, e.g. 0.01",
					Required:    true,
					MinValue:    floatPtr(0.000001),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "currency",
					Description: "Currency of the payouts",
					Choices:     currencyChoices,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "currencies",
			Description: "List the supported currencies",
		},
	}

	if withGames {
		subcommands = append(subcommands, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "game",
			Description: "Post the results of a saved game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "Game id from the share link",
					Required:    true,
				},
			},
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "poker",
			Description: "Poker cash game settlement",
			Options:     subcommands,
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
