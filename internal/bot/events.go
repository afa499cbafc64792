package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/susu3304/pokerpal/internal/commands"
)

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info().Str("user", event.User.Username).Msg("connected")

	// Register commands for all guilds
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			b.logger.Error().Err(err).Str("guild_id", guild.ID).Msg("failed to register commands")
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	b.logger.Info().Str("guild", event.Name).Str("guild_id", event.ID).Msg("guild available, ensuring commands")
	if err := b.registerGuildCommands(event.ID); err != nil {
		b.logger.Error().Err(err).Str("guild_id", event.ID).Msg("failed to register commands")
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	cmds := commands.GetCommands(b.poker.Games != nil)
	// Replaces whatever was registered before
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}

	b.logger.Debug().Str("guild_id", guildID).Msg("registered application commands")
	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "poker":
		b.poker.Handle(s, i)
	}
}
