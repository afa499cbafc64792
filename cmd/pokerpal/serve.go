package main

import (
	"context"
	"time"

	"github.com/susu3304/pokerpal/internal/account"
	"github.com/susu3304/pokerpal/internal/api"
	"github.com/susu3304/pokerpal/internal/bot"
	"github.com/susu3304/pokerpal/internal/cache"
	"github.com/susu3304/pokerpal/internal/commands"
	"github.com/susu3304/pokerpal/internal/config"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/games"
	"github.com/susu3304/pokerpal/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ServeCmd is configured through the environment, see internal/config.
type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := signalContext(logger)

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		return err
	}

	gameService := games.NewService(database, cfg.SaveTimeout, cfg.DefaultCurrency)
	if cfg.CacheEnabled() {
		gameCache, err := cache.New(cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			return err
		}
		defer gameCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := gameCache.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, shared games will be read from the database")
		}
		cancel()
		gameService.WithCache(gameCache)
	}

	apiServer := api.New(cfg, logger, account.NewService(database), gameService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Run(gctx)
	})

	if cfg.DiscordBotEnabled() {
		discordBot, err := bot.New(cfg.DiscordToken, &commands.Poker{
			Games:           gameService,
			DefaultCurrency: cfg.DefaultCurrency,
			PublicBaseURL:   cfg.PublicBaseURL,
			Logger:          logger,
		}, logger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := discordBot.Start(); err != nil {
				return err
			}
			<-gctx.Done()
			return discordBot.Stop()
		})
	} else {
		logger.Info().Msg("DISCORD_TOKEN not set, Discord bot disabled")
	}

	err = g.Wait()
	logger.Info().Msg("Shut down")
	return err
}
