package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/susu3304/pokerpal/internal/account"
	"github.com/susu3304/pokerpal/internal/config"
	"github.com/susu3304/pokerpal/internal/games"
	"github.com/susu3304/pokerpal/internal/logging"
	"golang.org/x/oauth2"
)

const shutdownTimeout = 5 * time.Second

type API struct {
	router      *mux.Router
	config      *config.Config
	logger      zerolog.Logger
	accounts    *account.Service
	games       *games.Service
	issuer      *account.Issuer
	oauthConfig *oauth2.Config
	discordAPI  string
}

func New(cfg *config.Config, logger zerolog.Logger, accounts *account.Service, gameService *games.Service) *API {
	api := &API{
		router:     mux.NewRouter(),
		config:     cfg,
		logger:     logger,
		accounts:   accounts,
		games:      gameService,
		issuer:     account.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		discordAPI: "https://discord.com/api",
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		},
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")

	// Settlement
	a.router.HandleFunc("/api/currencies", a.handleCurrencies).Methods("GET")
	a.router.HandleFunc("/api/settle", a.handleSettle).Methods("POST")

	// Auth endpoints
	a.router.HandleFunc("/api/auth/signup", a.handleSignup).Methods("POST")
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("POST")
	a.router.HandleFunc("/api/auth/logout", a.handleLogout).Methods("POST")
	if a.config.DiscordOAuthEnabled() {
		a.router.HandleFunc("/api/auth/discord/login", a.handleDiscordLogin).Methods("GET")
		a.router.HandleFunc("/api/auth/discord/callback", a.handleDiscordCallback).Methods("GET")
	}

	// Public endpoints
	a.router.HandleFunc("/api/public/games/{id}", a.handlePublicGame).Methods("GET")
	a.router.HandleFunc("/api/public/games/{id}/share", a.handleShareGame).Methods("GET")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/me", a.handleMe).Methods("GET")
	protected.HandleFunc("/games", a.handleListGames).Methods("GET")
	protected.HandleFunc("/games", a.handleSaveGame).Methods("POST")
	protected.HandleFunc("/games/{id}", a.handleGetGame).Methods("GET")
	protected.HandleFunc("/games/{id}", a.handleRenameGame).Methods("PATCH")
	protected.HandleFunc("/games/{id}", a.handleDeleteGame).Methods("DELETE")
}

// Handler returns the router wrapped in CORS and request logging.
func (a *API) Handler() http.Handler {
	// Tokens travel in the Authorization header, so credentials stay off with
	// the wildcard origin.
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	return cors.New(corsOptions).Handler(logging.Middleware(a.logger)(a.router))
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.WebBind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.config.WebBind).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info().Msg("API server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
