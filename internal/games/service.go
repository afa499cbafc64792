package games

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/settlement"
)

var (
	ErrTitleRequired = errors.New("please enter a title for the game")
	ErrNoResults     = errors.New("no player results to save")
	ErrNotLoggedIn   = errors.New("you must be logged in to save games")
	ErrSaveTimeout   = errors.New("save operation took too long, please try again")
)

// Store is the persistence needed by Service. *db.DB satisfies it.
type Store interface {
	InsertGame(ctx context.Context, g *db.Game) (*db.Game, error)
	GameByID(ctx context.Context, id uuid.UUID) (*db.Game, error)
	ListGamesByUser(ctx context.Context, userID uuid.UUID) ([]db.Game, error)
	RenameGame(ctx context.Context, userID, id uuid.UUID, title string) error
	DeleteGame(ctx context.Context, userID, id uuid.UUID) error
}

// SaveRequest carries the setup inputs of a game as the user typed them.
type SaveRequest struct {
	Title      string                 `json:"title"`
	PlayedAt   time.Time              `json:"date"`
	CoinValue  float64                `json:"coinValue"`
	BuyInValue float64                `json:"buyInValue"`
	Currency   string                 `json:"currency"`
	Players    []settlement.RawPlayer `json:"players"`
}

// Cache holds recently read games. *cache.GameCache satisfies it.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*db.Game, bool)
	Set(ctx context.Context, g *db.Game)
	Delete(ctx context.Context, id uuid.UUID)
}

type Service struct {
	store       Store
	cache       Cache
	saveTimeout time.Duration
	currency    settlement.CurrencyUnit
	now         func() time.Time
}

func NewService(store Store, saveTimeout time.Duration, defaultCurrency settlement.CurrencyUnit) *Service {
	return &Service{
		store:       store,
		saveTimeout: saveTimeout,
		currency:    defaultCurrency,
		now:         time.Now,
	}
}

// WithCache puts c in front of game reads.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Save settles the roster again on the server and stores the outcome. A
// roster that does not conserve chips is rejected with the
// *settlement.DiscrepancyError.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (*db.Game, error) {
	if userID == uuid.Nil {
		return nil, ErrNotLoggedIn
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	currency, err := s.resolveCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	players, err := settlement.ParsePlayers(req.Players)
	if err != nil {
		return nil, err
	}
	result, err := settlement.Settle(players, req.CoinValue, currency)
	if err != nil {
		return nil, err
	}
	if len(result.PlayerResults) == 0 {
		return nil, ErrNoResults
	}

	playedAt := req.PlayedAt
	if playedAt.IsZero() {
		playedAt = s.now()
	}

	game := &db.Game{
		UserID:   userID,
		Title:    title,
		PlayedAt: playedAt.UTC(),
		PotValue: result.PotValue,
		Currency: currency,
		Results:  result.PlayerResults,
		Payouts:  result.Payouts,
		Settings: snapshotSettings(req),
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	saved, err := s.store.InsertGame(saveCtx, game)
	if err != nil {
		if errors.Is(saveCtx.Err(), context.DeadlineExceeded) {
			return nil, ErrSaveTimeout
		}
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	return saved, nil
}

// List returns the games of a user, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]db.Game, error) {
	return s.store.ListGamesByUser(ctx, userID)
}

// Get returns any game by id. Games are readable by anyone holding the link.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*db.Game, error) {
	if s.cache != nil {
		if g, ok := s.cache.Get(ctx, id); ok {
			return g, nil
		}
	}
	g, err := s.store.GameByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, g)
	}
	return g, nil
}

func (s *Service) Rename(ctx context.Context, userID, id uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if err := s.store.RenameGame(ctx, userID, id, title); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.DeleteGame(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
}

// Result rebuilds the settlement result stored with a game.
func Result(g *db.Game) *settlement.Result {
	return &settlement.Result{
		PlayerResults: g.Results,
		Payouts:       g.Payouts,
		PotValue:      g.PotValue,
		Currency:      g.Currency,
	}
}

func (s *Service) resolveCurrency(code string) (settlement.CurrencyUnit, error) {
	if strings.TrimSpace(code) == "" {
		return s.currency, nil
	}
	c, ok := settlement.LookupCurrency(code)
	if !ok {
		return settlement.CurrencyUnit{}, &settlement.InvalidInputError{Field: "currency", Value: code}
	}
	return c, nil
}

func snapshotSettings(req SaveRequest) db.GameSettings {
	players := make([]settlement.RawPlayer, 0, len(req.Players))
	for _, p := range req.Players {
		snap := settlement.RawPlayer{
			Name:       strings.TrimSpace(p.Name),
			StartStack: strings.TrimSpace(p.StartStack),
			EndStack:   strings.TrimSpace(p.EndStack),
		}
		if snap.Name == "" {
			snap.Name = "Anonymous"
		}
		if snap.StartStack == "" {
			snap.StartStack = "0"
		}
		if snap.EndStack == "" {
			snap.EndStack = "0"
		}
		players = append(players, snap)
	}
	return db.GameSettings{
		CoinValue:  req.CoinValue,
		BuyInValue: req.BuyInValue,
		Players:    players,
	}
}
