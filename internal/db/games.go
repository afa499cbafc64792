package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/susu3304/pokerpal/internal/settlement"
)

// Game is a saved settlement together with the inputs that produced it.
type Game struct {
	ID        uuid.UUID                 `json:"id"`
	UserID    uuid.UUID                 `json:"userId"`
	Title     string                    `json:"title"`
	PlayedAt  time.Time                 `json:"date"`
	PotValue  float64                   `json:"potValue"`
	Currency  settlement.CurrencyUnit   `json:"currency"`
	Results   []settlement.PlayerResult `json:"results"`
	Payouts   []settlement.Payout       `json:"payouts"`
	Settings  GameSettings              `json:"settings"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// GameSettings is the snapshot of the setup inputs, kept as typed.
type GameSettings struct {
	CoinValue  float64                `json:"coinValue"`
	BuyInValue float64                `json:"buyInValue"`
	Players    []settlement.RawPlayer `json:"players"`
}

const gameColumns = `id, user_id, title, played_at, pot_value, currency, results, payouts, settings, created_at`

func scanGame(row pgx.Row) (*Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.PlayedAt, &g.PotValue,
		&g.Currency, &g.Results, &g.Payouts, &g.Settings, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// InsertGame stores a game. ID and CreatedAt are assigned here.
func (db *DB) InsertGame(ctx context.Context, g *Game) (*Game, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	saved, err := scanGame(db.pool.QueryRow(ctx,
		`INSERT INTO games (id, user_id, title, played_at, pot_value, currency, results, payouts, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+gameColumns,
		g.ID, g.UserID, g.Title, g.PlayedAt, g.PotValue, g.Currency, g.Results, g.Payouts, g.Settings,
	))
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (db *DB) GameByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	g, err := scanGame(db.pool.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// ListGamesByUser returns a user's games, newest first.
func (db *DB) ListGamesByUser(ctx context.Context, userID uuid.UUID) ([]Game, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+gameColumns+` FROM games WHERE user_id = $1 ORDER BY played_at DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}

// RenameGame changes the title of a game owned by userID.
func (db *DB) RenameGame(ctx context.Context, userID, id uuid.UUID, title string) error {
	result, err := db.pool.Exec(ctx,
		"UPDATE games SET title = $3 WHERE id = $1 AND user_id = $2",
		id, userID, title,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame removes a game owned by userID.
func (db *DB) DeleteGame(ctx context.Context, userID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		"DELETE FROM games WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
