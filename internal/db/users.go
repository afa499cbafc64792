package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	DiscordID    string    `json:"discordId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

const userColumns = `id, COALESCE(email, ''), password_hash, display_name, COALESCE(discord_id, ''), created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.DiscordID, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an email/password account.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*User, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		uuid.New(), email, passwordHash, displayName,
	)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
}

func (db *DB) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
}

// UpsertDiscordUser finds or creates the account linked to a Discord user and
// refreshes its display name.
func (db *DB) UpsertDiscordUser(ctx context.Context, discordID, displayName string) (*User, error) {
	return scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (id, discord_id, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (discord_id) DO UPDATE SET display_name = EXCLUDED.display_name
		 RETURNING `+userColumns,
		uuid.New(), discordID, displayName,
	))
}
