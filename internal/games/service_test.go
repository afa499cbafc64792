package games

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/settlement"
)

type memStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]db.Game
	block bool
}

func newMemStore() *memStore {
	return &memStore{games: make(map[uuid.UUID]db.Game)}
}

func (m *memStore) InsertGame(ctx context.Context, g *db.Game) (*db.Game, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *g
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now()
	m.games[saved.ID] = saved
	return &saved, nil
}

func (m *memStore) GameByID(ctx context.Context, id uuid.UUID) (*db.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &g, nil
}

func (m *memStore) ListGamesByUser(ctx context.Context, userID uuid.UUID) ([]db.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Game{}
	for _, g := range m.games {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayedAt.After(out[j].PlayedAt) })
	return out, nil
}

func (m *memStore) RenameGame(ctx context.Context, userID, id uuid.UUID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok || g.UserID != userID {
		return db.ErrNotFound
	}
	g.Title = title
	m.games[id] = g
	return nil
}

func (m *memStore) DeleteGame(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok || g.UserID != userID {
		return db.ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func fridayNight() SaveRequest {
	return SaveRequest{
		Title:      "  Friday Night Game ",
		PlayedAt:   time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC),
		CoinValue:  0.01,
		BuyInValue: 1000,
		Players: []settlement.RawPlayer{
			{Name: "Alice", StartStack: "1000", EndStack: "1500"},
			{Name: "", StartStack: "1000", EndStack: "500"},
		},
	}
}

func TestSaveStoresSettlement(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Second, settlement.DefaultCurrency)
	userID := uuid.New()

	game, err := svc.Save(context.Background(), userID, fridayNight())
	require.NoError(t, err)

	assert.Equal(t, "Friday Night Game", game.Title)
	assert.Equal(t, userID, game.UserID)
	assert.Equal(t, "EUR", game.Currency.Code)
	assert.InDelta(t, 20.0, game.PotValue, 1e-9)
	require.Len(t, game.Results, 2)
	assert.Equal(t, "Player 2", game.Results[1].Name)
	require.Len(t, game.Payouts, 1)
	assert.Equal(t, "Player 2 should pay Alice €5.00", game.Payouts[0].Describe(game.Currency))

	assert.Equal(t, 1000.0, game.Settings.BuyInValue)
	assert.Equal(t, "Anonymous", game.Settings.Players[1].Name)

	got, err := svc.Get(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.Title, got.Title)
}

func TestSaveSnapshotsBlankStacksAsZero(t *testing.T) {
	svc := NewService(newMemStore(), time.Second, settlement.DefaultCurrency)
	req := fridayNight()
	req.Players = append(req.Players, settlement.RawPlayer{Name: "Carol"})

	game, err := svc.Save(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, settlement.RawPlayer{Name: "Carol", StartStack: "0", EndStack: "0"}, game.Settings.Players[2])
}

func TestSaveValidation(t *testing.T) {
	svc := NewService(newMemStore(), time.Second, settlement.DefaultCurrency)
	ctx := context.Background()

	_, err := svc.Save(ctx, uuid.Nil, fridayNight())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	req := fridayNight()
	req.Title = "   "
	_, err = svc.Save(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrTitleRequired)

	req = fridayNight()
	req.Players = nil
	_, err = svc.Save(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrNoResults)

	req = fridayNight()
	req.Currency = "XBT"
	_, err = svc.Save(ctx, uuid.New(), req)
	var invalid *settlement.InvalidInputError
	assert.True(t, errors.As(err, &invalid))

	req = fridayNight()
	req.Players[0].EndStack = "1700"
	_, err = svc.Save(ctx, uuid.New(), req)
	var discrepancy *settlement.DiscrepancyError
	require.True(t, errors.As(err, &discrepancy))
	assert.InDelta(t, -2.0, discrepancy.Amount, 1e-9)
}

func TestSaveTimesOut(t *testing.T) {
	store := newMemStore()
	store.block = true
	svc := NewService(store, 10*time.Millisecond, settlement.DefaultCurrency)

	_, err := svc.Save(context.Background(), uuid.New(), fridayNight())
	assert.ErrorIs(t, err, ErrSaveTimeout)
}

func TestListRenameDelete(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Second, settlement.DefaultCurrency)
	ctx := context.Background()
	owner := uuid.New()

	older := fridayNight()
	older.Title = "Older"
	older.PlayedAt = older.PlayedAt.Add(-7 * 24 * time.Hour)
	_, err := svc.Save(ctx, owner, older)
	require.NoError(t, err)
	newer, err := svc.Save(ctx, owner, fridayNight())
	require.NoError(t, err)
	_, err = svc.Save(ctx, uuid.New(), fridayNight())
	require.NoError(t, err)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Friday Night Game", list[0].Title)
	assert.Equal(t, "Older", list[1].Title)

	assert.ErrorIs(t, svc.Rename(ctx, owner, newer.ID, " "), ErrTitleRequired)
	require.NoError(t, svc.Rename(ctx, owner, newer.ID, "Renamed"))
	got, err := svc.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), newer.ID), db.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, owner, newer.ID))
	_, err = svc.Get(ctx, newer.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestResultRebuildsSettlement(t *testing.T) {
	svc := NewService(newMemStore(), time.Second, settlement.DefaultCurrency)
	game, err := svc.Save(context.Background(), uuid.New(), fridayNight())
	require.NoError(t, err)

	res := Result(game)
	assert.Equal(t, game.Payouts, res.Payouts)
	assert.Equal(t, []string{"Player 2 should pay Alice €5.00"}, res.DescribePayouts())
}

type mapCache struct {
	mu    sync.Mutex
	games map[uuid.UUID]db.Game
	hits  int
}

func (c *mapCache) Get(ctx context.Context, id uuid.UUID) (*db.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.games[id]
	if ok {
		c.hits++
	}
	return &g, ok
}

func (c *mapCache) Set(ctx context.Context, g *db.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[g.ID] = *g
}

func (c *mapCache) Delete(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.games, id)
}

func TestGetUsesCacheAndRenameInvalidates(t *testing.T) {
	cache := &mapCache{games: make(map[uuid.UUID]db.Game)}
	svc := NewService(newMemStore(), time.Second, settlement.DefaultCurrency).WithCache(cache)
	ctx := context.Background()
	owner := uuid.New()

	game, err := svc.Save(ctx, owner, fridayNight())
	require.NoError(t, err)

	_, err = svc.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)

	_, err = svc.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	require.NoError(t, svc.Rename(ctx, owner, game.ID, "Renamed"))
	got, err := svc.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 1, cache.hits)

	require.NoError(t, svc.Delete(ctx, owner, game.ID))
	_, err = svc.Get(ctx, game.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
