package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/susu3304/pokerpal/internal/account"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/games"
	"github.com/susu3304/pokerpal/internal/settlement"
	"github.com/susu3304/pokerpal/internal/share"
)

type settleRequest struct {
	Players   []settlement.RawPlayer `json:"players"`
	CoinValue json.Number            `json:"coinValue"`
	Currency  string                 `json:"currency"`
}

type settleResponse struct {
	*settlement.Result
	PayoutLines []string `json:"payoutLines"`
	ShareText   string   `json:"shareText"`
}

type discrepancyResponse struct {
	Error       string  `json:"error"`
	Discrepancy float64 `json:"discrepancy"`
	Formatted   string  `json:"formatted"`
}

type gameResponse struct {
	*db.Game
	PayoutLines []string `json:"payoutLines"`
	URL         string   `json:"url"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default":    a.config.DefaultCurrency,
		"currencies": settlement.Currencies(),
	})
}

func (a *API) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	currency, err := a.resolveCurrency(req.Currency)
	if err != nil {
		a.writeSettleError(w, err, currency)
		return
	}

	coinValue, err := settlement.ParseCoinValue(req.CoinValue.String())
	if err == nil && coinValue <= 0 {
		err = &settlement.InvalidInputError{Field: "coin value", Value: req.CoinValue.String()}
	}
	if err != nil {
		a.writeSettleError(w, err, currency)
		return
	}

	players, err := settlement.ParsePlayers(req.Players)
	if err != nil {
		a.writeSettleError(w, err, currency)
		return
	}

	result, err := settlement.Settle(players, coinValue, currency)
	if err != nil {
		a.writeSettleError(w, err, currency)
		return
	}

	writeJSON(w, http.StatusOK, settleResponse{
		Result:      result,
		PayoutLines: result.DescribePayouts(),
		ShareText:   share.Text(result, ""),
	})
}

// Public handlers
func (a *API) handlePublicGame(w http.ResponseWriter, r *http.Request) {
	game, ok := a.loadGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.gameResponse(game))
}

func (a *API) handleShareGame(w http.ResponseWriter, r *http.Request) {
	game, ok := a.loadGame(w, r)
	if !ok {
		return
	}
	gameURL := share.GameURL(a.config.PublicBaseURL, game.ID.String())
	writeJSON(w, http.StatusOK, share.NewLinks(games.Result(game), gameURL))
}

// Protected handlers
func (a *API) handleListGames(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimsFromContext(r.Context()).UserUUID()

	list, err := a.games.List(r.Context(), userID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimsFromContext(r.Context()).UserUUID()

	var req games.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CoinValue <= 0 {
		writeError(w, http.StatusBadRequest, "coin value must be greater than zero")
		return
	}

	game, err := a.games.Save(r.Context(), userID, req)
	if err != nil {
		currency, _ := a.resolveCurrency(req.Currency)
		a.writeSettleError(w, err, currency)
		return
	}

	a.logger.Info().
		Str("game_id", game.ID.String()).
		Str("user_id", userID.String()).
		Int("players", len(game.Results)).
		Msg("game saved")
	writeJSON(w, http.StatusCreated, a.gameResponse(game))
}

func (a *API) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, ok := a.loadGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.gameResponse(game))
}

func (a *API) handleRenameGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimsFromContext(r.Context()).UserUUID()
	id, ok := parseGameID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.games.Rename(r.Context(), userID, id, req.Title); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "game renamed",
	})
}

func (a *API) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := claimsFromContext(r.Context()).UserUUID()
	id, ok := parseGameID(w, r)
	if !ok {
		return
	}

	if err := a.games.Delete(r.Context(), userID, id); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "game deleted",
	})
}

func (a *API) loadGame(w http.ResponseWriter, r *http.Request) (*db.Game, bool) {
	id, ok := parseGameID(w, r)
	if !ok {
		return nil, false
	}
	game, err := a.games.Get(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err)
		return nil, false
	}
	return game, true
}

func parseGameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) gameResponse(game *db.Game) gameResponse {
	return gameResponse{
		Game:        game,
		PayoutLines: games.Result(game).DescribePayouts(),
		URL:         share.GameURL(a.config.PublicBaseURL, game.ID.String()),
	}
}

func (a *API) resolveCurrency(code string) (settlement.CurrencyUnit, error) {
	if code == "" {
		return a.config.DefaultCurrency, nil
	}
	c, ok := settlement.LookupCurrency(code)
	if !ok {
		return a.config.DefaultCurrency, &settlement.InvalidInputError{Field: "currency", Value: code}
	}
	return c, nil
}

// writeSettleError renders a discrepancy with the amount the client needs to
// show; everything else goes through writeServiceError.
func (a *API) writeSettleError(w http.ResponseWriter, err error, currency settlement.CurrencyUnit) {
	var discrepancy *settlement.DiscrepancyError
	if errors.As(err, &discrepancy) {
		writeJSON(w, http.StatusUnprocessableEntity, discrepancyResponse{
			Error:       discrepancy.Describe(currency),
			Discrepancy: discrepancy.Amount,
			Formatted:   settlement.FormatMoney(currency, math.Abs(discrepancy.Amount)),
		})
		return
	}
	a.writeServiceError(w, err)
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var invalid *settlement.InvalidInputError
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, settlement.ErrNonFinite),
		errors.Is(err, games.ErrTitleRequired),
		errors.Is(err, games.ErrNoResults),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, games.ErrNotLoggedIn),
		errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, games.ErrSaveTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		a.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
