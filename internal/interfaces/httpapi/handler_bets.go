package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
	"github.com/marcosfdz/jornadabet/internal/usecase"
)

type betDTO struct {
	ID           string     `json:"id"`
	LeagueID     string     `json:"leagueId"`
	UserID       string     `json:"userId"`
	Matchday     int        `json:"matchday"`
	FixtureID    int64      `json:"fixtureId"`
	Market       string     `json:"market"`
	Label        string     `json:"label"`
	Odd          float64    `json:"odd"`
	Amount       int        `json:"amount"`
	PotentialWin int        `json:"potentialWin"`
	Status       bet.Status `json:"status"`
	CombiID      string     `json:"combiId,omitempty"`
}

type combiDTO struct {
	ID           string     `json:"id"`
	LeagueID     string     `json:"leagueId"`
	UserID       string     `json:"userId"`
	Matchday     int        `json:"matchday"`
	TotalOdd     float64    `json:"totalOdd"`
	Amount       int        `json:"amount"`
	PotentialWin int        `json:"potentialWin"`
	Status       bet.Status `json:"status"`
}

func betToDTO(b bet.Bet) betDTO {
	return betDTO{
		ID:           b.ID,
		LeagueID:     b.LeagueID,
		UserID:       b.UserID,
		Matchday:     b.Matchday,
		FixtureID:    b.FixtureID,
		Market:       b.Market,
		Label:        b.Label,
		Odd:          b.Odd,
		Amount:       b.Amount,
		PotentialWin: b.PotentialWin,
		Status:       b.Status,
		CombiID:      b.CombiID,
	}
}

func combiToDTO(c bet.Combi) combiDTO {
	return combiDTO{
		ID:           c.ID,
		LeagueID:     c.LeagueID,
		UserID:       c.UserID,
		Matchday:     c.Matchday,
		TotalOdd:     c.TotalOdd,
		Amount:       c.Amount,
		PotentialWin: c.PotentialWin,
		Status:       c.Status,
	}
}

type placeBetRequest struct {
	FixtureID int64   `json:"fixtureId" validate:"required,gt=0"`
	Market    string  `json:"market" validate:"required"`
	Label     string  `json:"label" validate:"required"`
	Odd       float64 `json:"odd" validate:"required,gt=1"`
	Amount    int     `json:"amount" validate:"required,gt=0"`
}

type combiLegRequest struct {
	FixtureID int64   `json:"fixtureId" validate:"required,gt=0"`
	Market    string  `json:"market" validate:"required"`
	Label     string  `json:"label" validate:"required"`
	Odd       float64 `json:"odd" validate:"required,gt=1"`
}

type placeCombiRequest struct {
	Amount int               `json:"amount" validate:"required,gt=0"`
	Legs   []combiLegRequest `json:"legs" validate:"required,min=2,dive"`
}

type updateBetRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) ListMyBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBets")
	defer span.End()

	userID, err := callerUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID := r.PathValue("leagueID")

	matchday := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("matchday")); raw != "" {
		matchday, err = strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: matchday must be a number, got %q", usecase.ErrInvalidInput, raw))
			return
		}
	}

	bets, err := h.betService.ListUserBets(ctx, leagueID, userID, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "list bets failed",
			"league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, item := range bets {
		items = append(items, betToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	userID, err := callerUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID := r.PathValue("leagueID")

	var req placeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.betService.PlaceBet(ctx, usecase.PlaceBetInput{
		LeagueID:  leagueID,
		UserID:    userID,
		FixtureID: req.FixtureID,
		Market:    req.Market,
		Label:     req.Label,
		Odd:       req.Odd,
		Amount:    req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place bet failed",
			"league_id", leagueID, "user_id", userID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(placed))
}

func (h *Handler) PlaceCombi(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceCombi")
	defer span.End()

	userID, err := callerUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID := r.PathValue("leagueID")

	var req placeCombiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	legs := make([]usecase.CombiLegInput, 0, len(req.Legs))
	for _, leg := range req.Legs {
		legs = append(legs, usecase.CombiLegInput{
			FixtureID: leg.FixtureID,
			Market:    leg.Market,
			Label:     leg.Label,
			Odd:       leg.Odd,
		})
	}

	placed, err := h.betService.PlaceCombi(ctx, usecase.PlaceCombiInput{
		LeagueID: leagueID,
		UserID:   userID,
		Amount:   req.Amount,
		Legs:     legs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place combi failed",
			"league_id", leagueID, "user_id", userID, "legs", len(req.Legs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, combiToDTO(placed))
}

func (h *Handler) UpdateBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBet")
	defer span.End()

	userID, err := callerUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID := r.PathValue("leagueID")
	betID := r.PathValue("betID")

	var req updateBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.betService.UpdateBetAmount(ctx, leagueID, userID, betID, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "update bet failed",
			"league_id", leagueID, "user_id", userID, "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(updated))
}

func (h *Handler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBet")
	defer span.End()

	userID, err := callerUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID := r.PathValue("leagueID")
	betID := r.PathValue("betID")

	if err := h.betService.DeleteBet(ctx, leagueID, userID, betID); err != nil {
		h.logger.WarnContext(ctx, "delete bet failed",
			"league_id", leagueID, "user_id", userID, "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
