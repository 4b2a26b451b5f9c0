package httpapi

import (
	"net/http"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
)

type settleRequest struct {
	Matchday int `json:"matchday" validate:"gte=0,lte=38"`
}

func (h *Handler) GetMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchday")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	view, err := h.matchdayService.MatchdayStatus(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) LockMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockMatchday")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	view, err := h.matchdayService.LockMatchday(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "lock matchday failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) UnlockMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockMatchday")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	view, err := h.matchdayService.UnlockMatchday(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "unlock matchday failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) SettleMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleMatchday")
	defer span.End()

	leagueID := r.PathValue("leagueID")

	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.matchdayService.SettleMatchday(ctx, leagueID, req.Matchday)
	if err != nil {
		h.logger.ErrorContext(ctx, "settle matchday failed",
			"league_id", leagueID, "matchday", req.Matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) LockAllMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockAllMatchdays")
	defer span.End()

	result, err := h.matchdayService.LockAllLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "lock all leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UnlockAllMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockAllMatchdays")
	defer span.End()

	result, err := h.matchdayService.UnlockAllLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "unlock all leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SettleAllMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleAllMatchdays")
	defer span.End()

	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.matchdayService.SettleAllLeagues(ctx, req.Matchday)
	if err != nil {
		h.logger.ErrorContext(ctx, "settle all leagues failed", "matchday", req.Matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, results)
}

type betPreviewDTO struct {
	Bet         betDTO     `json:"bet"`
	Outcome     bet.Status `json:"outcome"`
	Resolved    bool       `json:"resolved"`
	NeedsReview bool       `json:"needsReview,omitempty"`
}

func (h *Handler) ListLiveBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveBets")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	matchday, err := pathMatchday(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	previews, err := h.matchdayService.PreviewBets(ctx, leagueID, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "live bets preview failed",
			"league_id", leagueID, "matchday", matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]betPreviewDTO, 0, len(previews))
	for _, preview := range previews {
		items = append(items, betPreviewDTO{
			Bet:         betToDTO(preview.Bet),
			Outcome:     preview.Outcome,
			Resolved:    preview.Resolved,
			NeedsReview: preview.NeedsReview,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
