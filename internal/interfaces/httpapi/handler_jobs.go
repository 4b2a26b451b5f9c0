package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marcosfdz/jornadabet/internal/usecase"
)

const settleMatchdayJobPath = "/v1/internal/jobs/settle-matchday"

type settleJobRequest struct {
	LeagueID string `json:"leagueId"`
	Matchday int    `json:"matchday" validate:"gte=0,lte=38"`
}

type scheduleSettlementRequest struct {
	LeagueID     string `json:"leagueId"`
	Matchday     int    `json:"matchday" validate:"gte=0,lte=38"`
	DelaySeconds int    `json:"delaySeconds" validate:"gte=0"`
}

// RunSettleMatchdayJob is the QStash callback target. An empty league id
// settles every league, which is what the scheduled end-of-round job wants.
func (h *Handler) RunSettleMatchdayJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleMatchdayJob")
	defer span.End()

	var req settleJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if strings.TrimSpace(req.LeagueID) == "" {
		results, err := h.matchdayService.SettleAllLeagues(ctx, req.Matchday)
		if err != nil {
			h.logger.ErrorContext(ctx, "settle-matchday job failed", "matchday", req.Matchday, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, results)
		return
	}

	summary, err := h.matchdayService.SettleMatchday(ctx, req.LeagueID, req.Matchday)
	if err != nil {
		h.logger.ErrorContext(ctx, "settle-matchday job failed",
			"league_id", req.LeagueID, "matchday", req.Matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// ScheduleSettlementJob defers a settlement run through the queue, typically
// until after the round's last fixture.
func (h *Handler) ScheduleSettlementJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleSettlementJob")
	defer span.End()

	if h.jobPublisher == nil {
		writeError(ctx, w, fmt.Errorf("%w: job publisher is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req scheduleSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate(req); err != nil {
		writeError(ctx, w, err)
		return
	}

	delay := time.Duration(req.DelaySeconds) * time.Second
	deduplicationID := settlementDeduplicationID(req.LeagueID, req.Matchday)
	payload := settleJobRequest{LeagueID: req.LeagueID, Matchday: req.Matchday}

	if err := h.jobPublisher.Enqueue(ctx, settleMatchdayJobPath, payload, delay, deduplicationID); err != nil {
		h.logger.ErrorContext(ctx, "schedule settlement failed",
			"league_id", req.LeagueID, "matchday", req.Matchday, "delay_seconds", req.DelaySeconds, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]any{
		"scheduled":       true,
		"deduplicationId": deduplicationID,
		"delaySeconds":    req.DelaySeconds,
	})
}

func settlementDeduplicationID(leagueID string, matchday int) string {
	league := strings.TrimSpace(leagueID)
	if league == "" {
		league = "all"
	}
	return fmt.Sprintf("settle-%s-md%d", league, matchday)
}
