package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMemberRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/matchday", handler.GetMatchday)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/bets/live/{matchday}", handler.ListLiveBets)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/bets", handler.ListMyBets)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/bets", handler.PlaceBet)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/combis", handler.PlaceCombi)
	mux.HandleFunc("PATCH /v1/leagues/{leagueID}/bets/{betID}", handler.UpdateBet)
	mux.HandleFunc("DELETE /v1/leagues/{leagueID}/bets/{betID}", handler.DeleteBet)
}

// registerAdminRoutes mounts the matchday lifecycle mutations behind the
// internal job token; the mobile client never calls these.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/leagues/{leagueID}/matchday/lock", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.LockMatchday)))
	mux.Handle("POST /v1/leagues/{leagueID}/matchday/unlock", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UnlockMatchday)))
	mux.Handle("POST /v1/leagues/{leagueID}/matchday/settle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleMatchday)))
	mux.Handle("POST /v1/matchdays/lock-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.LockAllMatchdays)))
	mux.Handle("POST /v1/matchdays/unlock-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UnlockAllMatchdays)))
	mux.Handle("POST /v1/matchdays/settle-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleAllMatchdays)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/settle-matchday", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettleMatchdayJob)))
	mux.Handle("POST /v1/internal/jobs/schedule-settlement", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScheduleSettlementJob)))
}
