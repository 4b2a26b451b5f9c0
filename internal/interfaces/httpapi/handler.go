package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/marcosfdz/jornadabet/internal/usecase"
)

// JobPublisher enqueues deferred internal job calls.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type Handler struct {
	matchdayService *usecase.MatchdayService
	betService      *usecase.BetService
	jobPublisher    JobPublisher
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchdayService *usecase.MatchdayService,
	betService *usecase.BetService,
	jobPublisher JobPublisher,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		matchdayService: matchdayService,
		betService:      betService,
		jobPublisher:    jobPublisher,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerUserID identifies the member behind the request. Token issuance is out
// of scope here; the edge proxy authenticates and forwards the member id.
func callerUserID(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		return "", fmt.Errorf("%w: missing X-User-ID header", usecase.ErrUnauthorized)
	}
	return userID, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validate(payload any) error {
	if err := h.validator.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathMatchday(r *http.Request) (int, error) {
	raw := r.PathValue("matchday")
	matchday, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: matchday must be a number, got %q", usecase.ErrInvalidInput, raw)
	}
	return matchday, nil
}
