package scorecard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/adapters"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

const defaultRankingSize = 20

type Handler struct {
	scorecards scorecard.Store
}

func NewHandler(scorecards scorecard.Store) *Handler {
	return &Handler{scorecards: scorecards}
}

// ListScorecards serves all scorecards for the calculation date named by
// the date query parameter.
func (h *Handler) ListScorecards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	date := r.URL.Query().Get("date")

	if date == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := h.scorecards.ListByDate(ctx, date)
	if err != nil {
		logger.Error().Err(err).Str("date", date).Msg("failed to list scorecards")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	response := make([]any, 0, len(records))
	for _, rec := range records {
		response = append(response, adapters.MapStoreRecordToApiScorecard(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode scorecards")
	}
}

// GetScorecard serves the latest scorecard for one entity.
func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	stockCode := chi.URLParam(r, "stockCode")

	record, err := h.scorecards.GetLatest(ctx, stockCode)
	if err != nil {
		logger.Error().Err(err).Str("stock_code", stockCode).Msg("failed to load scorecard")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "scorecard not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapStoreRecordToApiScorecard(record)); err != nil {
		logger.Error().Err(err).Str("stock_code", stockCode).Msg("failed to encode scorecard")
	}
}

// GetRankings serves the top-scored entities, best first.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultRankingSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.scorecards.TopN(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load rankings")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapStoreRecordsToApiRankings(records)); err != nil {
		logger.Error().Err(err).Msg("failed to encode rankings")
	}
}
