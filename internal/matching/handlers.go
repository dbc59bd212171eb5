package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wanderlink/wanderlink-backend/internal/auth"
	"github.com/wanderlink/wanderlink-backend/internal/common/utils"
)

// HandlerOptions carries product policy main wires from config.
type HandlerOptions struct {
	DefaultLimit int // page size when the client sends none
	MinAge       int // platform-wide age floor
	MaxAge       int // platform-wide age ceiling
}

type Handler struct {
	service Service
	opts    HandlerOptions
}

func NewHandler(service Service, opts HandlerOptions) *Handler {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	return &Handler{service: service, opts: opts}
}

// applyPolicy clamps client-supplied filters to platform policy.
func (h *Handler) applyPolicy(filters *FilterSettings) *FilterSettings {
	if h.opts.MinAge > 0 && filters.MinAge < h.opts.MinAge {
		filters.MinAge = h.opts.MinAge
	}
	if h.opts.MaxAge > 0 && (filters.MaxAge == 0 || filters.MaxAge > h.opts.MaxAge) {
		filters.MaxAge = h.opts.MaxAge
	}
	return filters
}

// Discover returns the ranked recommendation list for the caller.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var dto DiscoverRequestDTO
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := dto.Limit
	if limit <= 0 {
		limit = h.opts.DefaultLimit
	}

	matches, err := h.service.FindMatches(r.Context(), userID, h.applyPolicy(dto.ToFilterSettings()), limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, DiscoverResponseDTO{
		Matches:     matches,
		Total:       len(matches),
		GeneratedAt: time.Now(),
	})
}

// GetCompatibility scores the caller against one specific profile.
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	otherID := mux.Vars(r)["userId"]
	if otherID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	score, err := h.service.GetCompatibility(r.Context(), userID, otherID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, score)
}

// RecordSwipe stores a swipe decision that later feeds back into the
// collaborative signal and the quality ratings.
func (h *Handler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var dto SwipeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RecordSwipe(r.Context(), userID, dto.TargetID, dto.Decision); err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// GetDailyPicks serves the precomputed daily recommendation list.
func (h *Handler) GetDailyPicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	picks, err := h.service.GetDailyPicks(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, DiscoverResponseDTO{
		Matches:     picks,
		Total:       len(picks),
		GeneratedAt: time.Now(),
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidProfile), errors.Is(err, ErrMissingRequester):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process request")
	}
}
