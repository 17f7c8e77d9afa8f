package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gonbooster/AIArriendo-sub000/internal/contextkeys"
	"github.com/gonbooster/AIArriendo-sub000/internal/contracts"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
	usecases_port "github.com/gonbooster/AIArriendo-sub000/internal/core/port/usecases"
)

// requestBodyLimit guards against oversized payloads.
const requestBodyLimit = 1 << 20

type SearchHandlers struct {
	searchUC  usecases_port.SearchPropertiesUseCase
	suggestUC usecases_port.SuggestLocationsUseCase
	similarUC usecases_port.FindSimilarPropertiesUseCase
}

func NewSearchHandlers(
	searchUC usecases_port.SearchPropertiesUseCase,
	suggestUC usecases_port.SuggestLocationsUseCase,
	similarUC usecases_port.FindSimilarPropertiesUseCase,
) *SearchHandlers {
	return &SearchHandlers{
		searchUC:  searchUC,
		suggestUC: suggestUC,
		similarUC: similarUC,
	}
}

// HandleSearch handles POST /api/v1/search.
func (h *SearchHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSearch"})

	body, err := io.ReadAll(io.LimitReader(r.Body, requestBodyLimit))
	if err != nil {
		logger.Error("Failed to read request body", err, nil)
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	// Contract check first so a malformed shape never reaches the core.
	if err := contracts.ValidateSearchRequest(body); err != nil {
		logger.Warn("Search request failed contract validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid search request: %v", err))
		return
	}

	var reqDTO SearchRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.searchUC.Execute(r.Context(), reqDTO.Criteria, reqDTO.Page, reqDTO.Limit)
	if err != nil {
		if domain.IsValidationError(err) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrLocationUnresolved) {
			WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("Search use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// HandleSuggestLocations handles GET /api/v1/locations/suggest?q=...
func (h *SearchHandlers) HandleSuggestLocations(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSuggestLocations"})

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	suggestions, best, err := h.suggestUC.Execute(r.Context(), query)
	if err != nil {
		logger.Error("Suggest use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Suggestion lookup failed")
		return
	}
	if suggestions == nil {
		suggestions = []domain.LocationCandidate{}
	}

	RespondWithJSON(w, http.StatusOK, SuggestResponseDTO{
		Query:       query,
		Suggestions: suggestions,
		Best:        best,
	})
}

// HandleFindSimilar handles POST /api/v1/properties/similar.
func (h *SearchHandlers) HandleFindSimilar(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleFindSimilar"})

	// The similarity lookup needs the property store, which is optional.
	if h.similarUC == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "Similarity lookup is not configured")
		return
	}

	var reqDTO SimilarRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		if err == io.EOF {
			WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if reqDTO.Reference.Location.City == "" && reqDTO.Reference.Location.Neighborhood == "" &&
		reqDTO.Reference.Location.Coordinates == (domain.Coordinates{}) {
		WriteJSONError(w, http.StatusBadRequest, "Reference property needs a city, neighborhood or coordinates")
		return
	}

	similar, err := h.similarUC.Execute(r.Context(), reqDTO.Reference, reqDTO.Limit)
	if err != nil {
		logger.Error("Similarity use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Similarity lookup failed")
		return
	}
	if similar == nil {
		similar = []domain.Property{}
	}

	RespondWithJSON(w, http.StatusOK, SimilarResponseDTO{
		Properties: similar,
		Total:      len(similar),
	})
}

// HandleHealth handles GET /health.
func (h *SearchHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
