// Package handlers provides the HTTP request handlers for the GenericBro
// API: medicine search, autocomplete suggestions, single-medicine lookup,
// browse-by-type and health.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/genericbro/genericbro-api/entities"
	"github.com/genericbro/genericbro-api/finder"
	"github.com/genericbro/genericbro-api/interfaces"
	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/store"
)

// Limits of the by-type listing endpoint.
const (
	defaultTypeLimit = 50
	maxTypeLimit     = 100
)

// respondWithFinderError maps finder errors onto the HTTP error contract.
func respondWithFinderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entities.ErrNoSearchFields):
		RespondWithDetail(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, finder.ErrNotFound):
		RespondWithDetail(w, r, http.StatusNotFound, "Medicine not found")
	case errors.Is(err, store.ErrUnavailable):
		RespondWithDetail(w, r, http.StatusServiceUnavailable, "Database connection error. Please try again later.")
	default:
		logging.Error("Request failed", "path", r.URL.Path, "error", err)
		RespondWithDetail(w, r, http.StatusInternalServerError, err.Error())
	}
}

// SearchMedicines handles POST /finder/search.
func SearchMedicines(f interfaces.MedicineFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entities.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithDetail(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := f.Search(r.Context(), req, r.URL.Query().Get("sort_order"))
		if err != nil {
			respondWithFinderError(w, r, err)
			return
		}
		RespondWithJSON(w, r, http.StatusOK, resp)
	}
}

// GetSuggestions handles GET /finder/suggestions/{field}. Store failures
// never surface here; the finder degrades to an empty list.
func GetSuggestions(f interfaces.MedicineFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, ok := entities.CanonicalField(chi.URLParam(r, "field"))
		if !ok {
			RespondWithDetail(w, r, http.StatusBadRequest,
				"Invalid field. Must be one of: "+strings.Join(entities.SuggestionFields, ", "))
			return
		}

		values := f.Suggestions(r.Context(), field, r.URL.Query().Get("query"))

		suggestions := make([]entities.AutocompleteSuggestion, 0, len(values))
		for _, v := range values {
			suggestions = append(suggestions, entities.AutocompleteSuggestion{Value: v, FieldType: field})
		}
		RespondWithJSON(w, r, http.StatusOK, entities.AutocompleteResponse{Suggestions: suggestions})
	}
}

// GetMedicineDetails handles GET /finder/medicine/{name}.
func GetMedicineDetails(f interfaces.MedicineFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			RespondWithDetail(w, r, http.StatusBadRequest, "Missing medicine name")
			return
		}

		medicine, err := f.MedicineByName(r.Context(), name)
		if err != nil {
			respondWithFinderError(w, r, err)
			return
		}
		RespondWithJSON(w, r, http.StatusOK, medicine)
	}
}

// GetMedicinesByType handles GET /finder/medicines/by_type.
func GetMedicinesByType(f interfaces.MedicineFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := r.URL.Query().Get("type")
		if strings.TrimSpace(typ) == "" {
			RespondWithDetail(w, r, http.StatusBadRequest, "type parameter is required")
			return
		}

		limit := defaultTypeLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxTypeLimit {
				RespondWithDetail(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		medicines, err := f.MedicinesByType(r.Context(), typ, limit, r.URL.Query().Get("sort_order"))
		if err != nil {
			respondWithFinderError(w, r, err)
			return
		}
		RespondWithJSON(w, r, http.StatusOK, medicines)
	}
}

// HealthCheck handles GET /health.
func HealthCheck(hc interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, data, httpStatus := hc.HealthCheck()

		payload := map[string]any{"status": status}
		for k, v := range data {
			payload[k] = v
		}
		RespondWithJSON(w, r, httpStatus, payload)
	}
}

// Root handles GET /.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Welcome to GenericBro API"})
	}
}
