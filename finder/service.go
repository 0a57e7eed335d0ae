// Package finder implements the search, lookup and autocomplete logic of
// the GenericBro API on top of the medicines store.
package finder

import (
	"context"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/genericbro/genericbro-api/entities"
	"github.com/genericbro/genericbro-api/interfaces"
	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/metrics"
	"github.com/genericbro/genericbro-api/store"
	"github.com/genericbro/genericbro-api/suggestcache"
)

// MaxBrowseResults caps browse-mode searches. Type and dosage filters are
// category browsers, not lookups, so the result set stays small.
const MaxBrowseResults = 15

// MaxSuggestions caps one autocomplete response.
const MaxSuggestions = 10

// Service is the stateless orchestrator behind every finder endpoint. The
// suggestion cache is its only shared mutable collaborator.
type Service struct {
	store interfaces.MedicineStore
	cache *suggestcache.Cache
}

// New creates a finder service.
func New(medicineStore interfaces.MedicineStore, cache *suggestcache.Cache) *Service {
	return &Service{store: medicineStore, cache: cache}
}

// Search runs one search request.
//
// Requests with only type/dosage filters browse: every row maps into
// similar_formulations, capped at MaxBrowseResults, and there is no exact
// match. Requests with a name or formulation look up: the first row whose
// name (or formulation, when no name was given) equals the query value
// case-insensitively becomes the exact match and the rest stay alternatives
// in store order. A lookup without an exact match still returns whatever
// alternatives were found.
func (s *Service) Search(ctx context.Context, req entities.SearchRequest, sortOrder string) (entities.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return entities.SearchResponse{}, err
	}

	browse := req.HasTypeOrDosage() && !req.HasNameOrFormulation()

	q := store.NewQuery(Table)
	q = BuildFilter(q, "type", req.Type, false)
	q = BuildFilter(q, "formulation", req.Formulation, false)
	q = BuildFilter(q, "name", req.Name, false)
	q = BuildFilter(q, "dosage", req.Dosage, false)
	q = ApplySort(q, ParseSortOrder(sortOrder))
	if browse {
		q = q.Limit(MaxBrowseResults)
	}

	rows, err := s.store.Rows(ctx, q)
	if err != nil {
		return entities.SearchResponse{}, err
	}

	resp := entities.SearchResponse{SimilarFormulations: []entities.Medicine{}}
	if len(rows) == 0 {
		return resp, nil
	}

	if browse {
		for _, row := range rows {
			m, err := MapMedicine(row)
			if err != nil {
				return entities.SearchResponse{}, err
			}
			resp.SimilarFormulations = append(resp.SimilarFormulations, m)
		}
		return resp, nil
	}

	exactIdx := -1
	if name := strings.TrimSpace(req.Name); name != "" {
		exactIdx = findExact(rows, ColName, name)
	} else if formulation := strings.TrimSpace(req.Formulation); formulation != "" {
		exactIdx = findExact(rows, ColFormulation, formulation)
	}

	if exactIdx >= 0 {
		m, err := MapMedicine(rows[exactIdx])
		if err != nil {
			return entities.SearchResponse{}, err
		}
		resp.ExactMatch = &m
		if uses, ok := rows[exactIdx][ColUses].(string); ok {
			resp.Uses = &uses
		}
		if sideEffects, ok := rows[exactIdx][ColSideEffects].(string); ok {
			resp.SideEffects = &sideEffects
		}
	}

	for i, row := range rows {
		if i == exactIdx {
			continue
		}
		m, err := MapMedicine(row)
		if err != nil {
			return entities.SearchResponse{}, err
		}
		resp.SimilarFormulations = append(resp.SimilarFormulations, m)
	}

	return resp, nil
}

// findExact returns the index of the first row whose column equals value
// case-insensitively, or -1.
func findExact(rows []store.Row, column, value string) int {
	for i, row := range rows {
		if v, ok := row[column].(string); ok && strings.EqualFold(v, value) {
			return i
		}
	}
	return -1
}

// MedicineByName looks one medicine up by its exact stored name.
func (s *Service) MedicineByName(ctx context.Context, name string) (entities.Medicine, error) {
	q := store.NewQuery(Table).WhereEq(ColName, name).Limit(1)

	rows, err := s.store.Rows(ctx, q)
	if err != nil {
		return entities.Medicine{}, err
	}
	if len(rows) == 0 {
		return entities.Medicine{}, ErrNotFound
	}
	return MapMedicine(rows[0])
}

// MedicinesByType lists medicines whose type contains typ. Rows that fail
// mapping are logged and skipped so one bad record cannot empty the listing.
func (s *Service) MedicinesByType(ctx context.Context, typ string, limit int, sortOrder string) ([]entities.Medicine, error) {
	cleaned := NormalizeTypeText(typ)

	q := store.NewQuery(Table).WhereILike(ColType, cleaned).Limit(limit)
	q = ApplySort(q, ParseSortOrder(sortOrder))

	rows, err := s.store.Rows(ctx, q)
	if err != nil {
		return nil, err
	}

	medicines := make([]entities.Medicine, 0, len(rows))
	for _, row := range rows {
		m, err := MapMedicine(row)
		if err != nil {
			logging.Warn("Skipping invalid row in type listing", "type", cleaned, "error", err)
			continue
		}
		medicines = append(medicines, m)
	}
	return medicines, nil
}

// Suggestions returns up to MaxSuggestions distinct values of field that
// contain query, collated ascending. Results are memoized per exact
// (field, query) pair. Store failures degrade to an empty list; suggestions
// are a UI affordance, never a hard failure.
func (s *Service) Suggestions(ctx context.Context, field, query string) []string {
	column, ok := columnForField(field)
	if !ok {
		logging.Error("Unknown suggestion field", "field", field)
		return []string{}
	}

	if values, ok := s.cache.Get(field, query); ok {
		metrics.SuggestionCacheHits.Inc()
		return values
	}
	metrics.SuggestionCacheMisses.Inc()

	q := store.NewQuery(Table).Select(column).Distinct()
	if cleaned := NormalizeSearchText(query); cleaned != "" {
		q = q.WhereILike(column, cleaned)
	}

	rows, err := s.store.Rows(ctx, q)
	if err != nil {
		logging.Error("Suggestion query failed", "field", field, "error", err)
		return []string{}
	}

	seen := make(map[string]struct{}, len(rows))
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		v, ok := row[column].(string)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	collate.New(language.English).SortStrings(values)
	if len(values) > MaxSuggestions {
		values = values[:MaxSuggestions]
	}

	s.cache.Add(field, query, values)
	return values
}
