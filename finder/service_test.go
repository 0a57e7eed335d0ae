package finder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/genericbro/genericbro-api/entities"
	"github.com/genericbro/genericbro-api/store"
	"github.com/genericbro/genericbro-api/suggestcache"
)

// fakeStore records the queries it receives and serves canned rows.
type fakeStore struct {
	rows    []store.Row
	err     error
	calls   int
	lastSQL string
}

func (f *fakeStore) Rows(_ context.Context, q *store.Query) ([]store.Row, error) {
	f.calls++
	f.lastSQL, _ = q.SQL()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeStore) Probe(context.Context) error { return f.err }
func (f *fakeStore) Available() bool             { return f.err == nil }
func (f *fakeStore) LastProbe() time.Time        { return time.Time{} }

func newService(t *testing.T, fs *fakeStore) *Service {
	t.Helper()
	cache, err := suggestcache.New(16)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	return New(fs, cache)
}

func namedRow(name, formulation string) store.Row {
	row := validRow()
	row[ColName] = name
	row[ColFormulation] = formulation
	return row
}

func TestSearchRejectsEmptyRequest(t *testing.T) {
	svc := newService(t, &fakeStore{})

	_, err := svc.Search(context.Background(), entities.SearchRequest{Name: "  "}, "")
	if !errors.Is(err, entities.ErrNoSearchFields) {
		t.Fatalf("Expected ErrNoSearchFields, got %v", err)
	}
}

func TestSearchBrowseModeNeverHasExactMatch(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{
		namedRow("TAB A", "Formulation A"),
		namedRow("TAB B", "Formulation B"),
	}}
	svc := newService(t, fs)

	resp, err := svc.Search(context.Background(), entities.SearchRequest{Type: "diabetic"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.ExactMatch != nil {
		t.Error("Expected no exact match in browse mode")
	}
	if len(resp.SimilarFormulations) != 2 {
		t.Errorf("Expected 2 similar formulations, got %d", len(resp.SimilarFormulations))
	}
	if !strings.Contains(fs.lastSQL, "LIMIT 15") {
		t.Errorf("Expected browse query capped at 15, got %q", fs.lastSQL)
	}
	if resp.Uses != nil || resp.SideEffects != nil {
		t.Error("Expected no uses/side effects without an exact match")
	}
}

func TestSearchDosageOnlyIsBrowseMode(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(t, fs)

	if _, err := svc.Search(context.Background(), entities.SearchRequest{Dosage: "1mg"}, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(fs.lastSQL, "LIMIT 15") {
		t.Errorf("Expected dosage-only search to browse, got %q", fs.lastSQL)
	}
}

func TestSearchLookupFindsCaseInsensitiveExactMatch(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{
		namedRow("TAB GLIMEPRIDE 2MG", "Glimepiride 2mg"),
		namedRow("TAB GLIMEPRIDE", "Glimepiride 1mg"),
	}}
	svc := newService(t, fs)

	resp, err := svc.Search(context.Background(), entities.SearchRequest{Name: "Tab Glimepride"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.ExactMatch == nil {
		t.Fatal("Expected an exact match")
	}
	if resp.ExactMatch.Name != "TAB GLIMEPRIDE" {
		t.Errorf("exact match = %s, want TAB GLIMEPRIDE", resp.ExactMatch.Name)
	}
	if len(resp.SimilarFormulations) != 1 || resp.SimilarFormulations[0].Name != "TAB GLIMEPRIDE 2MG" {
		t.Errorf("Expected the other row as the only alternative, got %+v", resp.SimilarFormulations)
	}
	if resp.Uses == nil || *resp.Uses != "Controls blood sugar" {
		t.Errorf("Expected uses copied from the exact match, got %v", resp.Uses)
	}
	if resp.SideEffects == nil || *resp.SideEffects != "Hypoglycemia" {
		t.Errorf("Expected side effects copied from the exact match, got %v", resp.SideEffects)
	}
	// Lookup mode must not cap results.
	if strings.Contains(fs.lastSQL, "LIMIT") {
		t.Errorf("Expected no limit in lookup mode, got %q", fs.lastSQL)
	}
}

func TestSearchLookupByFormulation(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{
		namedRow("TAB A", "Glimepiride 2mg"),
		namedRow("TAB B", "Glimepiride 1mg"),
	}}
	svc := newService(t, fs)

	resp, err := svc.Search(context.Background(), entities.SearchRequest{Formulation: "glimepiride 1MG"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.ExactMatch == nil || resp.ExactMatch.Name != "TAB B" {
		t.Fatalf("Expected TAB B as exact match, got %+v", resp.ExactMatch)
	}
}

func TestSearchLookupWithoutExactMatchKeepsAlternatives(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{
		namedRow("TAB GLIMEPRIDE 2MG", "Glimepiride 2mg"),
	}}
	svc := newService(t, fs)

	resp, err := svc.Search(context.Background(), entities.SearchRequest{Name: "glimepride"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.ExactMatch != nil {
		t.Error("Expected no exact match")
	}
	if len(resp.SimilarFormulations) != 1 {
		t.Errorf("Expected 1 alternative, got %d", len(resp.SimilarFormulations))
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	svc := newService(t, &fakeStore{})

	resp, err := svc.Search(context.Background(), entities.SearchRequest{Name: "nothing"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.ExactMatch != nil || len(resp.SimilarFormulations) != 0 {
		t.Errorf("Expected empty response, got %+v", resp)
	}
	if resp.SimilarFormulations == nil {
		t.Error("Expected empty slice, not nil, for similar formulations")
	}
}

func TestSearchMappingFailureIsFatal(t *testing.T) {
	bad := namedRow("TAB BAD", "Bad 1mg")
	bad[ColCostOfGeneric] = "200" // above branded
	fs := &fakeStore{rows: []store.Row{bad}}
	svc := newService(t, fs)

	_, err := svc.Search(context.Background(), entities.SearchRequest{Name: "bad"}, "")
	if !IsMappingError(err) {
		t.Fatalf("Expected MappingError, got %v", err)
	}
}

func TestSearchPropagatesStoreErrors(t *testing.T) {
	fs := &fakeStore{err: store.ErrUnavailable}
	svc := newService(t, fs)

	_, err := svc.Search(context.Background(), entities.SearchRequest{Name: "x"}, "")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
}

func TestMedicineByNameNotFound(t *testing.T) {
	svc := newService(t, &fakeStore{})

	_, err := svc.MedicineByName(context.Background(), "UNKNOWN")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMedicineByNameUsesExactEquality(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{validRow()}}
	svc := newService(t, fs)

	m, err := svc.MedicineByName(context.Background(), "TAB GLIMEPRIDE")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.Name != "TAB GLIMEPRIDE" {
		t.Errorf("name = %s, want TAB GLIMEPRIDE", m.Name)
	}
	if !strings.Contains(fs.lastSQL, `"Name" = $1`) || !strings.Contains(fs.lastSQL, "LIMIT 1") {
		t.Errorf("Expected exact single-row lookup, got %q", fs.lastSQL)
	}
}

func TestMedicinesByTypeSkipsInvalidRows(t *testing.T) {
	bad := namedRow("TAB BAD", "Bad 1mg")
	delete(bad, ColUses)
	fs := &fakeStore{rows: []store.Row{
		namedRow("TAB A", "Formulation A"),
		bad,
		namedRow("TAB C", "Formulation C"),
	}}
	svc := newService(t, fs)

	medicines, err := svc.MedicinesByType(context.Background(), "diabetic", 100, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(medicines) != 2 {
		t.Fatalf("Expected the 2 valid rows, got %d", len(medicines))
	}
	if medicines[0].Name != "TAB A" || medicines[1].Name != "TAB C" {
		t.Errorf("Expected store order preserved, got %+v", medicines)
	}
}

func TestMedicinesByTypeAppliesLimitAndSort(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(t, fs)

	if _, err := svc.MedicinesByType(context.Background(), "diabetic", 25, "high_to_low"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(fs.lastSQL, "LIMIT 25") {
		t.Errorf("Expected limit 25, got %q", fs.lastSQL)
	}
	if !strings.Contains(fs.lastSQL, `ORDER BY "Cost of branded" DESC`) {
		t.Errorf("Expected descending price sort, got %q", fs.lastSQL)
	}
}

func TestSuggestionsSortedDedupedAndCapped(t *testing.T) {
	var rows []store.Row
	for i := 11; i >= 0; i-- {
		rows = append(rows, store.Row{ColType: fmt.Sprintf("type %02d", i)})
	}
	rows = append(rows, store.Row{ColType: "type 05"}) // duplicate
	rows = append(rows, store.Row{ColType: ""})        // empty value dropped
	fs := &fakeStore{rows: rows}
	svc := newService(t, fs)

	values := svc.Suggestions(context.Background(), entities.FieldType, "type")
	if len(values) != MaxSuggestions {
		t.Fatalf("Expected %d suggestions, got %d", MaxSuggestions, len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			t.Errorf("Expected ascending order, got %v", values)
			break
		}
	}
	if values[0] != "type 00" {
		t.Errorf("first value = %s, want type 00", values[0])
	}
}

func TestSuggestionsSecondCallHitsCache(t *testing.T) {
	fs := &fakeStore{rows: []store.Row{
		{ColType: "A-Anti Diabetic"},
		{ColType: "B-Anti Biotic"},
	}}
	svc := newService(t, fs)

	first := svc.Suggestions(context.Background(), entities.FieldType, "diab")
	second := svc.Suggestions(context.Background(), entities.FieldType, "diab")

	if fs.calls != 1 {
		t.Errorf("Expected one store round-trip, got %d", fs.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Expected identical results, got %v vs %v", first, second)
			break
		}
	}
}

func TestSuggestionsStoreErrorDegradesToEmptyList(t *testing.T) {
	fs := &fakeStore{err: errors.New("connection refused")}
	svc := newService(t, fs)

	values := svc.Suggestions(context.Background(), entities.FieldName, "tab")
	if values == nil || len(values) != 0 {
		t.Errorf("Expected empty list, got %v", values)
	}

	// Failures must not be memoized: a recovered store serves the retry.
	fs.err = nil
	fs.rows = []store.Row{{ColName: "TAB GLIMEPRIDE"}}
	values = svc.Suggestions(context.Background(), entities.FieldName, "tab")
	if len(values) != 1 {
		t.Errorf("Expected retry to reach the store, got %v", values)
	}
}

func TestSuggestionsUnknownFieldReturnsEmpty(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(t, fs)

	if values := svc.Suggestions(context.Background(), "Manufacturer", ""); len(values) != 0 {
		t.Errorf("Expected empty list, got %v", values)
	}
	if fs.calls != 0 {
		t.Errorf("Expected no store call, got %d", fs.calls)
	}
}

func TestSuggestionsFilterUsesNormalizedQuery(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(t, fs)

	svc.Suggestions(context.Background(), entities.FieldName, "  a - b ")
	if !strings.Contains(fs.lastSQL, `"Name" ILIKE $1`) {
		t.Errorf("Expected substring filter, got %q", fs.lastSQL)
	}
}
