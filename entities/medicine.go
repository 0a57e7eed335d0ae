// Package entities defines the domain types exchanged between the store,
// the finder and the HTTP surface.
package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Medicine is one row of the hosted medicines table, validated and with the
// derived price fields filled in. Savings is nil when the branded price is
// zero (the percentage is undefined, not an error).
type Medicine struct {
	Name           string          `json:"name"`
	Dosage         string          `json:"dosage"`
	Formulation    string          `json:"formulation"`
	CostOfBranded  decimal.Decimal `json:"cost_of_branded"`
	CostOfGeneric  decimal.Decimal `json:"cost_of_generic"`
	CostDifference decimal.Decimal `json:"cost_difference"`
	Savings        *float64        `json:"savings,omitempty"`
	Type           string          `json:"type"`
	Uses           string          `json:"uses"`
	SideEffects    string          `json:"side_effects"`
}

// SearchResponse keeps the wire keys of the original service, including the
// capitalized Uses/Side_Effects copied from the exact match.
type SearchResponse struct {
	ExactMatch          *Medicine  `json:"exact_match"`
	SimilarFormulations []Medicine `json:"similar_formulations"`
	Uses                *string    `json:"Uses"`
	SideEffects         *string    `json:"Side_Effects"`
}

// AutocompleteSuggestion is one typeahead entry for a form field.
type AutocompleteSuggestion struct {
	Value     string `json:"value"`
	FieldType string `json:"field_type"`
}

// AutocompleteResponse wraps the suggestion list.
type AutocompleteResponse struct {
	Suggestions []AutocompleteSuggestion `json:"suggestions"`
}

// Canonical field names, as the client sees them.
const (
	FieldName        = "Name"
	FieldFormulation = "Formulation"
	FieldType        = "Type"
	FieldDosage      = "Dosage"
)

// SuggestionFields lists the fields that support autocomplete, in the order
// they are documented.
var SuggestionFields = []string{FieldName, FieldFormulation, FieldType, FieldDosage}

// CanonicalField resolves a client-supplied field name (any casing) to its
// canonical form. ok is false for unknown fields.
func CanonicalField(field string) (string, bool) {
	for _, f := range SuggestionFields {
		if strings.EqualFold(field, f) {
			return f, true
		}
	}
	return "", false
}
