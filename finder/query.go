package finder

import (
	"strings"

	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/store"
)

// Table is the hosted medicines table. The name, like the column names
// below, is verbatim from the database and includes spaces.
const Table = "generic medicines list"

// Column names of the medicines table.
const (
	ColName           = "Name"
	ColDosage         = "Dosage"
	ColFormulation    = "Formulation"
	ColCostOfBranded  = "Cost of branded"
	ColCostOfGeneric  = "Cost of generic"
	ColCostDifference = "Cost difference"
	ColSavings        = "Savings"
	ColType           = "Type"
	ColUses           = "Uses"
	ColSideEffects    = "Side Effects"
)

// columnForField maps a logical field name (any casing, so both "name" and
// the legacy "Name" resolve) to its column. ok is false for unknown fields.
func columnForField(field string) (string, bool) {
	switch strings.ToLower(field) {
	case "name":
		return ColName, true
	case "formulation":
		return ColFormulation, true
	case "type":
		return ColType, true
	case "dosage":
		return ColDosage, true
	}
	return "", false
}

// BuildFilter adds one field filter to the query. Unknown fields and empty
// normalized values are deliberate no-ops: a bad field name is logged and
// ignored rather than failing the whole request. Type filters are always
// case-insensitive substring matches; for the other fields the exact flag
// picks equality over substring matching.
func BuildFilter(q *store.Query, field, value string, exact bool) *store.Query {
	if value == "" {
		return q
	}

	column, ok := columnForField(field)
	if !ok {
		logging.Error("Unknown search field", "field", field)
		return q
	}

	if column == ColType {
		cleaned := NormalizeTypeText(value)
		if cleaned == "" {
			return q
		}
		return q.WhereILike(ColType, cleaned)
	}

	cleaned := NormalizeSearchText(value)
	if cleaned == "" {
		return q
	}
	if exact {
		return q.WhereEq(column, cleaned)
	}
	return q.WhereILike(column, cleaned)
}

// SortOrder selects the optional price ordering of search results.
type SortOrder string

const (
	SortNone      SortOrder = "none"
	SortLowToHigh SortOrder = "low_to_high"
	SortHighToLow SortOrder = "high_to_low"
)

// ParseSortOrder maps a query parameter to a SortOrder. Anything
// unrecognized, including the empty string, means no sorting.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortLowToHigh:
		return SortLowToHigh
	case SortHighToLow:
		return SortHighToLow
	}
	return SortNone
}

// ApplySort orders the query by the branded price.
func ApplySort(q *store.Query, order SortOrder) *store.Query {
	switch order {
	case SortLowToHigh:
		return q.OrderBy(ColCostOfBranded, false)
	case SortHighToLow:
		return q.OrderBy(ColCostOfBranded, true)
	}
	return q
}
