package finder

import "strings"

// NormalizeSearchText cleans a raw search term: trims the ends, tightens
// whitespace around hyphens, and doubles embedded single quotes. The quote
// doubling matches the upstream service's defense against interpolated
// queries and is part of the observable contract even though every query
// here is parameterized. Empty or whitespace-only input normalizes to "".
func NormalizeSearchText(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}

	if strings.Contains(cleaned, "-") {
		parts := strings.Split(cleaned, "-")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cleaned = strings.Join(parts, "-")
	}

	return strings.ReplaceAll(cleaned, "'", "''")
}

// NormalizeTypeText collapses internal whitespace runs to single spaces.
// Case and punctuation are left alone; type values are matched fuzzily.
func NormalizeTypeText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
