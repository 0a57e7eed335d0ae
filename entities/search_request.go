package entities

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// ErrNoSearchFields is returned when a search request carries no usable
// filter after trimming.
var ErrNoSearchFields = errors.New("at least one search field must be provided")

// SearchRequest carries the optional filters of a medicine search. The
// original clients send either lowercase or capitalized keys, so the JSON
// decoding accepts any casing of Name/Formulation/Type/Dosage.
type SearchRequest struct {
	Name        string `json:"name,omitempty"`
	Formulation string `json:"formulation,omitempty"`
	Type        string `json:"type,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
}

// UnmarshalJSON maps aliases case-insensitively onto the four fields.
// Unknown keys are ignored. Keys apply in sorted order, so when a body
// carries the same alias in several casings the outcome is deterministic:
// lowercase sorts after capitalized and wins.
func (s *SearchRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		if value == nil {
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			s.Name = *value
		case "formulation":
			s.Formulation = *value
		case "type":
			s.Type = *value
		case "dosage":
			s.Dosage = *value
		}
	}
	return nil
}

// Validate enforces the one-filter minimum. Whitespace-only fields count as
// absent.
func (s *SearchRequest) Validate() error {
	if strings.TrimSpace(s.Name) == "" &&
		strings.TrimSpace(s.Formulation) == "" &&
		strings.TrimSpace(s.Type) == "" &&
		strings.TrimSpace(s.Dosage) == "" {
		return ErrNoSearchFields
	}
	return nil
}

// HasNameOrFormulation reports whether the request is a point lookup rather
// than a category browse.
func (s *SearchRequest) HasNameOrFormulation() bool {
	return strings.TrimSpace(s.Name) != "" || strings.TrimSpace(s.Formulation) != ""
}

// HasTypeOrDosage reports whether any category filter is set.
func (s *SearchRequest) HasTypeOrDosage() bool {
	return strings.TrimSpace(s.Type) != "" || strings.TrimSpace(s.Dosage) != ""
}
