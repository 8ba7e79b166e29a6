package query

import "strings"

// SortField is a view field with a direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "name,-created_at" style expressions. A leading "-" marks descending.
// Field names are converted from snake_case to the PascalCase view names used by projections.
func ParseSortFields(expr string) []SortField {
	if expr == "" {
		return nil
	}

	parts := strings.Split(expr, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")
		fields = append(fields, SortField{Field: pascal(part), Descending: desc})
	}
	return fields
}

func pascal(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if w == "id" || w == "url" {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "")
}
