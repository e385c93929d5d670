package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"vc7day/internal/models"
)

// ParseIDList parses a comma-separated list of ids. Tokens that are not plain
// non-negative integers are dropped. The result is never nil.
func ParseIDList(raw string) []int {
	ids := make([]int, 0)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if !isDigits(token) {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ParseIDListStrict is ParseIDList but rejects any non-empty token that is not
// an id with a VALIDATION_ERROR.
func ParseIDListStrict(raw string) ([]int, error) {
	ids := make([]int, 0)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil || !isDigits(token) {
			return nil, models.NewValidationError(fmt.Sprintf("invalid id %q in list", token))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParsePlaylistRef normalizes a playlist reference from a form. Empty values
// and the literal "None" mean no playlist.
func ParsePlaylistRef(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" || strings.EqualFold(raw, "null") {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, models.NewValidationError(fmt.Sprintf("invalid playlist id %q", raw))
	}
	return &id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
