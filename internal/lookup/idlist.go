package lookup

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDList parses a list literal of integers such as "[1, 2, 3]".
//
// Elements may be quoted ('7' or "7"); tuples "(1, 2)" and a trailing comma
// are accepted. A parenthesised value without a comma is not a list.
func ParseIDList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid id list %q", s)
	}

	open, end := s[0], s[len(s)-1]
	tuple := open == '(' && end == ')'
	if !tuple && (open != '[' || end != ']') {
		return nil, fmt.Errorf("invalid id list %q: not a list literal", s)
	}

	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []int{}, nil
	}
	if tuple && !strings.Contains(body, ",") {
		return nil, fmt.Errorf("invalid id list %q: not a list literal", s)
	}

	parts := strings.Split(body, ",")
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	ids := make([]int, 0, len(parts))
	for i, part := range parts {
		id, err := parseID(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid id list %q: element %d: %w", s, i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(elem string) (int, error) {
	if elem == "" {
		return 0, fmt.Errorf("empty element")
	}
	if n := len(elem); n >= 2 && (elem[0] == '\'' || elem[0] == '"') {
		if elem[n-1] != elem[0] {
			return 0, fmt.Errorf("unterminated string %s", elem)
		}
		elem = strings.TrimSpace(elem[1 : n-1])
	}
	id, err := strconv.Atoi(elem)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", elem)
	}
	return id, nil
}
