package server

import (
	"strconv"
	"strings"
)

func parseOptionalInt64(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseCategory accepts a numeric id or a category slug.
func (s *Server) parseCategory(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if id, ok := s.categories.ResolveCategory(trimmed); ok {
		return &id, nil
	}
	return parseOptionalInt64(trimmed)
}
