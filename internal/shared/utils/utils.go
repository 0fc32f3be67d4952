package utils

import (
	"strconv"

	"github.com/google/uuid"
)

// ParseStringToUUID parses s, returning uuid.Nil for empty or malformed input
func ParseStringToUUID(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	uid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return uid
}

// ParsePositiveInt parses a query value, returning def when missing, malformed or < 1
func ParsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
