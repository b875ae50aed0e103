package controllers

import (
	"strconv"
	"strings"
	"time"
)

// optInt converts a form value into an optional integer. Blank maps to nil
// so downstream presence checks never confuse "" with 0; ok is false only
// for non-blank garbage.
func optInt(raw string) (*int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func optFloat(raw string) (*float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func optString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optDate(raw string) (*time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	value, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, false
	}
	return &value, true
}
