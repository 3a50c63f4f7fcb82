package tui

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNegative = errors.New("must be zero or more")

// ParseAmount reads a user-typed number. Currency symbols, thousands
// separators and a trailing % are ignored; empty input is zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a number")
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

// ParsePercent reads a percentage and returns it as a fraction.
// "15" and "15%" both yield 0.15.
func ParsePercent(s string) (float64, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// formatInput renders a stored value for pre-filling an input.
// Zero means "not set" and renders empty.
func formatInput(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercentInput(fraction float64) string {
	if fraction == 0 {
		return ""
	}
	return strconv.FormatFloat(fraction*100, 'f', -1, 64)
}

func validateAmount(s string) error {
	_, err := ParseAmount(s)
	return err
}

func validateRequiredAmount(s string) error {
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	if v == 0 {
		return errors.New("required")
	}
	return nil
}
