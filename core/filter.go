package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidYear is returned when a year filter value is not numeric.
var ErrInvalidYear = errors.New("year filter value is not a number")

// Predicate is a SQL condition fragment with its bound arguments.
// Predicates compose conjunctively; there is no OR or grouping in the
// catalog list queries.
type Predicate struct {
	Expr string
	Args []interface{}
}

// MatchAll returns the identity predicate that matches every row.
func MatchAll() Predicate {
	return Predicate{Expr: "1=1"}
}

// And combines predicates with logical AND. Identity predicates are
// dropped; combining zero or only identity predicates yields MatchAll.
func And(predicates ...Predicate) Predicate {
	exprs := make([]string, 0, len(predicates))
	var args []interface{}
	for _, p := range predicates {
		if p.Expr == "" || p.Expr == "1=1" {
			continue
		}
		exprs = append(exprs, p.Expr)
		args = append(args, p.Args...)
	}
	if len(exprs) == 0 {
		return MatchAll()
	}
	return Predicate{Expr: strings.Join(exprs, " AND "), Args: args}
}

// NameEquals builds a case-insensitive equality predicate on column.
// Both sides are trimmed and case-folded; an empty value contributes
// the identity predicate.
func NameEquals(column, value string) Predicate {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return MatchAll()
	}
	return Predicate{
		Expr: fmt.Sprintf("LOWER(%s) = ?", column),
		Args: []interface{}{v},
	}
}

// ManufacturingYearRange builds an inclusive date-range predicate on
// column from optional numeric year strings. A single lower bound
// matches from the start of that year, a single upper bound matches
// until the end of that year, and both together match the inclusive
// span. Timestamps are compared as RFC3339 UTC strings, which order
// chronologically.
func ManufacturingYearRange(column, from, till string) (Predicate, error) {
	fromYear, err := parseYear(from)
	if err != nil {
		return Predicate{}, err
	}
	tillYear, err := parseYear(till)
	if err != nil {
		return Predicate{}, err
	}

	switch {
	case fromYear != 0 && tillYear != 0:
		return Predicate{
			Expr: fmt.Sprintf("%s BETWEEN ? AND ?", column),
			Args: []interface{}{startOfYear(fromYear), endOfYear(tillYear)},
		}, nil
	case fromYear != 0:
		return Predicate{
			Expr: fmt.Sprintf("%s >= ?", column),
			Args: []interface{}{startOfYear(fromYear)},
		}, nil
	case tillYear != 0:
		return Predicate{
			Expr: fmt.Sprintf("%s <= ?", column),
			Args: []interface{}{endOfYear(tillYear)},
		}, nil
	default:
		return MatchAll(), nil
	}
}

func parseYear(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, value)
	}
	return year, nil
}

func startOfYear(year int) string {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func endOfYear(year int) string {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC).Format(time.RFC3339)
}

// CarFilters holds the optional car list filters. Zero values mean
// "match everything".
type CarFilters struct {
	Model    string
	Category string
	YearFrom string
	YearTill string
}

// ModelFilters holds the optional model list filters.
type ModelFilters struct {
	Name       string
	Generation string
	Brand      string
}
