package core

// convert.go turns loosely-typed export cells into typed values.
//
// Unlike a tolerant importer, the engine accepts exactly one spelling per
// value: "true"/"false" for booleans, a decimal literal for integers and
// "DD.MM.YYYY[ HH:MM:SS]" in the league's time zone for timestamps. Every
// other text is a MalformedFieldError, nothing is coerced silently.

import (
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // Europe/Berlin must resolve on hosts without zoneinfo
)

// integerRegex is the integer grammar. Leading '+' and whitespace are rejected.
var integerRegex = regexp.MustCompile(`^-?[0-9]+$`)

// Timestamp layouts used by the result site exports.
const (
	LayoutDateTime = "02.01.2006 15:04:05"
	LayoutDate     = "02.01.2006"
)

// Location is the time zone all export timestamps are written in.
var Location = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// ParseBool parses the strict boolean grammar.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &MalformedFieldError{Value: s, Expected: FieldBool}
	}
}

// ParseInt parses the strict integer grammar. An empty cell is an absent
// value and yields 0.
func ParseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if !integerRegex.MatchString(s) {
		return 0, &MalformedFieldError{Value: s, Expected: FieldInt}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &MalformedFieldError{Value: s, Expected: FieldInt}
	}
	return n, nil
}

// ParseTime parses an export timestamp in Location. An empty cell yields the
// zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(LayoutDateTime, s, Location); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(LayoutDate, s, Location); err == nil {
		return t, nil
	}
	return time.Time{}, &MalformedFieldError{Value: s, Expected: FieldDate}
}

// rowReader reads typed cells of one record and keeps the first error.
type rowReader struct {
	table string
	row   int
	rec   Record
	err   error
}

func newRowReader(table string, row int, rec Record) *rowReader {
	return &rowReader{table: table, row: row, rec: rec}
}

func (r *rowReader) text(field string) string {
	return r.rec[field]
}

func (r *rowReader) flag(field string) bool {
	v, err := ParseBool(r.rec[field])
	r.fail(field, err)
	return v
}

func (r *rowReader) number(field string) int {
	v, err := ParseInt(r.rec[field])
	r.fail(field, err)
	return v
}

func (r *rowReader) stamp(field string) time.Time {
	v, err := ParseTime(r.rec[field])
	r.fail(field, err)
	return v
}

func (r *rowReader) fail(field string, err error) {
	if err == nil || r.err != nil {
		return
	}
	if mf, ok := err.(*MalformedFieldError); ok {
		mf.Table = r.table
		mf.Field = field
		mf.Row = r.row
	}
	r.err = err
}
