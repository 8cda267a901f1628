package core

// errors.go defines the two structural error kinds of the engine.
//
// A DataIntegrityError means the snapshot references an entity that does not
// exist; a MalformedFieldError means a typed cell does not follow the strict
// grammar. Both abort the whole run. Rule breaches are never errors, they are
// reported as Problems.

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity matches every *DataIntegrityError via errors.Is.
	ErrDataIntegrity = errors.New("data integrity")

	// ErrMalformedField matches every *MalformedFieldError via errors.Is.
	ErrMalformedField = errors.New("malformed field")
)

// EntityKind names the kind of record a DataIntegrityError refers to.
type EntityKind string

const (
	KindPlayer      EntityKind = "player"
	KindTeam        EntityKind = "team"
	KindClub        EntityKind = "club"
	KindTeamMatch   EntityKind = "teammatch"
	KindPlayerMatch EntityKind = "playermatch"
)

// DataIntegrityError reports an unresolvable reference.
type DataIntegrityError struct {
	Kind    EntityKind // Kind of the missing entity
	ID      string     // Identifier that could not be resolved
	Context string     // Where the reference came from, e.g. "team1 of teammatch 42"
}

func (e *DataIntegrityError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s %q not found (%s)", e.Kind, e.ID, e.Context)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// FieldType is the strict grammar a raw cell is parsed with.
type FieldType string

const (
	FieldBool FieldType = "boolean"
	FieldInt  FieldType = "integer"
	FieldDate FieldType = "timestamp"
)

// MalformedFieldError reports a cell whose text does not match its grammar.
type MalformedFieldError struct {
	Table    string
	Field    string
	Row      int // 1-based data row, 0 when unknown
	Value    string
	Expected FieldType
}

func (e *MalformedFieldError) Error() string {
	loc := e.Table
	if e.Row > 0 {
		loc = fmt.Sprintf("%s row %d", e.Table, e.Row)
	}
	if loc != "" {
		return fmt.Sprintf("%s: field %s: invalid %s value %q", loc, e.Field, e.Expected, e.Value)
	}
	return fmt.Sprintf("field %s: invalid %s value %q", e.Field, e.Expected, e.Value)
}

func (e *MalformedFieldError) Is(target error) bool {
	return target == ErrMalformedField
}

func missing(kind EntityKind, id, context string) error {
	return &DataIntegrityError{Kind: kind, ID: id, Context: context}
}
