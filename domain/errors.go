package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindMissingField     ErrorKind = "missing_field"
	KindTypeCoercion     ErrorKind = "type_coercion"
	KindBandOrder        ErrorKind = "band_order"
	KindDegenerateRange  ErrorKind = "degenerate_range"
	KindInsufficientData ErrorKind = "insufficient_data"
	KindInvalidInput     ErrorKind = "invalid_input"
	KindUnknown          ErrorKind = "unknown"
)

var (
	ErrNoEntries              = errors.New("analysis input has no entries")
	ErrBaseYearMissing        = errors.New("base year not present in input")
	ErrBaseObservationMissing = errors.New("no salary observed for the base year")
	ErrInvalidHorizon         = errors.New("projection horizon must be 1 or 2 years")
	ErrEmptyLevel             = errors.New("job level must not be empty")
	ErrLimitExceeded          = errors.New("request exceeds limits")
)

type kinded interface {
	Kind() ErrorKind
}

// KindOf classifies err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	switch {
	case errors.Is(err, ErrNoEntries),
		errors.Is(err, ErrBaseYearMissing),
		errors.Is(err, ErrBaseObservationMissing),
		errors.Is(err, ErrInvalidHorizon),
		errors.Is(err, ErrEmptyLevel),
		errors.Is(err, ErrLimitExceeded):
		return KindInvalidInput
	}
	return KindUnknown
}

// IsRecordLevel reports whether err only disqualifies a single raw record.
func IsRecordLevel(err error) bool {
	switch KindOf(err) {
	case KindMissingField, KindTypeCoercion, KindBandOrder:
		return true
	}
	return false
}

// MissingFieldError means no known schema had all of its fields present.
type MissingFieldError struct {
	Year    int
	Missing []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("band record %d: missing fields %s", e.Year, strings.Join(e.Missing, ", "))
}

func (e *MissingFieldError) Kind() ErrorKind { return KindMissingField }

// TypeCoercionError means a band field could not be read as a number.
type TypeCoercionError struct {
	Year  int
	Field string
	Value any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("band record %d: field %s is not numeric (%v)", e.Year, e.Field, e.Value)
}

func (e *TypeCoercionError) Kind() ErrorKind { return KindTypeCoercion }

// BandOrderError means the boundaries violate min <= median <= max.
type BandOrderError struct {
	Year             int
	Min, Median, Max float64
}

func (e *BandOrderError) Error() string {
	return fmt.Sprintf("band record %d: expected min <= median <= max, got %g / %g / %g",
		e.Year, e.Min, e.Median, e.Max)
}

func (e *BandOrderError) Kind() ErrorKind { return KindBandOrder }

// DegenerateRangeError means a derived value is undefined for its inputs:
// a zero-width band or an unusable growth base.
type DegenerateRangeError struct {
	Year   int    // zero when the failure is about a series
	Series string // empty when the failure is about a single band
	Reason string
}

func (e *DegenerateRangeError) Error() string {
	switch {
	case e.Series != "":
		return fmt.Sprintf("degenerate %s series: %s", e.Series, e.Reason)
	case e.Year != 0:
		return fmt.Sprintf("degenerate range for %d: %s", e.Year, e.Reason)
	}
	return "degenerate range: " + e.Reason
}

func (e *DegenerateRangeError) Kind() ErrorKind { return KindDegenerateRange }

// InsufficientDataError means fewer data points were given than required.
type InsufficientDataError struct {
	Need, Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d distinct years, have %d", e.Need, e.Have)
}

func (e *InsufficientDataError) Kind() ErrorKind { return KindInsufficientData }

type DuplicateYearError struct {
	Year int
}

func (e *DuplicateYearError) Error() string {
	return fmt.Sprintf("year %d appears more than once", e.Year)
}

func (e *DuplicateYearError) Kind() ErrorKind { return KindInvalidInput }

// ObservationMismatchError means an entry pairs a band and an observation
// from different years.
type ObservationMismatchError struct {
	RangeYear, ObservationYear int
}

func (e *ObservationMismatchError) Error() string {
	return fmt.Sprintf("observation for %d paired with band for %d", e.ObservationYear, e.RangeYear)
}

func (e *ObservationMismatchError) Kind() ErrorKind { return KindInvalidInput }
