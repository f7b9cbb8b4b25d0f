package domain

// YearRange is the canonical salary band for one year.
type YearRange struct {
	Year   int     `json:"year" yaml:"year"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Median float64 `json:"median" yaml:"median"`
}

// Width returns Max - Min.
func (r YearRange) Width() float64 {
	return r.Max - r.Min
}

// RawBandRecord is a band row as published for a year, before the schema is
// known. Fields keeps the original column names.
type RawBandRecord struct {
	Year   int            `json:"year" yaml:"year"`
	Level  string         `json:"level,omitempty" yaml:"level,omitempty"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// RejectedRecord is a raw record the normalizer excluded, with the reason.
type RejectedRecord struct {
	Year   int       `json:"year"`
	Level  string    `json:"level,omitempty"`
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
}

// Field names of the zone schema.
const (
	FieldMinimum      = "Minimum"
	FieldMaximum      = "Maximum"
	FieldLowerMidZone = "Lower_Mid_Zone"
	FieldUpperMidZone = "Upper_Mid_Zone"
)

// Field names of the split schema.
const (
	FieldLowerMin  = "Lower_Min"
	FieldUpperMax  = "Upper_Max"
	FieldMiddleMin = "Middle_Min"
	FieldMiddleMax = "Middle_Max"
)

// BandSchema is one of the known published band layouts. The set is closed:
// ZoneBand and SplitBand are the only implementations.
type BandSchema interface {
	SchemaName() string
	// Bounds returns the outer boundaries and the two middle boundaries.
	Bounds() (min, max, midLow, midHigh float64)
	isBandSchema()
}

// ZoneBand uses Minimum/Maximum with a lower and upper mid zone.
type ZoneBand struct {
	Minimum      float64
	Maximum      float64
	LowerMidZone float64
	UpperMidZone float64
}

func (ZoneBand) SchemaName() string { return "zone" }

func (b ZoneBand) Bounds() (float64, float64, float64, float64) {
	return b.Minimum, b.Maximum, b.LowerMidZone, b.UpperMidZone
}

func (ZoneBand) isBandSchema() {}

// SplitBand uses Lower_Min/Upper_Max with a middle min and max.
type SplitBand struct {
	LowerMin  float64
	UpperMax  float64
	MiddleMin float64
	MiddleMax float64
}

func (SplitBand) SchemaName() string { return "split" }

func (b SplitBand) Bounds() (float64, float64, float64, float64) {
	return b.LowerMin, b.UpperMax, b.MiddleMin, b.MiddleMax
}

func (SplitBand) isBandSchema() {}
