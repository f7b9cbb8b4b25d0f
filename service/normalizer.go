package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/apex/log"

	"salary-band/domain"
)

// schemaFields lists the required fields of every known schema, in detection
// order.
var schemaFields = [][]string{
	{domain.FieldMinimum, domain.FieldMaximum, domain.FieldLowerMidZone, domain.FieldUpperMidZone},
	{domain.FieldLowerMin, domain.FieldUpperMax, domain.FieldMiddleMin, domain.FieldMiddleMax},
}

// DetectSchema picks the first schema whose fields are all present in rec and
// converts the record into it.
func DetectSchema(rec domain.RawBandRecord) (domain.BandSchema, error) {
	var closest []string
	for i, fields := range schemaFields {
		missing := missingFields(rec.Fields, fields)
		if len(missing) > 0 {
			if closest == nil || len(missing) < len(closest) {
				closest = missing
			}
			continue
		}

		v, err := coerceAll(rec, fields)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			return domain.ZoneBand{Minimum: v[0], Maximum: v[1], LowerMidZone: v[2], UpperMidZone: v[3]}, nil
		}
		return domain.SplitBand{LowerMin: v[0], UpperMax: v[1], MiddleMin: v[2], MiddleMax: v[3]}, nil
	}

	return nil, &domain.MissingFieldError{Year: rec.Year, Missing: closest}
}

// Normalize converts a raw band record into the canonical YearRange. The
// median is the mean of the two middle boundaries.
func Normalize(rec domain.RawBandRecord) (domain.YearRange, error) {
	schema, err := DetectSchema(rec)
	if err != nil {
		return domain.YearRange{}, err
	}

	lo, hi, midLow, midHigh := schema.Bounds()
	r := domain.YearRange{
		Year:   rec.Year,
		Min:    lo,
		Max:    hi,
		Median: (midLow + midHigh) / 2,
	}
	if err := checkBandOrder(r); err != nil {
		return domain.YearRange{}, err
	}
	return r, nil
}

// checkBandOrder enforces min <= median <= max.
func checkBandOrder(r domain.YearRange) error {
	if !(r.Min <= r.Median && r.Median <= r.Max) {
		return &domain.BandOrderError{Year: r.Year, Min: r.Min, Median: r.Median, Max: r.Max}
	}
	return nil
}

// NormalizeAll normalizes a batch. Records that fail are reported in rejected
// and never abort the batch.
func NormalizeAll(recs []domain.RawBandRecord) ([]domain.YearRange, []domain.RejectedRecord) {
	ranges := make([]domain.YearRange, 0, len(recs))
	rejected := normalizeEach(recs, func(_ domain.RawBandRecord, r domain.YearRange) {
		ranges = append(ranges, r)
	})
	return ranges, rejected
}

// normalizeEach calls accept for every record that normalizes and returns the
// ones that did not.
func normalizeEach(
	recs []domain.RawBandRecord,
	accept func(domain.RawBandRecord, domain.YearRange),
) []domain.RejectedRecord {
	var rejected []domain.RejectedRecord
	for _, rec := range recs {
		r, err := Normalize(rec)
		if err != nil {
			rejected = append(rejected, rejectRecord(rec, err))
			continue
		}
		accept(rec, r)
	}
	return rejected
}

func rejectRecord(rec domain.RawBandRecord, err error) domain.RejectedRecord {
	log.WithFields(log.Fields{
		"year":  rec.Year,
		"level": rec.Level,
	}).WithError(err).Warn("skipping band record")
	return domain.RejectedRecord{
		Year:   rec.Year,
		Level:  rec.Level,
		Kind:   domain.KindOf(err),
		Reason: err.Error(),
	}
}

func missingFields(fields map[string]any, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func coerceAll(rec domain.RawBandRecord, fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, name := range fields {
		v, err := toFloat(rec.Fields[name])
		if err != nil {
			return nil, &domain.TypeCoercionError{Year: rec.Year, Field: name, Value: rec.Fields[name]}
		}
		out[i] = v
	}
	return out, nil
}

var numberCleaner = strings.NewReplacer(",", "", "_", "", " ", "")

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(numberCleaner.Replace(strings.TrimSpace(n)), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, strconv.ErrSyntax
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}
