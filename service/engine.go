package service

import (
	"fmt"
	"math"
	"sort"

	"salary-band/domain"
)

// PenetrationRate returns the relative position of observation inside r.
// Values outside [0, 1] are valid and are not clamped.
func PenetrationRate(r domain.YearRange, observation float64) (float64, error) {
	if r.Max == r.Min {
		return 0, &domain.DegenerateRangeError{
			Year:   r.Year,
			Reason: fmt.Sprintf("max equals min (%g)", r.Min),
		}
	}
	return (observation - r.Min) / (r.Max - r.Min), nil
}

// BasePenetrationRate computes the penetration rate of the base year entry.
func BasePenetrationRate(entries []domain.AnalysisEntry, baseYear int) (float64, error) {
	for _, e := range entries {
		if e.Range.Year == baseYear {
			if e.Observation == nil {
				return 0, domain.ErrBaseObservationMissing
			}
			return PenetrationRate(e.Range, e.Observation.Amount)
		}
	}
	return 0, domain.ErrBaseYearMissing
}

// AdjustedSalary is the salary that sits at rate inside r.
func AdjustedSalary(r domain.YearRange, rate float64) float64 {
	return r.Min + rate*(r.Max-r.Min)
}

// GrowthRate estimates the compound per-period growth of an ordered series
// from its first and last values. Intermediate values are ignored.
func GrowthRate(series []float64) (float64, error) {
	return growthRate("", series)
}

func growthRate(name string, series []float64) (float64, error) {
	if len(series) < MinProjectionYears {
		return 0, &domain.InsufficientDataError{Need: MinProjectionYears, Have: len(series)}
	}

	first, last := series[0], series[len(series)-1]
	switch {
	case first == 0:
		return 0, &domain.DegenerateRangeError{Series: name, Reason: "first value is zero"}
	case first < 0 || last < 0:
		return 0, &domain.DegenerateRangeError{
			Series: name,
			Reason: fmt.Sprintf("negative boundary value (first %g, last %g)", first, last),
		}
	}

	periods := float64(len(series) - 1)
	return math.Pow(last/first, 1/periods) - 1, nil
}

// ProjectFutureYears extends ranges by horizon years, growing min, max and
// median independently and placing the salary at rate inside each projected
// band. The result holds every historical year followed by the projected
// ones. With fewer than two distinct years the projection is empty and its
// status is insufficient_data; that is not an error.
func ProjectFutureYears(ranges []domain.YearRange, rate float64, horizon int) (domain.Projection, error) {
	if horizon < 1 || horizon > MaxHorizonYears {
		return domain.Projection{}, domain.ErrInvalidHorizon
	}

	sorted := make([]domain.YearRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Year == sorted[i-1].Year {
			return domain.Projection{}, &domain.DuplicateYearError{Year: sorted[i].Year}
		}
	}

	if len(sorted) < MinProjectionYears {
		have := len(sorted)
		return domain.Projection{
			Status: domain.ProjectionInsufficientData,
			Years:  []domain.ProjectedYear{},
			Reason: (&domain.InsufficientDataError{Need: MinProjectionYears, Have: have}).Error(),
		}, nil
	}

	mins := make([]float64, len(sorted))
	maxs := make([]float64, len(sorted))
	medians := make([]float64, len(sorted))
	for i, r := range sorted {
		mins[i], maxs[i], medians[i] = r.Min, r.Max, r.Median
	}

	var growth domain.GrowthRates
	var err error
	if growth.Min, err = growthRate("min", mins); err != nil {
		return domain.Projection{}, err
	}
	if growth.Max, err = growthRate("max", maxs); err != nil {
		return domain.Projection{}, err
	}
	if growth.Median, err = growthRate("median", medians); err != nil {
		return domain.Projection{}, err
	}

	years := make([]domain.ProjectedYear, 0, len(sorted)+horizon)
	for _, r := range sorted {
		years = append(years, domain.ProjectedYear{
			Year:     r.Year,
			Min:      r.Min,
			Max:      r.Max,
			Median:   r.Median,
			Adjusted: AdjustedSalary(r, rate),
		})
	}

	last := sorted[len(sorted)-1]
	lastAdjusted := AdjustedSalary(last, rate)
	for i := 1; i <= horizon; i++ {
		step := float64(i)
		r := domain.YearRange{
			Year:   last.Year + i,
			Min:    last.Min * math.Pow(1+growth.Min, step),
			Max:    last.Max * math.Pow(1+growth.Max, step),
			Median: last.Median * math.Pow(1+growth.Median, step),
		}
		py := domain.ProjectedYear{
			Year:      r.Year,
			Min:       r.Min,
			Max:       r.Max,
			Median:    r.Median,
			Adjusted:  AdjustedSalary(r, rate),
			Projected: true,
		}
		if lastAdjusted != 0 {
			fromLast := py.Adjusted/lastAdjusted - 1
			py.GrowthFromLast = &fromLast
		}
		years = append(years, py)
	}

	return domain.Projection{
		Status: domain.ProjectionOK,
		Growth: &growth,
		Years:  years,
	}, nil
}
