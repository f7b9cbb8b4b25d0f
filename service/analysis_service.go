package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apex/log"

	"salary-band/domain"
)

// AnalysisService runs the penetration and projection pipeline. It holds no
// state and is safe for concurrent use.
type AnalysisService struct{}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

// Analyze validates the input, computes the base year penetration rate, the
// adjusted salary of every year and the projection. A projection that cannot
// be computed is reported in the result and does not fail the analysis.
func (s *AnalysisService) Analyze(
	input domain.AnalysisInput,
) (domain.AnalysisResult, error) {

	horizon, err := validateInput(input)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	rate, err := BasePenetrationRate(input.Entries, input.BaseYear)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result := domain.AnalysisResult{
		BaseYear:          input.BaseYear,
		PenetrationRate:   rate,
		OutOfBand:         rate < 0 || rate > 1,
		Adjusted:          make(map[int]float64, len(input.Entries)),
		YearlyPenetration: make(map[int]float64, len(input.Entries)),
	}

	ranges := make([]domain.YearRange, 0, len(input.Entries))
	for _, e := range input.Entries {
		ranges = append(ranges, e.Range)
		result.Adjusted[e.Range.Year] = AdjustedSalary(e.Range, rate)

		// Posición propia de cada año observado (puede no estar definida)
		if e.Observation == nil {
			continue
		}
		own, err := PenetrationRate(e.Range, e.Observation.Amount)
		if err != nil {
			result.DegenerateYears = append(result.DegenerateYears, e.Range.Year)
			continue
		}
		result.YearlyPenetration[e.Range.Year] = own
	}
	sort.Ints(result.DegenerateYears)

	projection, err := ProjectFutureYears(ranges, rate, horizon)
	if err != nil {
		var degenerate *domain.DegenerateRangeError
		if !errors.As(err, &degenerate) {
			return domain.AnalysisResult{}, err
		}
		log.WithError(err).WithField("base_year", input.BaseYear).Warn("projection skipped")
		projection = domain.Projection{
			Status: domain.ProjectionDegenerateGrowth,
			Years:  []domain.ProjectedYear{},
			Reason: err.Error(),
		}
	}
	result.Projection = projection

	log.WithFields(log.Fields{
		"base_year":  input.BaseYear,
		"years":      len(input.Entries),
		"rate":       rate,
		"projection": projection.Status,
	}).Debug("analysis computed")

	return result, nil
}

// DefaultBaseYear picks the reference year when the caller did not choose
// one: the second year when more than two are known, otherwise the first.
func DefaultBaseYear(years []int) (int, error) {
	if len(years) == 0 {
		return 0, domain.ErrNoEntries
	}
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)
	if len(sorted) > 2 {
		return sorted[1], nil
	}
	return sorted[0], nil
}

// BuildInput pairs ranges with observations by year. Years without an
// observation get a nil Observation.
func BuildInput(
	ranges []domain.YearRange,
	observations map[int]float64,
	baseYear int,
	horizon int,
) domain.AnalysisInput {
	sorted := append([]domain.YearRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	entries := make([]domain.AnalysisEntry, 0, len(sorted))
	for _, r := range sorted {
		e := domain.AnalysisEntry{Range: r}
		if amount, ok := observations[r.Year]; ok {
			e.Observation = &domain.SalaryObservation{Year: r.Year, Amount: amount}
		}
		entries = append(entries, e)
	}
	return domain.AnalysisInput{Entries: entries, BaseYear: baseYear, HorizonYears: horizon}
}

func validateInput(input domain.AnalysisInput) (int, error) {
	if len(input.Entries) == 0 {
		return 0, domain.ErrNoEntries
	}
	if len(input.Entries) > MaxAnalysisYears {
		return 0, fmt.Errorf("%w: número de años excede el máximo de %d", domain.ErrLimitExceeded, MaxAnalysisYears)
	}

	horizon := input.HorizonYears
	if horizon == 0 {
		horizon = DefaultHorizonYears
	}
	if horizon < 1 || horizon > MaxHorizonYears {
		return 0, domain.ErrInvalidHorizon
	}

	seen := make(map[int]bool, len(input.Entries))
	baseFound := false
	for _, e := range input.Entries {
		if seen[e.Range.Year] {
			return 0, &domain.DuplicateYearError{Year: e.Range.Year}
		}
		seen[e.Range.Year] = true
		if err := checkBandOrder(e.Range); err != nil {
			return 0, err
		}
		if e.Observation != nil && e.Observation.Year != e.Range.Year {
			return 0, &domain.ObservationMismatchError{
				RangeYear:       e.Range.Year,
				ObservationYear: e.Observation.Year,
			}
		}
		if e.Range.Year == input.BaseYear {
			if e.Observation == nil {
				return 0, domain.ErrBaseObservationMissing
			}
			baseFound = true
		}
	}
	if !baseFound {
		return 0, domain.ErrBaseYearMissing
	}

	return horizon, nil
}
