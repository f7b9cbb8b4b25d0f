package service

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"salary-band/domain"
)

func entry(year int, min, max, median, amount float64) domain.AnalysisEntry {
	return domain.AnalysisEntry{
		Range:       domain.YearRange{Year: year, Min: min, Max: max, Median: median},
		Observation: &domain.SalaryObservation{Year: year, Amount: amount},
	}
}

func unobserved(year int, min, max, median float64) domain.AnalysisEntry {
	return domain.AnalysisEntry{Range: domain.YearRange{Year: year, Min: min, Max: max, Median: median}}
}

func TestAnalyze_ThreeYears(t *testing.T) {
	service := NewAnalysisService()

	input := domain.AnalysisInput{
		Entries: []domain.AnalysisEntry{
			entry(2023, 90, 180, 135, 120),
			entry(2024, 100, 200, 150, 150),
			entry(2025, 110, 220, 165, 180),
		},
		BaseYear: 2024,
	}

	result, err := service.Analyze(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PenetrationRate != 0.5 {
		t.Errorf("expected rate 0.5, got %v", result.PenetrationRate)
	}
	if result.OutOfBand {
		t.Errorf("expected rate inside band")
	}

	wantAdjusted := map[int]float64{2023: 135, 2024: 150, 2025: 165}
	if diff := cmp.Diff(wantAdjusted, result.Adjusted, cmpopts.EquateApprox(0, tolerance)); diff != "" {
		t.Errorf("adjusted mismatch (-want +got):\n%s", diff)
	}

	wantYearly := map[int]float64{2023: 1.0 / 3, 2024: 0.5, 2025: 7.0 / 11}
	if diff := cmp.Diff(wantYearly, result.YearlyPenetration, cmpopts.EquateApprox(0, tolerance)); diff != "" {
		t.Errorf("yearly penetration mismatch (-want +got):\n%s", diff)
	}

	if result.Projection.Status != domain.ProjectionOK {
		t.Fatalf("expected projection ok, got %q", result.Projection.Status)
	}
	if n := len(result.Projection.Years); n != 5 {
		t.Fatalf("expected 3 historical + 2 projected years, got %d", n)
	}
	last := result.Projection.Years[4]
	if last.Year != 2027 || !last.Projected {
		t.Errorf("unexpected last projected year %+v", last)
	}
}

func TestAnalyze_OutOfBandRatePreserved(t *testing.T) {
	service := NewAnalysisService()

	result, err := service.Analyze(domain.AnalysisInput{
		Entries:  []domain.AnalysisEntry{entry(2024, 100, 200, 150, 250)},
		BaseYear: 2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PenetrationRate != 1.5 {
		t.Errorf("expected rate 1.5, got %v", result.PenetrationRate)
	}
	if !result.OutOfBand {
		t.Errorf("expected out of band flag")
	}
	if result.Projection.Status != domain.ProjectionInsufficientData {
		t.Errorf("expected insufficient_data, got %q", result.Projection.Status)
	}
	if result.Adjusted[2024] != 250 {
		t.Errorf("expected adjusted 250, got %v", result.Adjusted[2024])
	}
}

func TestAnalyze_DegenerateBaseYear(t *testing.T) {
	service := NewAnalysisService()

	_, err := service.Analyze(domain.AnalysisInput{
		Entries:  []domain.AnalysisEntry{entry(2024, 100, 100, 100, 100), entry(2025, 110, 220, 165, 180)},
		BaseYear: 2024,
	})

	var degenerate *domain.DegenerateRangeError
	if !errors.As(err, &degenerate) {
		t.Errorf("expected DegenerateRangeError, got %v", err)
	}
}

func TestAnalyze_DegenerateOtherYear(t *testing.T) {
	service := NewAnalysisService()

	result, err := service.Analyze(domain.AnalysisInput{
		Entries:  []domain.AnalysisEntry{entry(2024, 100, 200, 150, 150), entry(2025, 150, 150, 150, 150)},
		BaseYear: 2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]int{2025}, result.DegenerateYears); diff != "" {
		t.Errorf("degenerate years mismatch (-want +got):\n%s", diff)
	}
	if _, ok := result.YearlyPenetration[2025]; ok {
		t.Errorf("degenerate year must not have a penetration rate")
	}
	if result.Adjusted[2025] != 150 {
		t.Errorf("expected adjusted 150, got %v", result.Adjusted[2025])
	}
}

func TestAnalyze_DegenerateGrowthKeepsRate(t *testing.T) {
	service := NewAnalysisService()

	result, err := service.Analyze(domain.AnalysisInput{
		Entries:  []domain.AnalysisEntry{entry(2024, 0, 200, 100, 100), entry(2025, 10, 220, 115, 120)},
		BaseYear: 2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PenetrationRate != 0.5 {
		t.Errorf("expected rate 0.5, got %v", result.PenetrationRate)
	}
	if result.Projection.Status != domain.ProjectionDegenerateGrowth {
		t.Errorf("expected degenerate_growth, got %q", result.Projection.Status)
	}
	if result.Projection.Reason == "" {
		t.Errorf("expected a reason for the skipped projection")
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	service := NewAnalysisService()

	tests := []struct {
		name  string
		input domain.AnalysisInput
		kind  domain.ErrorKind
	}{
		{"no entries", domain.AnalysisInput{BaseYear: 2024}, domain.KindInvalidInput},
		{"base year missing", domain.AnalysisInput{
			Entries: []domain.AnalysisEntry{entry(2024, 1, 2, 1.5, 1)}, BaseYear: 2025,
		}, domain.KindInvalidInput},
		{"duplicate year", domain.AnalysisInput{
			Entries: []domain.AnalysisEntry{entry(2024, 1, 2, 1.5, 1), entry(2024, 1, 3, 2, 1)}, BaseYear: 2024,
		}, domain.KindInvalidInput},
		{"mismatched observation", domain.AnalysisInput{
			Entries: []domain.AnalysisEntry{{
				Range:       domain.YearRange{Year: 2024, Min: 1, Max: 2, Median: 1.5},
				Observation: &domain.SalaryObservation{Year: 2023, Amount: 1},
			}},
			BaseYear: 2024,
		}, domain.KindInvalidInput},
		{"horizon too long", domain.AnalysisInput{
			Entries: []domain.AnalysisEntry{entry(2024, 1, 2, 1.5, 1)}, BaseYear: 2024, HorizonYears: 3,
		}, domain.KindInvalidInput},
		{"base year not observed", domain.AnalysisInput{
			Entries:  []domain.AnalysisEntry{unobserved(2024, 100, 200, 150), entry(2025, 110, 220, 165, 180)},
			BaseYear: 2024,
		}, domain.KindInvalidInput},
		{"median above max", domain.AnalysisInput{
			Entries: []domain.AnalysisEntry{entry(2024, 200, 100, 500, 150)}, BaseYear: 2024,
		}, domain.KindBandOrder},
		{"min above median in other year", domain.AnalysisInput{
			Entries:  []domain.AnalysisEntry{entry(2024, 100, 200, 150, 150), entry(2025, 300, 400, 250, 350)},
			BaseYear: 2024,
		}, domain.KindBandOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Analyze(tt.input)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := domain.KindOf(err); got != tt.kind {
				t.Errorf("expected kind %q, got %q (%v)", tt.kind, got, err)
			}
		})
	}
}

func TestDefaultBaseYear(t *testing.T) {
	tests := []struct {
		years []int
		want  int
	}{
		{[]int{2025, 2023, 2024}, 2024},
		{[]int{2025, 2024}, 2024},
		{[]int{2025}, 2025},
	}
	for _, tt := range tests {
		got, err := DefaultBaseYear(tt.years)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("years %v: expected %d, got %d", tt.years, tt.want, got)
		}
	}

	if _, err := DefaultBaseYear(nil); !errors.Is(err, domain.ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}

func TestBuildInput(t *testing.T) {
	ranges := []domain.YearRange{{Year: 2025, Min: 1, Max: 2}, {Year: 2024, Min: 1, Max: 2}}

	input := BuildInput(ranges, map[int]float64{2024: 1.5}, 2024, 0)

	if len(input.Entries) != 2 || input.Entries[0].Range.Year != 2024 {
		t.Fatalf("expected entries ordered by year, got %+v", input.Entries)
	}
	if obs := input.Entries[0].Observation; obs == nil || obs.Amount != 1.5 {
		t.Errorf("expected 2024 observation 1.5, got %+v", obs)
	}
	if obs := input.Entries[1].Observation; obs != nil {
		t.Errorf("expected no 2025 observation, got %+v", obs)
	}
}

func TestAnalyze_UnobservedYear(t *testing.T) {
	service := NewAnalysisService()

	result, err := service.Analyze(domain.AnalysisInput{
		Entries: []domain.AnalysisEntry{
			entry(2024, 100, 200, 150, 150),
			unobserved(2025, 110, 220, 165),
		},
		BaseYear: 2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := result.YearlyPenetration[2025]; ok {
		t.Errorf("expected no yearly penetration for unobserved 2025, got %v", result.YearlyPenetration)
	}
	if result.YearlyPenetration[2024] != 0.5 {
		t.Errorf("expected 2024 yearly penetration 0.5, got %v", result.YearlyPenetration[2024])
	}
	if !almostEqual(result.Adjusted[2025], 165) {
		t.Errorf("expected 2025 adjusted 165, got %v", result.Adjusted[2025])
	}
	if len(result.DegenerateYears) != 0 {
		t.Errorf("unobserved year is not degenerate, got %v", result.DegenerateYears)
	}
}

func TestAnalyze_BaseObservationMissing(t *testing.T) {
	service := NewAnalysisService()

	input := BuildInput(
		[]domain.YearRange{
			{Year: 2024, Min: 100, Max: 200, Median: 150},
			{Year: 2025, Min: 110, Max: 220, Median: 165},
		},
		map[int]float64{2025: 180},
		2024, 0,
	)

	_, err := service.Analyze(input)
	if !errors.Is(err, domain.ErrBaseObservationMissing) {
		t.Fatalf("expected ErrBaseObservationMissing, got %v", err)
	}
}
