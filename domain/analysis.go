package domain

type SalaryObservation struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// AnalysisEntry pairs a year's band with the salary observed that year. A nil
// Observation means no salary was observed.
type AnalysisEntry struct {
	Range       YearRange
	Observation *SalaryObservation
}

type AnalysisInput struct {
	Entries      []AnalysisEntry
	BaseYear     int
	HorizonYears int // 0 selects the default horizon
}

type ProjectionStatus string

const (
	ProjectionOK               ProjectionStatus = "ok"
	ProjectionInsufficientData ProjectionStatus = "insufficient_data"
	ProjectionDegenerateGrowth ProjectionStatus = "degenerate_growth"
)

type GrowthRates struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

type ProjectedYear struct {
	Year      int     `json:"year"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Median    float64 `json:"median"`
	Adjusted  float64 `json:"adjusted"`
	Projected bool    `json:"projected"`
	// GrowthFromLast is Adjusted relative to the last historical adjusted
	// salary, minus one. Only set on projected years, and only when the last
	// historical adjusted salary is non-zero.
	GrowthFromLast *float64 `json:"growth_from_last,omitempty"`
}

type Projection struct {
	Status ProjectionStatus `json:"status"`
	Growth *GrowthRates     `json:"growth,omitempty"`
	Years  []ProjectedYear  `json:"years"`
	Reason string           `json:"reason,omitempty"`
}

type AnalysisResult struct {
	BaseYear          int             `json:"base_year"`
	PenetrationRate   float64         `json:"penetration_rate"`
	OutOfBand         bool            `json:"out_of_band"`
	Adjusted          map[int]float64 `json:"adjusted"`
	YearlyPenetration map[int]float64 `json:"yearly_penetration"`
	DegenerateYears   []int           `json:"degenerate_years,omitempty"`
	Projection        Projection      `json:"projection"`
}
