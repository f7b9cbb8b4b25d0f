package repository

import (
	"context"

	"salary-band/domain"
)

// BandRepository stores raw band records per job level. Records are keyed by
// year: saving a record for a year replaces the previous one.
type BandRepository interface {
	Save(ctx context.Context, level string, recs []domain.RawBandRecord) error
	FindByLevel(ctx context.Context, level string) ([]domain.RawBandRecord, error)
	Levels(ctx context.Context) ([]string, error)
}
