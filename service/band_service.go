package service

import (
	"context"
	"fmt"
	"strings"

	"salary-band/domain"
	"salary-band/repository"
)

type BandService struct {
	repo repository.BandRepository
}

// NewBandService creates a new BandService with the given repository.
func NewBandService(repo repository.BandRepository) *BandService {
	return &BandService{repo: repo}
}

// StoreResult reports which records of a batch were kept.
type StoreResult struct {
	Level    string                  `json:"level"`
	Accepted []domain.YearRange      `json:"accepted"`
	Rejected []domain.RejectedRecord `json:"rejected,omitempty"`
}

// Store normalizes recs and stores the ones that normalize cleanly under
// level. Rejected records, including repeats of a year already accepted in
// the same batch, are reported, not stored.
func (s *BandService) Store(
	ctx context.Context,
	level string,
	recs []domain.RawBandRecord,
) (StoreResult, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return StoreResult{}, domain.ErrEmptyLevel
	}
	if len(recs) > MaxRecordsPerBatch {
		return StoreResult{}, fmt.Errorf("%w: número de registros excede el máximo de %d", domain.ErrLimitExceeded, MaxRecordsPerBatch)
	}

	batch := make([]domain.RawBandRecord, len(recs))
	for i, rec := range recs {
		rec.Level = level
		batch[i] = rec
	}

	// Un año repetido en el mismo lote se rechaza; gana el primero
	accepted := make([]domain.RawBandRecord, 0, len(batch))
	result := StoreResult{Level: level, Accepted: []domain.YearRange{}}
	var duplicates []domain.RejectedRecord
	seen := make(map[int]bool, len(batch))
	result.Rejected = normalizeEach(batch, func(rec domain.RawBandRecord, r domain.YearRange) {
		if seen[rec.Year] {
			duplicates = append(duplicates, rejectRecord(rec, &domain.DuplicateYearError{Year: rec.Year}))
			return
		}
		seen[rec.Year] = true
		accepted = append(accepted, rec)
		result.Accepted = append(result.Accepted, r)
	})
	result.Rejected = append(result.Rejected, duplicates...)

	if err := s.repo.Save(ctx, level, accepted); err != nil {
		return StoreResult{}, err
	}
	return result, nil
}

// Ranges loads the stored records of level and normalizes them.
func (s *BandService) Ranges(
	ctx context.Context,
	level string,
) ([]domain.YearRange, []domain.RejectedRecord, error) {
	recs, err := s.repo.FindByLevel(ctx, level)
	if err != nil {
		return nil, nil, err
	}
	ranges, rejected := NormalizeAll(recs)
	return ranges, rejected, nil
}

func (s *BandService) Levels(ctx context.Context) ([]string, error) {
	return s.repo.Levels(ctx)
}
