package repository

import (
	"context"
	"sort"
	"sync"

	"salary-band/domain"
)

// BandRepositoryMemory is an in-memory implementation of BandRepository.
type BandRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]map[int]domain.RawBandRecord
}

// NewBandRepositoryMemory creates a new in-memory band repository.
func NewBandRepositoryMemory() *BandRepositoryMemory {
	return &BandRepositoryMemory{
		data: make(map[string]map[int]domain.RawBandRecord),
	}
}

// Save stores the records in memory.
func (r *BandRepositoryMemory) Save(
	_ context.Context,
	level string,
	recs []domain.RawBandRecord,
) error {
	if len(recs) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byYear, ok := r.data[level]
	if !ok {
		byYear = make(map[int]domain.RawBandRecord)
		r.data[level] = byYear
	}
	for _, rec := range recs {
		rec.Level = level
		rec.Fields = copyFields(rec.Fields)
		byYear[rec.Year] = rec
	}
	return nil
}

// FindByLevel returns the records of level ordered by year.
func (r *BandRepositoryMemory) FindByLevel(
	_ context.Context,
	level string,
) ([]domain.RawBandRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byYear := r.data[level]
	out := make([]domain.RawBandRecord, 0, len(byYear))
	for _, rec := range byYear {
		rec.Fields = copyFields(rec.Fields)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// Levels returns the stored levels in lexical order.
func (r *BandRepositoryMemory) Levels(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels := make([]string, 0, len(r.data))
	for level := range r.data {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels, nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
