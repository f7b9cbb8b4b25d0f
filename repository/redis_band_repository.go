package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"salary-band/domain"
)

const (
	redisLevelsKey = "bands:levels"
	redisBandsKey  = "bands:level:"
)

// RedisBandRepository keeps raw band records in one Redis hash per level,
// with the year as hash field and the JSON record as value.
type RedisBandRepository struct {
	client *redis.Client
}

func NewRedisBandRepository(addr string) *RedisBandRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisBandRepository{client: rdb}
}

func (r *RedisBandRepository) Ping(ctx context.Context) error {
	return errors.Wrap(r.client.Ping(ctx).Err(), "redis ping")
}

func (r *RedisBandRepository) Close() error {
	return r.client.Close()
}

func (r *RedisBandRepository) Save(
	ctx context.Context,
	level string,
	recs []domain.RawBandRecord,
) error {
	values := make([]any, 0, 2*len(recs))
	for _, rec := range recs {
		rec.Level = level
		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encode band record %d", rec.Year)
		}
		values = append(values, strconv.Itoa(rec.Year), string(data))
	}
	if len(values) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, redisBandsKey+level, values...)
	pipe.SAdd(ctx, redisLevelsKey, level)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "save bands for level %s", level)
	}
	return nil
}

func (r *RedisBandRepository) FindByLevel(
	ctx context.Context,
	level string,
) ([]domain.RawBandRecord, error) {
	raw, err := r.client.HGetAll(ctx, redisBandsKey+level).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "load bands for level %s", level)
	}

	out := make([]domain.RawBandRecord, 0, len(raw))
	for year, data := range raw {
		var rec domain.RawBandRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, errors.Wrapf(err, "decode band record %s/%s", level, year)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (r *RedisBandRepository) Levels(ctx context.Context) ([]string, error) {
	levels, err := r.client.SMembers(ctx, redisLevelsKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list levels")
	}
	sort.Strings(levels)
	return levels, nil
}
