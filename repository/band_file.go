package repository

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"salary-band/domain"
)

// LevelColumn is the CSV column holding the job level.
const LevelColumn = "Level"

type bandFileDTO struct {
	Bands []domain.RawBandRecord `yaml:"bands"`
}

// ReadBandsFile reads a CSV or YAML band file. Records without a year get
// year.
func ReadBandsFile(path string, year int) ([]domain.RawBandRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open band file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadBandsCSV(f, year)
	case ".yaml", ".yml":
		recs, err := ReadBandsYAML(f)
		if err != nil {
			return nil, errors.Wrapf(err, "band file %s", path)
		}
		for i := range recs {
			if recs[i].Year == 0 {
				recs[i].Year = year
			}
		}
		return recs, nil
	}
	return nil, errors.Errorf("unsupported band file extension %q", filepath.Ext(path))
}

// ReadBandsCSV reads one record per row. Empty cells are left out so that
// schema detection only sees the columns a row actually fills.
func ReadBandsCSV(r io.Reader, year int) ([]domain.RawBandRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var recs []domain.RawBandRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}

		rec := domain.RawBandRecord{Year: year, Fields: make(map[string]any, len(row))}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if header[i] == LevelColumn {
				rec.Level = cell
				continue
			}
			rec.Fields[header[i]] = cell
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ReadBandsYAML reads a document of the form
//
//	bands:
//	  - year: 2024
//	    level: "5"
//	    fields: {Minimum: 100, Maximum: 200, ...}
func ReadBandsYAML(r io.Reader) ([]domain.RawBandRecord, error) {
	var dto bandFileDTO
	if err := yaml.NewDecoder(r).Decode(&dto); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	return dto.Bands, nil
}

// FilterLevel keeps the records of level.
func FilterLevel(recs []domain.RawBandRecord, level string) []domain.RawBandRecord {
	var out []domain.RawBandRecord
	for _, rec := range recs {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}
