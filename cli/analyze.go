package cli

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"salary-band/config"
	"salary-band/domain"
	"salary-band/repository"
	"salary-band/service"
)

type analyzeOutput struct {
	Level    string                  `json:"level,omitempty"`
	Result   domain.AnalysisResult   `json:"result"`
	Rejected []domain.RejectedRecord `json:"rejected,omitempty"`
}

func analyzeCmd(verbose *bool) *cobra.Command {
	var bands map[string]string
	var salaries map[string]string
	var level string
	var baseYear int
	var horizon int

	c := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the penetration rate and projection from band files",
		Example: "  salary-band analyze --level 5 \\\n" +
			"    --bands 2024=salary_2024.csv,2025=salary_2025.csv \\\n" +
			"    --salary 2024=480000,2025=505000",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg, *verbose)

			recs, err := readBandFiles(bands, level)
			if err != nil {
				return err
			}
			observations, err := parseSalaries(salaries)
			if err != nil {
				return err
			}

			ranges, rejected := service.NormalizeAll(recs)
			if baseYear == 0 {
				years := make([]int, 0, len(ranges))
				for _, r := range ranges {
					years = append(years, r.Year)
				}
				if baseYear, err = service.DefaultBaseYear(years); err != nil {
					return err
				}
				log.WithField("base_year", baseYear).Debug("using default base year")
			}

			input := service.BuildInput(ranges, observations, baseYear, horizon)
			result, err := service.NewAnalysisService().Analyze(input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analyzeOutput{Level: level, Result: result, Rejected: rejected})
		},
	}

	c.Flags().StringToStringVar(&bands, "bands", nil, "Band files as YEAR=FILE (.csv, .yaml)")
	c.Flags().StringToStringVar(&salaries, "salary", nil, "Observed salaries as YEAR=AMOUNT")
	c.Flags().StringVarP(&level, "level", "l", "", "Job level to select from the band files")
	c.Flags().IntVar(&baseYear, "base-year", 0, "Reference year (default: second year when more than two, else first)")
	c.Flags().IntVar(&horizon, "horizon", service.DefaultHorizonYears, "Projected years (1 or 2)")

	_ = c.MarkFlagRequired("bands")
	return c
}

func readBandFiles(files map[string]string, level string) ([]domain.RawBandRecord, error) {
	years := make([]string, 0, len(files))
	for year := range files {
		years = append(years, year)
	}
	sort.Strings(years)

	var out []domain.RawBandRecord
	for _, key := range years {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Errorf("invalid band year %q", key)
		}
		recs, err := repository.ReadBandsFile(files[key], year)
		if err != nil {
			return nil, err
		}
		if level != "" {
			recs = repository.FilterLevel(recs, level)
		}
		log.WithFields(log.Fields{"year": year, "file": files[key], "records": len(recs)}).Debug("band file read")
		out = append(out, recs...)
	}

	if level == "" {
		if levels := distinctLevels(out); len(levels) > 1 {
			return nil, errors.Errorf("band files contain several levels (%s); choose one with --level",
				strings.Join(levels, ", "))
		}
	}
	return out, nil
}

func distinctLevels(recs []domain.RawBandRecord) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, rec := range recs {
		if rec.Level == "" || seen[rec.Level] {
			continue
		}
		seen[rec.Level] = true
		levels = append(levels, rec.Level)
	}
	sort.Strings(levels)
	return levels
}

func parseSalaries(values map[string]string) (map[int]float64, error) {
	out := make(map[int]float64, len(values))
	for key, value := range values {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Errorf("invalid salary year %q", key)
		}
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "salary for %d", year)
		}
		out[year] = amount
	}
	return out, nil
}
