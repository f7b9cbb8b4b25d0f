package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"salary-band/domain"
)

func TestReadBandsCSV(t *testing.T) {
	data := "Level,Minimum,Maximum,Lower_Mid_Zone,Upper_Mid_Zone\n" +
		"5,100,200,120,140\n" +
		"6, 300 ,,320,\n"

	recs, err := ReadBandsCSV(strings.NewReader(data), 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.RawBandRecord{
		{Year: 2024, Level: "5", Fields: map[string]any{
			"Minimum": "100", "Maximum": "200", "Lower_Mid_Zone": "120", "Upper_Mid_Zone": "140",
		}},
		{Year: 2024, Level: "6", Fields: map[string]any{
			"Minimum": "300", "Lower_Mid_Zone": "320",
		}},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadBandsYAML(t *testing.T) {
	data := `
bands:
  - year: 2025
    level: "5"
    fields:
      Lower_Min: 110
      Upper_Max: 220.5
      Middle_Min: 130
      Middle_Max: 150
`
	recs, err := ReadBandsYAML(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Year != 2025 || recs[0].Level != "5" {
		t.Errorf("unexpected record header %+v", recs[0])
	}
	if recs[0].Fields["Upper_Max"] != 220.5 {
		t.Errorf("expected Upper_Max 220.5, got %v", recs[0].Fields["Upper_Max"])
	}
}

func TestReadBandsFile_YearFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bands.yaml")
	content := "bands:\n  - level: \"5\"\n    fields: {Minimum: 1}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	recs, err := ReadBandsFile(path, 2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Year != 2023 {
		t.Errorf("expected year 2023, got %d", recs[0].Year)
	}
}

func TestReadBandsFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadBandsFile(path, 2024); err == nil {
		t.Errorf("expected error for unsupported extension")
	}
}

func TestFilterLevel(t *testing.T) {
	recs := []domain.RawBandRecord{{Year: 2024, Level: "5"}, {Year: 2024, Level: "6"}}
	got := FilterLevel(recs, "6")
	if len(got) != 1 || got[0].Level != "6" {
		t.Errorf("unexpected filter result %+v", got)
	}
}
