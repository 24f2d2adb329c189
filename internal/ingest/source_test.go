package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sutherm/glos-geo/internal/model"
)

var testSurvey = model.SurveyInfo{
	Name:         "MANIFEST-VESSEL",
	Organization: "GLOS",
	Type:         "CSB",
	SourceURL:    "https://example.org/archive",
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestCSVSourceReadSoundings(t *testing.T) {
	path := writeTempFile(t, "points.csv",
		"LON,LAT,DEPTH,TIME,PLATFORM_NAME,PROVIDER\n"+
			"-89.4012,43.0731,12.5,2021-01-15T12:00:00Z,ZEPHYR,NOAA\n"+
			"-89.4013,43.0732,13.0,2021-01-15T12:00:05Z,,\n")

	src, err := New("csv", testSurvey, UnitMeters)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := src.ReadSoundings(path)
	if err != nil {
		t.Fatalf("ReadSoundings() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.Lon != -89.4012 || first.Lat != 43.0731 {
		t.Errorf("coords = (%v, %v), want (43.0731, -89.4012)", first.Lat, first.Lon)
	}
	if first.Depth != 12.5 {
		t.Errorf("Depth = %v, want 12.5", first.Depth)
	}
	wantTime := time.Date(2021, 1, 15, 12, 0, 0, 0, time.UTC)
	if !first.Time.Equal(wantTime) {
		t.Errorf("Time = %v, want %v", first.Time, wantTime)
	}
	if first.Survey.Name != "ZEPHYR" || first.Survey.Organization != "NOAA" {
		t.Errorf("Survey = %+v, want per-row PLATFORM_NAME/PROVIDER override", first.Survey)
	}

	// Blank per-row columns fall back to the manifest survey.
	second := got[1]
	if second.Survey.Name != "MANIFEST-VESSEL" || second.Survey.Organization != "GLOS" {
		t.Errorf("Survey = %+v, want manifest fallback", second.Survey)
	}
}

func TestCSVSourceColumnOrderIndependent(t *testing.T) {
	path := writeTempFile(t, "points.csv",
		"TIME,DEPTH,LAT,LON\n"+
			"2021-01-15T12:00:00Z,7.25,43.07,-89.40\n")

	src, _ := New("csv", testSurvey, UnitMeters)
	got, err := src.ReadSoundings(path)
	if err != nil {
		t.Fatalf("ReadSoundings() error = %v", err)
	}
	if got[0].Depth != 7.25 || got[0].Lat != 43.07 || got[0].Lon != -89.40 {
		t.Errorf("parsed = %+v, columns matched by position instead of header", got[0])
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	path := writeTempFile(t, "points.csv",
		"LON,LAT,TIME\n-89.40,43.07,2021-01-15T12:00:00Z\n")

	src, _ := New("csv", testSurvey, UnitMeters)
	_, err := src.ReadSoundings(path)

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %v, want *ReadError", err)
	}
	if readErr.Line != 1 {
		t.Errorf("Line = %d, want 1 (header)", readErr.Line)
	}
}

func TestCSVSourceMalformedRow(t *testing.T) {
	path := writeTempFile(t, "points.csv",
		"LON,LAT,DEPTH,TIME\n"+
			"-89.40,43.07,12.5,2021-01-15T12:00:00Z\n"+
			"-89.41,43.08,bottomless,2021-01-15T12:00:05Z\n")

	src, _ := New("csv", testSurvey, UnitMeters)
	_, err := src.ReadSoundings(path)

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %v, want *ReadError", err)
	}
	if readErr.Line != 3 {
		t.Errorf("Line = %d, want 3", readErr.Line)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src, _ := New("csv", testSurvey, UnitMeters)
	_, err := src.ReadSoundings(filepath.Join(t.TempDir(), "nope.csv"))

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %v, want *ReadError", err)
	}
}

func TestDepthUnitConversion(t *testing.T) {
	tests := []struct {
		unit DepthUnit
		want float64
	}{
		{UnitMeters, 10},
		{UnitFeet, 3.048},
		{UnitFathoms, 18.288},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			path := writeTempFile(t, "points.csv",
				"LON,LAT,DEPTH,TIME\n-89.40,43.07,10,2021-01-15T12:00:00Z\n")

			src, err := New("csv", testSurvey, tt.unit)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := src.ReadSoundings(path)
			if err != nil {
				t.Fatalf("ReadSoundings() error = %v", err)
			}
			if got[0].Depth != tt.want {
				t.Errorf("Depth = %v, want %v", got[0].Depth, tt.want)
			}
		})
	}
}

func TestXYZSourceReadSoundings(t *testing.T) {
	path := writeTempFile(t, "points.xyz",
		"# survey export\n"+
			"\n"+
			"-89.4012 43.0731 12.5\n"+
			"-89.4013\t43.0732\t13.0\textra-column\n")

	src, err := New("xyz", testSurvey, UnitMeters)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := src.ReadSoundings(path)
	if err != nil {
		t.Fatalf("ReadSoundings() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (comment and blank skipped)", len(got))
	}
	if got[0].Lon != -89.4012 || got[0].Lat != 43.0731 || got[0].Depth != 12.5 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Depth != 13.0 {
		t.Errorf("second Depth = %v, want 13.0 (extra column ignored)", got[1].Depth)
	}
	if got[0].Survey != testSurvey {
		t.Errorf("Survey = %+v, want manifest survey", got[0].Survey)
	}
	if !got[0].Time.IsZero() {
		t.Errorf("Time = %v, want zero (xyz has no timestamps)", got[0].Time)
	}
}

func TestXYZSourceTooFewColumns(t *testing.T) {
	path := writeTempFile(t, "points.xyz", "-89.40 43.07 1.0\n-89.41 43.08\n")

	src, _ := New("xyz", testSurvey, UnitMeters)
	_, err := src.ReadSoundings(path)

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %v, want *ReadError", err)
	}
	if readErr.Line != 2 {
		t.Errorf("Line = %d, want 2", readErr.Line)
	}
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("netcdf", testSurvey, UnitMeters)
	if err == nil {
		t.Fatal("New(netcdf) = nil error, want unknown format error")
	}
}

func TestNewUnknownUnit(t *testing.T) {
	_, err := New("csv", testSurvey, DepthUnit("leagues"))
	if err == nil {
		t.Fatal("New() = nil error, want unknown unit error")
	}
}
