package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sutherm/glos-geo/internal/model"
)

// DepthUnit names the vertical unit of a source file. Depths are converted
// to meters as they are read.
type DepthUnit string

const (
	UnitMeters  DepthUnit = "meters"
	UnitFeet    DepthUnit = "feet"
	UnitFathoms DepthUnit = "fathoms"
)

func (u DepthUnit) scale() (float64, error) {
	switch u {
	case UnitMeters, "":
		return 1, nil
	case UnitFeet:
		return 0.3048, nil
	case UnitFathoms:
		return 1.8288, nil
	default:
		return 0, fmt.Errorf("unknown depth unit %q", u)
	}
}

// Source reads all soundings from one input file.
type Source interface {
	ReadSoundings(path string) ([]model.Sounding, error)
}

// New returns a Source for the named format. Supported formats are "csv"
// and "xyz". The survey identifies records that carry no per-row survey
// columns of their own.
func New(format string, survey model.SurveyInfo, unit DepthUnit) (Source, error) {
	scale, err := unit.scale()
	if err != nil {
		return nil, err
	}

	switch format {
	case "csv":
		return &CSVSource{survey: survey, scale: scale}, nil
	case "xyz":
		return &XYZSource{survey: survey, scale: scale}, nil
	default:
		return nil, fmt.Errorf("unknown source format %q", format)
	}
}

// -----------------------------------------------------------------------------
// CSV
// -----------------------------------------------------------------------------

// CSVSource reads header-addressed CSV soundings. LON, LAT, DEPTH and TIME
// columns are required; PLATFORM_NAME and PROVIDER override the survey's
// name and organization per row when present.
type CSVSource struct {
	survey model.SurveyInfo
	scale  float64
}

// ReadSoundings implements Source.
func (s *CSVSource) ReadSoundings(path string) ([]model.Sounding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &ReadError{Path: path, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"LON", "LAT", "DEPTH", "TIME"} {
		if _, ok := cols[required]; !ok {
			return nil, &ReadError{Path: path, Line: 1, Err: fmt.Errorf("missing required column %s", required)}
		}
	}

	var soundings []model.Sounding
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: err}
		}

		sounding, err := s.parseRow(row, cols)
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: err}
		}
		soundings = append(soundings, sounding)
	}

	return soundings, nil
}

func (s *CSVSource) parseRow(row []string, cols map[string]int) (model.Sounding, error) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[cols["LON"]]), 64)
	if err != nil {
		return model.Sounding{}, fmt.Errorf("parse LON: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[cols["LAT"]]), 64)
	if err != nil {
		return model.Sounding{}, fmt.Errorf("parse LAT: %w", err)
	}
	depth, err := strconv.ParseFloat(strings.TrimSpace(row[cols["DEPTH"]]), 64)
	if err != nil {
		return model.Sounding{}, fmt.Errorf("parse DEPTH: %w", err)
	}
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return model.Sounding{}, fmt.Errorf("non-finite DEPTH %v", depth)
	}
	ts, err := parseTime(strings.TrimSpace(row[cols["TIME"]]))
	if err != nil {
		return model.Sounding{}, fmt.Errorf("parse TIME: %w", err)
	}

	survey := s.survey
	if i, ok := cols["PLATFORM_NAME"]; ok && i < len(row) && strings.TrimSpace(row[i]) != "" {
		survey.Name = strings.TrimSpace(row[i])
	}
	if i, ok := cols["PROVIDER"]; ok && i < len(row) && strings.TrimSpace(row[i]) != "" {
		survey.Organization = strings.TrimSpace(row[i])
	}

	return model.Sounding{
		Lat:    lat,
		Lon:    lon,
		Depth:  depth * s.scale,
		Time:   ts,
		Survey: survey,
	}, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", v)
}

// -----------------------------------------------------------------------------
// XYZ
// -----------------------------------------------------------------------------

// XYZSource reads whitespace-separated "lon lat depth" lines. Blank lines
// and # comments are skipped; trailing columns are ignored. XYZ files carry
// no timestamps, so Sounding.Time is the zero time.
type XYZSource struct {
	survey model.SurveyInfo
	scale  float64
}

// ReadSoundings implements Source.
func (s *XYZSource) ReadSoundings(path string) ([]model.Sounding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var soundings []model.Sounding
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, &ReadError{Path: path, Line: line, Err: errors.New("expected at least 3 columns (lon lat depth)")}
		}

		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: fmt.Errorf("parse lon: %w", err)}
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: fmt.Errorf("parse lat: %w", err)}
		}
		depth, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: fmt.Errorf("parse depth: %w", err)}
		}
		if math.IsNaN(depth) || math.IsInf(depth, 0) {
			return nil, &ReadError{Path: path, Line: line, Err: fmt.Errorf("non-finite depth %v", depth)}
		}

		soundings = append(soundings, model.Sounding{
			Lat:    lat,
			Lon:    lon,
			Depth:  depth * s.scale,
			Survey: s.survey,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return soundings, nil
}
