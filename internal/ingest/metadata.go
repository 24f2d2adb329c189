package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sutherm/glos-geo/internal/model"
)

// PlatformMetadata is the parsed form of a submission metadata document.
type PlatformMetadata struct {
	UniqueID  string    // Platform unique identifier
	Name      string    // Platform display name
	Provider  string    // Contributing organization
	Submitted time.Time // Submission time code (UTC)
}

// SurveyInfo converts the metadata into the survey attributes attached to
// soundings, using the unique identifier as the survey name.
func (m PlatformMetadata) SurveyInfo() model.SurveyInfo {
	return model.SurveyInfo{
		Name:         m.UniqueID,
		Organization: m.Provider,
		Type:         "CSB",
	}
}

// platformDocument mirrors the JSON layout of submission metadata files.
type platformDocument struct {
	Platform struct {
		Name     string `json:"name"`
		UniqueID string `json:"uniqueID"`
	} `json:"platform"`
	ProviderContactPoint struct {
		OrgName string `json:"orgName"`
	} `json:"providerContactPoint"`
	SubmissionDateTime string `json:"submissionDateTime"`
}

// ReadPlatformMetadata parses a JSON metadata document. The platform unique
// identifier is required; a document without one is rejected.
func ReadPlatformMetadata(path string) (PlatformMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlatformMetadata{}, &ReadError{Path: path, Err: err}
	}

	var doc platformDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return PlatformMetadata{}, &ReadError{Path: path, Err: fmt.Errorf("parse metadata json: %w", err)}
	}

	if doc.Platform.UniqueID == "" {
		return PlatformMetadata{}, &ReadError{Path: path, Err: errors.New("metadata missing platform.uniqueID")}
	}

	meta := PlatformMetadata{
		UniqueID: doc.Platform.UniqueID,
		Name:     doc.Platform.Name,
		Provider: doc.ProviderContactPoint.OrgName,
	}

	if doc.SubmissionDateTime != "" {
		ts, err := parseTime(doc.SubmissionDateTime)
		if err != nil {
			return PlatformMetadata{}, &ReadError{Path: path, Err: fmt.Errorf("parse submissionDateTime: %w", err)}
		}
		meta.Submitted = ts
	}

	return meta, nil
}
