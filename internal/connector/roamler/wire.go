package roamler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Job is one vendor work unit. The only structured information the API
// carries about market and category is buried in the free-text title fields.
type Job struct {
	ID           string
	WorkingTitle string
	Title        string
}

// UnmarshalJSON tolerates the id key variants the API has been observed to
// use (id, Id, jobId), with both string and numeric values.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	j.ID = firstScalar(raw, "id", "Id", "jobId")
	j.WorkingTitle = firstScalar(raw, "workingTitle", "WorkingTitle")
	j.Title = firstScalar(raw, "title", "Title")
	return nil
}

// Submission is one completed fieldwork visit belonging to a Job. The
// aggregation only needs counts; the raw payload is kept for the export path.
type Submission struct {
	ID  string
	Raw json.RawMessage
}

func (s *Submission) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = firstScalar(raw, "id", "Id", "submissionId")
	s.Raw = append(s.Raw[:0], data...)
	return nil
}

// firstScalar returns the first present key decoded as a string; numeric
// values are formatted without an exponent.
func firstScalar(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		rm, ok := raw[key]
		if !ok {
			continue
		}
		var str string
		if err := json.Unmarshal(rm, &str); err == nil {
			return str
		}
		var num json.Number
		if err := json.Unmarshal(rm, &num); err == nil {
			return num.String()
		}
	}
	return ""
}

// decodeJobs parses a jobs response that is either a bare array or an
// envelope object ({"jobs": [...]} / {"Jobs": [...]}); the envelope shape is
// not consistent across deployments.
func decodeJobs(body []byte) ([]Job, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var jobs []Job
		if err := json.Unmarshal(body, &jobs); err != nil {
			return nil, fmt.Errorf("failed to decode jobs array: %w", err)
		}
		return jobs, nil
	}

	// encoding/json matches "Jobs" case-insensitively when no exact key exists
	var envelope struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode jobs envelope: %w", err)
	}
	return envelope.Jobs, nil
}

// decodeSubmissions parses a submissions response, array or envelope.
func decodeSubmissions(body []byte) ([]Submission, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var subs []Submission
		if err := json.Unmarshal(body, &subs); err != nil {
			return nil, fmt.Errorf("failed to decode submissions array: %w", err)
		}
		return subs, nil
	}

	var envelope struct {
		Submissions []Submission `json:"submissions"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode submissions envelope: %w", err)
	}
	return envelope.Submissions, nil
}

// parseTotalHeader parses the X-Paging-TotalRecordCount response header,
// falling back to the given default when absent or malformed.
func parseTotalHeader(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	total, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || total < 0 {
		return fallback
	}
	return total
}
