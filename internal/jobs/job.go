package jobs

import (
	"encoding/json"
	"errors"
)

const Unknown = "Unknown"

var ErrNoJobID = errors.New("job has no id")

// CanonicalJob is the fixed-schema view of one posting. Text fields are never null;
// Location and JobType fall back to Unknown.
type CanonicalJob struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	CompanyName   string          `json:"company_name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	JobType       string          `json:"job_type"`
	PublishedDate string          `json:"published_date"`
	Salary        string          `json:"salary"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

func FromRecord(r Record) CanonicalJob {
	f := r.Fields
	return CanonicalJob{
		ID:            ResolveOr(f, IDRules, ""),
		Title:         ResolveOr(f, TitleRules, ""),
		CompanyName:   ResolveOr(f, CompanyRules, ""),
		Description:   ResolveOr(f, DescriptionRules, ""),
		Location:      ResolveOr(f, LocationRules, Unknown),
		JobType:       ResolveOr(f, TypeRules, Unknown),
		PublishedDate: ResolveOr(f, DateRules, ""),
		Salary:        ResolveOr(f, SalaryRules, ""),
		Raw:           r.Raw,
	}
}

func Canonicalize(records []Record) []CanonicalJob {
	out := make([]CanonicalJob, 0, len(records))
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	return out
}

// FromPayload canonicalizes every posting of a list or search response.
func FromPayload(p Payload) []CanonicalJob {
	return Canonicalize(p.Records())
}

func RecordID(r Record) (string, error) {
	id, ok := Resolve(r.Fields, IDRules)
	if !ok {
		return "", ErrNoJobID
	}
	return id, nil
}

// RawList returns the original postings as one JSON array.
func RawList(js []CanonicalJob) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(js))
	for _, j := range js {
		if len(j.Raw) == 0 {
			out = append(out, json.RawMessage("null"))
			continue
		}
		out = append(out, j.Raw)
	}
	return out
}
