package models

import "encoding/json"

// AnalysisResult is the findings payload returned by the analysis endpoint.
// A nil *AnalysisResult means no upload has succeeded yet.
type AnalysisResult struct {
	Errors        []string `json:"errors" yaml:"errors"`
	Warnings      []string `json:"warnings" yaml:"warnings"`
	GoodPractices []string `json:"good_practices" yaml:"good_practices"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Analysis *AnalysisResult `json:"analysis" yaml:"analysis"`
}

// UnmarshalJSON normalises missing or null sequences to empty slices so that
// an empty category is never confused with an absent result.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	type plain AnalysisResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = AnalysisResult(p)
	r.normalise()
	return nil
}

// Clone returns a deep copy, nil for nil.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	c := &AnalysisResult{
		Errors:        append([]string{}, r.Errors...),
		Warnings:      append([]string{}, r.Warnings...),
		GoodPractices: append([]string{}, r.GoodPractices...),
	}
	return c
}

// Total is the number of findings across all categories.
func (r *AnalysisResult) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Errors) + len(r.Warnings) + len(r.GoodPractices)
}

func (r *AnalysisResult) normalise() {
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.GoodPractices == nil {
		r.GoodPractices = []string{}
	}
}
