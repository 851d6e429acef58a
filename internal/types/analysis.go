package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnalysisResult is the structured assessment returned for a food label.
type AnalysisResult struct {
	HealthRating   string                        `json:"health_rating"`
	Summary        string                        `json:"summary"`
	Pros           []string                      `json:"pros"`
	Cons           []NutrientAssessment          `json:"cons"`
	NutrientLevels map[string]NutrientAssessment `json:"nutrient_levels"`
	References     []string                      `json:"references"`
}

// NutrientAssessment describes one nutrient relative to a reference guideline.
type NutrientAssessment struct {
	Nutrient  string         `json:"nutrient,omitempty"`
	Level     string         `json:"level"`
	Source    string         `json:"source"`
	Reasoning string         `json:"reasoning"`
	Value     FlexibleString `json:"value"`
}

// UnmarshalJSON accepts either an object or a bare string. A bare string
// becomes the reasoning of an otherwise empty assessment.
func (n *NutrientAssessment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NutrientAssessment{Reasoning: s}
		return nil
	}

	type alias NutrientAssessment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*n = NutrientAssessment(a)
	return nil
}

// FlexibleString holds a value that models send as either a number or a string,
// e.g. 12.5 or "12.5 g".
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = FlexibleString(strconv.FormatBool(b))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("value must be a number or string: %w", err)
	}
	*f = FlexibleString(num.String())
	return nil
}

// validRatings are the accepted health_rating grades.
var validRatings = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true, "F": true}

// Validate checks the fields every client relies on.
func (r *AnalysisResult) Validate() error {
	if !validRatings[r.HealthRating] {
		return fmt.Errorf("health_rating %q is not one of A-F", r.HealthRating)
	}
	if r.Pros == nil {
		r.Pros = []string{}
	}
	if r.Cons == nil {
		r.Cons = []NutrientAssessment{}
	}
	if r.NutrientLevels == nil {
		r.NutrientLevels = map[string]NutrientAssessment{}
	}
	if r.References == nil {
		r.References = []string{}
	}
	return nil
}
