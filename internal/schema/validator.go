// Package schema checks submitted field data against a form's required-field
// list.
package schema

import "strings"

type Result struct {
	Valid   bool         `json:"valid"`
	Missing []string     `json:"missing,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validate checks that every required field is present and non-empty after
// trimming whitespace. All violations are collected, ordered as in the
// required-field list, so a client gets the complete report in one round
// trip. Fields present in data but not listed as required pass through
// untouched.
func Validate(requiredFields []string, data map[string]string) *Result {
	result := &Result{Valid: true}

	for _, field := range requiredFields {
		value, present := data[field]
		if !present {
			result.Missing = append(result.Missing, field)
			result.Errors = append(result.Errors, FieldError{
				Field:   field,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
			continue
		}
		if strings.TrimSpace(value) == "" {
			result.Missing = append(result.Missing, field)
			result.Errors = append(result.Errors, FieldError{
				Field:   field,
				Message: "required field empty",
				Code:    "REQUIRED_FIELD_EMPTY",
			})
		}
	}

	result.Valid = len(result.Missing) == 0
	return result
}
