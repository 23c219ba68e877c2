package model

import (
	"net/url"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateVendor checks a Vendor for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the vendor is valid.
func ValidateVendor(v *Vendor) error {
	var ve ValidationError

	name := strings.TrimSpace(v.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	website := strings.TrimSpace(v.Website)
	if website == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "website", Message: "is required"})
	} else {
		u, err := url.Parse(website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			ve.Errors = append(ve.Errors, FieldError{Field: "website", Message: "must be an absolute http(s) URL"})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateRiskEvent checks a RiskEvent before persistence.
func ValidateRiskEvent(e *RiskEvent) error {
	var ve ValidationError

	if e.VendorID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "vendor_id", Message: "is required"})
	}
	if !e.Severity.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "severity", Message: "must be low, medium, or high"})
	}
	if strings.TrimSpace(e.Summary) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "summary", Message: "is required"})
	}
	if e.Source != SourceRules && e.Source != SourceAI {
		ve.Errors = append(ve.Errors, FieldError{Field: "source", Message: "must be rules or ai"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
