package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Title":               "Title",
	"FullName":            "Full name",
	"ProfessionalSummary": "Professional summary",
	"Status":              "Status",
	"Email":               "Email",
	"Phone":               "Phone",
	"LinkedIn":            "LinkedIn URL",
	"GitHub":              "GitHub URL",
	"Portfolio":           "Portfolio URL",
	"Country":             "Country",
	"Institution":         "Institution",
	"Degree":              "Degree",
	"Field":               "Field of study",
	"StartDate":           "Start date",
	"EndDate":             "End date",
	"GPA":                 "GPA",
	"Company":             "Company",
	"Position":            "Position",
	"Description":         "Description",
	"Name":                "Name",
	"Category":            "Category",
	"ProficiencyLevel":    "Proficiency level",
	"YearsExperience":     "Years of experience",
	"Technologies":        "Technologies",
	"Highlights":          "Highlights",
	"URL":                 "URL",
	"Template":            "Template",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)
	case "date_string":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", label)
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
