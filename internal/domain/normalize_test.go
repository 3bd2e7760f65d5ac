package domain_test

import (
	"encoding/json"
	"testing"

	"go-resume-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResumeDefaults(t *testing.T) {
	doc := &domain.ResumeDocument{
		Resume: domain.Resume{
			Title:               "SWE Resume",
			FullName:            "A. Lee",
			ProfessionalSummary: "Builds things",
		},
	}

	got := domain.NormalizeResume("user-1", doc)

	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, domain.StatusDraft, got.Status)

	// Contact must be structurally complete, never nil
	assert.NotNil(t, got.Contact)
	assert.Equal(t, "", got.Contact.Email)
	assert.Equal(t, "", got.Contact.Location.Country)

	assert.NotNil(t, got.StylingPreferences)
	assert.Equal(t, "default", got.StylingPreferences.Template)

	assert.Equal(t, domain.StringList{}, got.Keywords)
	assert.Equal(t, domain.StringList{}, got.IndustryFocus)
	assert.Equal(t, domain.StringList{}, got.JobTitlesTargeted)
}

func TestNormalizeResumePassesThroughProvidedValues(t *testing.T) {
	doc := &domain.ResumeDocument{
		Resume: domain.Resume{
			Title:    "CV",
			FullName: "B. Chen",
			Status:   domain.StatusPublished,
			Contact: &domain.Contact{
				Email:    "b@example.com",
				Location: domain.Location{Country: "US"},
			},
			StylingPreferences: &domain.StylingPreferences{Template: "modern", ColorScheme: "dark"},
			Keywords:           domain.StringList{"go", "backend"},
		},
	}

	got := domain.NormalizeResume("user-2", doc)

	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.Equal(t, "b@example.com", got.Contact.Email)
	assert.Equal(t, "modern", got.StylingPreferences.Template)
	assert.Equal(t, domain.StringList{"go", "backend"}, got.Keywords)
}

func TestNormalizeResumeIsPure(t *testing.T) {
	doc := &domain.ResumeDocument{
		Resume: domain.Resume{Title: "CV", FullName: "C. Diaz", ProfessionalSummary: "x"},
	}

	first := domain.NormalizeResume("user-3", doc)
	second := domain.NormalizeResume("user-3", doc)

	assert.Equal(t, first, second)
	// The input document itself is untouched
	assert.Nil(t, doc.Contact)
	assert.Equal(t, 0, doc.Version)
}

func TestNormalizeResumeStylingTemplateFallback(t *testing.T) {
	doc := &domain.ResumeDocument{
		Resume: domain.Resume{
			Title:              "CV",
			StylingPreferences: &domain.StylingPreferences{ColorScheme: "light"},
		},
	}

	got := domain.NormalizeResume("user-4", doc)
	assert.Equal(t, "default", got.StylingPreferences.Template)
	assert.Equal(t, "light", got.StylingPreferences.ColorScheme)
}

func TestDocumentDecodeCoercesMalformedFields(t *testing.T) {
	payload := []byte(`{
		"title": "SWE Resume",
		"full_name": "A. Lee",
		"professional_summary": "...",
		"contact": "not an object",
		"styling_preferences": 42,
		"keywords": "golang",
		"industry_focus": [1, 2, 3],
		"job_titles_targeted": ["Backend Engineer"]
	}`)

	var doc domain.ResumeDocument
	err := json.Unmarshal(payload, &doc)
	assert.NoError(t, err)

	assert.NotNil(t, doc.Contact)
	assert.Equal(t, "", doc.Contact.Email)
	assert.Equal(t, "default", doc.StylingPreferences.Template)
	assert.Equal(t, domain.StringList{}, doc.Keywords)
	assert.Equal(t, domain.StringList{}, doc.IndustryFocus)
	assert.Equal(t, domain.StringList{"Backend Engineer"}, doc.JobTitlesTargeted)
}
