package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

type ResumeStatus string

const (
	StatusDraft     ResumeStatus = "draft"
	StatusPublished ResumeStatus = "published"
	StatusArchived  ResumeStatus = "archived"
)

// Location is the nested address block inside Contact.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

// Contact holds resume-level contact info. Persisted as a single jsonb
// column, so downstream consumers must never see a nil Contact.
type Contact struct {
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	GitHub    string   `json:"github,omitempty"`
	Portfolio string   `json:"portfolio,omitempty"`
	Location  Location `json:"location"`
}

// StylingPreferences controls how a resume is rendered. Template always has
// a value after normalization ("default" when the client sent nothing).
type StylingPreferences struct {
	Template     string   `json:"template"`
	ColorScheme  string   `json:"color_scheme,omitempty"`
	FontFamily   string   `json:"font_family,omitempty"`
	SectionOrder []string `json:"section_order,omitempty"`
}

type Resume struct {
	ID                 int64               `json:"id"`
	UserID             string              `json:"user_id"`
	Title              string              `json:"title"`
	Version            int                 `json:"version"`
	Status             ResumeStatus        `json:"status"`
	FullName           string              `json:"full_name"`
	ProfessionalSummary string             `json:"professional_summary"`
	Contact            *Contact            `json:"contact"`
	StylingPreferences *StylingPreferences `json:"styling_preferences"`
	Keywords           StringList          `json:"keywords"`
	IndustryFocus      StringList          `json:"industry_focus"`
	JobTitlesTargeted  StringList          `json:"job_titles_targeted"`
	LastGeneratedPDF   *string             `json:"last_generated_pdf,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Dependent entities. The ID on write payloads is a client-supplied ordinal
// used to reference entries within one submitted document; the store assigns
// the durable row identity (RowID on read).

type Education struct {
	ID           int      `json:"id"`
	RowID        int64    `json:"-"`
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field"`
	StartDate    string   `json:"start_date"`
	EndDate      *string  `json:"end_date,omitempty"`
	GPA          *float64 `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Location     string   `json:"location,omitempty"`
}

type Experience struct {
	ID          int      `json:"id"`
	RowID       int64    `json:"-"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"start_date"`
	EndDate     *string  `json:"end_date,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description"`
	SkillsUsed  []string `json:"skills_used"`
	Achievements []string `json:"achievements"`
}

type Skill struct {
	ID               int      `json:"id"`
	RowID            int64    `json:"-"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	ProficiencyLevel string   `json:"proficiency_level,omitempty"`
	YearsExperience  *float64 `json:"years_experience,omitempty"`
}

type Project struct {
	ID           int      `json:"id"`
	RowID        int64    `json:"-"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    *string  `json:"start_date,omitempty"`
	EndDate      *string  `json:"end_date,omitempty"`
	Highlights   []string `json:"highlights"`
}

// Certification and Award have no write path here; they surface on read only.

type Certification struct {
	RowID        int64   `json:"-"`
	Name         string  `json:"name"`
	Issuer       string  `json:"issuer"`
	DateAcquired string  `json:"date_acquired"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	CredentialID string  `json:"credential_id,omitempty"`
}

type Award struct {
	RowID       int64  `json:"-"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

// ResumeDocument is a full client-submitted resume: the parent fields plus
// the writable dependent collections.
type ResumeDocument struct {
	Resume
	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Skills     []Skill      `json:"skills,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
}

// ResumeWithDetails is the assembled aggregate returned by single-resume reads.
type ResumeWithDetails struct {
	Resume
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Awards         []Award         `json:"awards"`
}

// Credential scopes a store session to the caller's row-level access policy.
// Empty claims fall back to the service's own connection role.
type Credential struct {
	Token  string
	Claims map[string]interface{}
}

type ResumeRepository interface {
	CreateFull(ctx context.Context, cred Credential, doc *ResumeDocument) (*Resume, error)
	Fetch(ctx context.Context, userID string) ([]Resume, error)
	GetByID(ctx context.Context, userID string, id int64) (*ResumeWithDetails, error)
	Update(ctx context.Context, cred Credential, userID string, id int64, resume *Resume) (*Resume, error)
	Delete(ctx context.Context, cred Credential, userID string, id int64) error
}

type ResumeUsecase interface {
	Create(ctx context.Context, userID string, cred Credential, doc *ResumeDocument) (*Resume, error)
	List(ctx context.Context, userID string) ([]Resume, error)
	Get(ctx context.Context, userID string, id int64) (*ResumeWithDetails, error)
	Update(ctx context.Context, userID string, cred Credential, id int64, doc *ResumeDocument) (*Resume, error)
	Delete(ctx context.Context, userID string, cred Credential, id int64) error
}
