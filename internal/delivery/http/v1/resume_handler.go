package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go-resume-backend/internal/delivery/http/middleware"
	"go-resume-backend/internal/delivery/http/response"
	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/apperror"
	"go-resume-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
	validate *validator.Validate
}

func NewResumeHandler(r *gin.RouterGroup, resumeUC domain.ResumeUsecase, validate *validator.Validate) {
	handler := &ResumeHandler{resumeUC: resumeUC, validate: validate}

	resumes := r.Group("/resumes")
	{
		resumes.GET("", handler.List)
		resumes.GET("/:id", handler.Get)
		resumes.POST("", middleware.RateLimitMiddleware(middleware.WriteRateLimitConfig()), handler.Create)
		resumes.PUT("/:id", middleware.RateLimitMiddleware(middleware.WriteRateLimitConfig()), handler.Update)
		resumes.DELETE("/:id", handler.Delete)
	}
}

type EducationRequest struct {
	ID           int      `json:"id"`
	Institution  string   `json:"institution" validate:"required"`
	Degree       string   `json:"degree" validate:"required"`
	Field        string   `json:"field" validate:"required"`
	StartDate    string   `json:"start_date" validate:"required,date_string"`
	EndDate      *string  `json:"end_date" validate:"omitempty,date_string"`
	GPA          *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	Achievements []string `json:"achievements"`
	Location     string   `json:"location"`
}

type ExperienceRequest struct {
	ID           int      `json:"id"`
	Company      string   `json:"company" validate:"required"`
	Position     string   `json:"position" validate:"required"`
	StartDate    string   `json:"start_date" validate:"required,date_string"`
	EndDate      *string  `json:"end_date" validate:"omitempty,date_string"`
	Location     string   `json:"location"`
	Description  []string `json:"description" validate:"required,min=1"`
	SkillsUsed   []string `json:"skills_used"`
	Achievements []string `json:"achievements"`
}

type SkillRequest struct {
	ID               int      `json:"id"`
	Name             string   `json:"name" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	ProficiencyLevel string   `json:"proficiency_level" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
	YearsExperience  *float64 `json:"years_experience" validate:"omitempty,gte=0"`
}

type ProjectRequest struct {
	ID           int      `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Technologies []string `json:"technologies" validate:"required,min=1"`
	URL          string   `json:"url" validate:"omitempty,url"`
	StartDate    *string  `json:"start_date" validate:"omitempty,date_string"`
	EndDate      *string  `json:"end_date" validate:"omitempty,date_string"`
	Highlights   []string `json:"highlights" validate:"required,min=1"`
}

// ResumeRequest is a full resume document as submitted by the client.
// Contact, styling and the keyword lists deliberately carry no validation:
// malformed values there are coerced to defaults during normalization.
type ResumeRequest struct {
	Title               string                     `json:"title" validate:"required"`
	FullName            string                     `json:"full_name" validate:"required"`
	ProfessionalSummary string                     `json:"professional_summary" validate:"required"`
	Status              string                     `json:"status" validate:"omitempty,oneof=draft published archived"`
	Contact             *domain.Contact            `json:"contact"`
	StylingPreferences  *domain.StylingPreferences `json:"styling_preferences"`
	Keywords            domain.StringList          `json:"keywords"`
	IndustryFocus       domain.StringList          `json:"industry_focus"`
	JobTitlesTargeted   domain.StringList          `json:"job_titles_targeted"`
	Education           []EducationRequest         `json:"education" validate:"omitempty,dive"`
	Experience          []ExperienceRequest        `json:"experience" validate:"omitempty,dive"`
	Skills              []SkillRequest             `json:"skills" validate:"omitempty,dive"`
	Projects            []ProjectRequest           `json:"projects" validate:"omitempty,dive"`
}

func (r *ResumeRequest) toDocument() *domain.ResumeDocument {
	doc := &domain.ResumeDocument{
		Resume: domain.Resume{
			Title:               r.Title,
			FullName:            r.FullName,
			ProfessionalSummary: r.ProfessionalSummary,
			Status:              domain.ResumeStatus(r.Status),
			Contact:             r.Contact,
			StylingPreferences:  r.StylingPreferences,
			Keywords:            r.Keywords,
			IndustryFocus:       r.IndustryFocus,
			JobTitlesTargeted:   r.JobTitlesTargeted,
		},
	}
	for _, e := range r.Education {
		doc.Education = append(doc.Education, domain.Education{
			ID: e.ID, Institution: e.Institution, Degree: e.Degree, Field: e.Field,
			StartDate: e.StartDate, EndDate: e.EndDate, GPA: e.GPA,
			Achievements: e.Achievements, Location: e.Location,
		})
	}
	for _, e := range r.Experience {
		doc.Experience = append(doc.Experience, domain.Experience{
			ID: e.ID, Company: e.Company, Position: e.Position,
			StartDate: e.StartDate, EndDate: e.EndDate, Location: e.Location,
			Description: e.Description, SkillsUsed: e.SkillsUsed, Achievements: e.Achievements,
		})
	}
	for _, s := range r.Skills {
		doc.Skills = append(doc.Skills, domain.Skill{
			ID: s.ID, Name: s.Name, Category: s.Category,
			ProficiencyLevel: s.ProficiencyLevel, YearsExperience: s.YearsExperience,
		})
	}
	for _, p := range r.Projects {
		doc.Projects = append(doc.Projects, domain.Project{
			ID: p.ID, Name: p.Name, Description: p.Description,
			Technologies: p.Technologies, URL: p.URL,
			StartDate: p.StartDate, EndDate: p.EndDate, Highlights: p.Highlights,
		})
	}
	return doc
}

// bindResume validates the raw payload (schema first, then struct rules) and
// decodes it into a resume document.
func (h *ResumeHandler) bindResume(c *gin.Context) (*domain.ResumeDocument, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, apperror.BadRequest("Failed to read request body")
	}
	if err := validation.ValidateResumeDocument(raw); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	var req ResumeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperror.BadRequest("Request body is not a valid resume document")
	}
	if err := h.validate.Struct(&req); err != nil {
		msgs := validation.FormatValidationErrors(err)
		return nil, apperror.New(http.StatusBadRequest, strings.Join(msgs, "; "), nil)
	}
	return req.toDocument(), nil
}

// List godoc
// @Summary      List resumes
// @Description  List all resumes owned by the authenticated user (parent rows only)
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Failure      401  {object}  response.Response
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	resumes, err := h.resumeUC.List(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes", resumes)
}

// Get godoc
// @Summary      Get a resume
// @Description  Get one resume with all its dependent collections
// @Tags         resumes
// @Produce      json
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.ResumeWithDetails}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [get]
// @Security     BearerAuth
func (h *ResumeHandler) Get(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid resume ID"))
		return
	}

	resume, err := h.resumeUC.Get(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume", resume)
}

// Create godoc
// @Summary      Create a resume
// @Description  Create a full resume: the parent record plus education, experience, skills and projects
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        resume  body      ResumeRequest  true  "Resume document"
// @Success      201  {object}  response.Response{data=domain.Resume}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Create(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	doc, err := h.bindResume(c)
	if err != nil {
		c.Error(err)
		return
	}

	cred := middleware.CredentialFromContext(c.Request.Context())
	resume, err := h.resumeUC.Create(c.Request.Context(), userID, cred, doc)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume created", resume)
}

// Update godoc
// @Summary      Update a resume
// @Description  Replace the parent record's fields. Dependent collections are not touched.
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        id      path      int            true  "Resume ID"
// @Param        resume  body      ResumeRequest  true  "Resume document"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [put]
// @Security     BearerAuth
func (h *ResumeHandler) Update(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid resume ID"))
		return
	}

	doc, err := h.bindResume(c)
	if err != nil {
		c.Error(err)
		return
	}

	cred := middleware.CredentialFromContext(c.Request.Context())
	resume, err := h.resumeUC.Update(c.Request.Context(), userID, cred, id, doc)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", resume)
}

// Delete godoc
// @Summary      Delete a resume
// @Description  Delete a resume. Dependent rows are removed by the store's cascading constraints.
// @Tags         resumes
// @Produce      json
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid resume ID"))
		return
	}

	cred := middleware.CredentialFromContext(c.Request.Context())
	if err := h.resumeUC.Delete(c.Request.Context(), userID, cred, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume deleted", gin.H{"id": id})
}
