package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/database"
	"go-resume-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

type resumeRepository struct {
	gw *database.Gateway
}

func NewResumeRepository(gw *database.Gateway) domain.ResumeRepository {
	return &resumeRepository{gw: gw}
}

// claimsJSON serializes the caller credential for RLS scoping. Empty
// credentials run under the pool's own role.
func claimsJSON(cred domain.Credential) string {
	if len(cred.Claims) == 0 {
		return ""
	}
	b, err := json.Marshal(cred.Claims)
	if err != nil {
		return ""
	}
	return string(b)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// =================================================================================================
// Create (parent + dependent collections, one transaction)
// =================================================================================================

func (r *resumeRepository) CreateFull(ctx context.Context, cred domain.Credential, doc *domain.ResumeDocument) (*domain.Resume, error) {
	resume := doc.Resume

	err := r.gw.WithClaims(ctx, claimsJSON(cred), func(tx pgx.Tx) error {
		if err := insertResume(ctx, tx, &resume); err != nil {
			return err
		}
		if err := insertEducation(ctx, tx, resume.ID, doc.Education); err != nil {
			return err
		}
		if err := insertExperience(ctx, tx, resume.ID, doc.Experience); err != nil {
			return err
		}
		if err := insertSkills(ctx, tx, resume.ID, doc.Skills); err != nil {
			return err
		}
		return insertProjects(ctx, tx, resume.ID, doc.Projects)
	})
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func insertResume(ctx context.Context, tx pgx.Tx, resume *domain.Resume) error {
	contactJSON, err := json.Marshal(resume.Contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}
	stylingJSON, err := json.Marshal(resume.StylingPreferences)
	if err != nil {
		return fmt.Errorf("failed to encode styling_preferences: %w", err)
	}

	query := `
		INSERT INTO resumes (
			user_id, title, version, status, full_name, professional_summary,
			contact, styling_preferences, keywords, industry_focus, job_titles_targeted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		resume.UserID, resume.Title, resume.Version, resume.Status,
		resume.FullName, resume.ProfessionalSummary,
		contactJSON, stylingJSON,
		pq.Array([]string(resume.Keywords)),
		pq.Array([]string(resume.IndustryFocus)),
		pq.Array([]string(resume.JobTitlesTargeted)),
	).Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		logger.Log.Error("Failed to insert resume", "table", "resumes", "error", err)
		return fmt.Errorf("resume insertion failed: %w", err)
	}
	return nil
}

func insertEducation(ctx context.Context, tx pgx.Tx, resumeID int64, rows []domain.Education) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO education (
			resume_id, ordinal, institution, degree, field,
			start_date, end_date, gpa, achievements, location
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, e := range rows {
		_, err := tx.Exec(ctx, query,
			resumeID, e.ID, e.Institution, e.Degree, e.Field,
			parseDate(e.StartDate), parseOptionalDate(e.EndDate),
			e.GPA, pq.Array(e.Achievements), e.Location,
		)
		if err != nil {
			logger.Log.Error("Failed to insert dependent rows", "table", "education", "error", err)
			return fmt.Errorf("education insertion failed: %w", err)
		}
	}
	return nil
}

func insertExperience(ctx context.Context, tx pgx.Tx, resumeID int64, rows []domain.Experience) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO experience (
			resume_id, ordinal, company, position, start_date, end_date,
			location, description, skills_used, achievements
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, e := range rows {
		_, err := tx.Exec(ctx, query,
			resumeID, e.ID, e.Company, e.Position,
			parseDate(e.StartDate), parseOptionalDate(e.EndDate), e.Location,
			pq.Array(e.Description), pq.Array(e.SkillsUsed), pq.Array(e.Achievements),
		)
		if err != nil {
			logger.Log.Error("Failed to insert dependent rows", "table", "experience", "error", err)
			return fmt.Errorf("experience insertion failed: %w", err)
		}
	}
	return nil
}

func insertSkills(ctx context.Context, tx pgx.Tx, resumeID int64, rows []domain.Skill) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO skills (
			resume_id, ordinal, name, category, proficiency_level, years_experience
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

	for _, s := range rows {
		_, err := tx.Exec(ctx, query,
			resumeID, s.ID, s.Name, s.Category, s.ProficiencyLevel, s.YearsExperience,
		)
		if err != nil {
			logger.Log.Error("Failed to insert dependent rows", "table", "skills", "error", err)
			return fmt.Errorf("skills insertion failed: %w", err)
		}
	}
	return nil
}

func insertProjects(ctx context.Context, tx pgx.Tx, resumeID int64, rows []domain.Project) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO projects (
			resume_id, ordinal, name, description, technologies,
			url, start_date, end_date, highlights
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, p := range rows {
		_, err := tx.Exec(ctx, query,
			resumeID, p.ID, p.Name, p.Description, pq.Array(p.Technologies),
			p.URL, parseOptionalDate(p.StartDate), parseOptionalDate(p.EndDate),
			pq.Array(p.Highlights),
		)
		if err != nil {
			logger.Log.Error("Failed to insert dependent rows", "table", "projects", "error", err)
			return fmt.Errorf("projects insertion failed: %w", err)
		}
	}
	return nil
}

// =================================================================================================
// Reads
// =================================================================================================

const resumeColumns = `
	id, user_id, title, version, status, full_name, professional_summary,
	contact, styling_preferences, keywords, industry_focus, job_titles_targeted,
	last_generated_pdf, created_at, updated_at`

type resumeScanner interface {
	Scan(dest ...any) error
}

func scanResume(row resumeScanner, resume *domain.Resume) error {
	var contactJSON, stylingJSON []byte
	var keywords, industry, jobTitles []string

	err := row.Scan(
		&resume.ID, &resume.UserID, &resume.Title, &resume.Version, &resume.Status,
		&resume.FullName, &resume.ProfessionalSummary,
		&contactJSON, &stylingJSON,
		pq.Array(&keywords), pq.Array(&industry), pq.Array(&jobTitles),
		&resume.LastGeneratedPDF, &resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		return err
	}

	resume.Contact = &domain.Contact{}
	if len(contactJSON) > 0 {
		if err := json.Unmarshal(contactJSON, resume.Contact); err != nil {
			return fmt.Errorf("failed to decode contact: %w", err)
		}
	}
	resume.StylingPreferences = &domain.StylingPreferences{Template: "default"}
	if len(stylingJSON) > 0 {
		if err := json.Unmarshal(stylingJSON, resume.StylingPreferences); err != nil {
			return fmt.Errorf("failed to decode styling_preferences: %w", err)
		}
	}
	resume.Keywords = keywords
	resume.IndustryFocus = industry
	resume.JobTitlesTargeted = jobTitles
	return nil
}

func (r *resumeRepository) Fetch(ctx context.Context, userID string) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1`

	rows, err := r.gw.Pool().Query(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Failed to list resumes", "table", "resumes", "error", err)
		return nil, err
	}
	defer rows.Close()

	resumes := []domain.Resume{}
	for rows.Next() {
		var resume domain.Resume
		if err := scanResume(rows, &resume); err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

func (r *resumeRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.ResumeWithDetails, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND id = $2`

	result := &domain.ResumeWithDetails{
		Education:      []domain.Education{},
		Experience:     []domain.Experience{},
		Skills:         []domain.Skill{},
		Projects:       []domain.Project{},
		Certifications: []domain.Certification{},
		Awards:         []domain.Award{},
	}

	err := scanResume(r.gw.Pool().QueryRow(ctx, query, userID, id), &result.Resume)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		logger.Log.Error("Failed to fetch resume", "table", "resumes", "error", err)
		return nil, err
	}

	if err := r.fetchEducation(ctx, id, result); err != nil {
		return nil, err
	}
	if err := r.fetchExperience(ctx, id, result); err != nil {
		return nil, err
	}
	if err := r.fetchSkills(ctx, id, result); err != nil {
		return nil, err
	}
	if err := r.fetchProjects(ctx, id, result); err != nil {
		return nil, err
	}
	if err := r.fetchCertifications(ctx, id, result); err != nil {
		return nil, err
	}
	if err := r.fetchAwards(ctx, id, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *resumeRepository) fetchEducation(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, ordinal, institution, degree, field, start_date, end_date,
		       gpa, achievements, COALESCE(location, '')
		FROM education WHERE resume_id = $1 ORDER BY ordinal, id`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch education: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Education
		var startDate time.Time
		var endDate *time.Time
		var achievements []string
		err := rows.Scan(
			&e.RowID, &e.ID, &e.Institution, &e.Degree, &e.Field,
			&startDate, &endDate, &e.GPA, pq.Array(&achievements), &e.Location,
		)
		if err != nil {
			return err
		}
		e.StartDate = startDate.Format(dateLayout)
		e.EndDate = formatOptionalDate(endDate)
		e.Achievements = achievements
		out.Education = append(out.Education, e)
	}
	return rows.Err()
}

func (r *resumeRepository) fetchExperience(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, ordinal, company, position, start_date, end_date,
		       COALESCE(location, ''), description, skills_used, achievements
		FROM experience WHERE resume_id = $1 ORDER BY ordinal, id`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch experience: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Experience
		var startDate time.Time
		var endDate *time.Time
		var description, skillsUsed, achievements []string
		err := rows.Scan(
			&e.RowID, &e.ID, &e.Company, &e.Position, &startDate, &endDate,
			&e.Location, pq.Array(&description), pq.Array(&skillsUsed), pq.Array(&achievements),
		)
		if err != nil {
			return err
		}
		e.StartDate = startDate.Format(dateLayout)
		e.EndDate = formatOptionalDate(endDate)
		e.Description = description
		e.SkillsUsed = skillsUsed
		e.Achievements = achievements
		out.Experience = append(out.Experience, e)
	}
	return rows.Err()
}

func (r *resumeRepository) fetchSkills(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, ordinal, name, category, COALESCE(proficiency_level, ''), years_experience
		FROM skills WHERE resume_id = $1 ORDER BY ordinal, id`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.RowID, &s.ID, &s.Name, &s.Category, &s.ProficiencyLevel, &s.YearsExperience); err != nil {
			return err
		}
		out.Skills = append(out.Skills, s)
	}
	return rows.Err()
}

func (r *resumeRepository) fetchProjects(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, ordinal, name, description, technologies,
		       COALESCE(url, ''), start_date, end_date, highlights
		FROM projects WHERE resume_id = $1 ORDER BY ordinal, id`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Project
		var startDate, endDate *time.Time
		var technologies, highlights []string
		err := rows.Scan(
			&p.RowID, &p.ID, &p.Name, &p.Description, pq.Array(&technologies),
			&p.URL, &startDate, &endDate, pq.Array(&highlights),
		)
		if err != nil {
			return err
		}
		p.StartDate = formatOptionalDate(startDate)
		p.EndDate = formatOptionalDate(endDate)
		p.Technologies = technologies
		p.Highlights = highlights
		out.Projects = append(out.Projects, p)
	}
	return rows.Err()
}

func (r *resumeRepository) fetchCertifications(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, name, issuer, date_acquired, expiry_date, COALESCE(credential_id, '')
		FROM certifications WHERE resume_id = $1 ORDER BY date_acquired DESC`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch certifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Certification
		var acquired time.Time
		var expiry *time.Time
		if err := rows.Scan(&c.RowID, &c.Name, &c.Issuer, &acquired, &expiry, &c.CredentialID); err != nil {
			return err
		}
		c.DateAcquired = acquired.Format(dateLayout)
		c.ExpiryDate = formatOptionalDate(expiry)
		out.Certifications = append(out.Certifications, c)
	}
	return rows.Err()
}

func (r *resumeRepository) fetchAwards(ctx context.Context, resumeID int64, out *domain.ResumeWithDetails) error {
	query := `
		SELECT id, title, issuer, date, COALESCE(description, '')
		FROM awards WHERE resume_id = $1 ORDER BY date DESC`

	rows, err := r.gw.Pool().Query(ctx, query, resumeID)
	if err != nil {
		return fmt.Errorf("failed to fetch awards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Award
		var date time.Time
		if err := rows.Scan(&a.RowID, &a.Title, &a.Issuer, &date, &a.Description); err != nil {
			return err
		}
		a.Date = date.Format(dateLayout)
		out.Awards = append(out.Awards, a)
	}
	return rows.Err()
}

// =================================================================================================
// Update / Delete (parent row only, owner-scoped)
// =================================================================================================

func (r *resumeRepository) Update(ctx context.Context, cred domain.Credential, userID string, id int64, resume *domain.Resume) (*domain.Resume, error) {
	contactJSON, err := json.Marshal(resume.Contact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact: %w", err)
	}
	stylingJSON, err := json.Marshal(resume.StylingPreferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode styling_preferences: %w", err)
	}

	query := `
		UPDATE resumes SET
			title = $1, status = $2, full_name = $3, professional_summary = $4,
			contact = $5, styling_preferences = $6,
			keywords = $7, industry_focus = $8, job_titles_targeted = $9,
			updated_at = NOW()
		WHERE user_id = $10 AND id = $11
		RETURNING ` + resumeColumns

	var updated domain.Resume
	err = r.gw.WithClaims(ctx, claimsJSON(cred), func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query,
			resume.Title, resume.Status, resume.FullName, resume.ProfessionalSummary,
			contactJSON, stylingJSON,
			pq.Array([]string(resume.Keywords)),
			pq.Array([]string(resume.IndustryFocus)),
			pq.Array([]string(resume.JobTitlesTargeted)),
			userID, id,
		)
		return scanResume(row, &updated)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		logger.Log.Error("Failed to update resume", "table", "resumes", "error", err)
		return nil, err
	}
	return &updated, nil
}

func (r *resumeRepository) Delete(ctx context.Context, cred domain.Credential, userID string, id int64) error {
	// Dependent rows are removed by the ON DELETE CASCADE constraints.
	query := `DELETE FROM resumes WHERE user_id = $1 AND id = $2`

	var affected int64
	err := r.gw.WithClaims(ctx, claimsJSON(cred), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, userID, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to delete resume", "table", "resumes", "error", err)
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
