package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-resume-backend/internal/delivery/http/middleware"
	"go-resume-backend/internal/delivery/http/response"
	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/apperror"
	"go-resume-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockResumeUsecase struct {
	mock.Mock
}

func (m *MockResumeUsecase) Create(ctx context.Context, userID string, cred domain.Credential, doc *domain.ResumeDocument) (*domain.Resume, error) {
	args := m.Called(ctx, userID, cred, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) List(ctx context.Context, userID string) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) Get(ctx context.Context, userID string, id int64) (*domain.ResumeWithDetails, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeWithDetails), args.Error(1)
}

func (m *MockResumeUsecase) Update(ctx context.Context, userID string, cred domain.Credential, id int64, doc *domain.ResumeDocument) (*domain.Resume, error) {
	args := m.Called(ctx, userID, cred, id, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeUsecase) Delete(ctx context.Context, userID string, cred domain.Credential, id int64) error {
	args := m.Called(ctx, userID, cred, id)
	return args.Error(0)
}

// setupRouter builds a test router with a stub identity in place of the JWT
// middleware.
func setupRouter(uc domain.ResumeUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	validate := validator.New()
	validation.RegisterValidators(validate)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, "user-1")
		ctx = context.WithValue(ctx, domain.KeyAccessToken, "test-token")
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(domain.KeyUserID), "user-1")
		c.Next()
	})

	v1 := r.Group("/v1")
	NewResumeHandler(v1, uc, validate)
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validResumeBody = `{
	"title": "SWE Resume",
	"full_name": "A. Lee",
	"professional_summary": "Backend engineer.",
	"education": [
		{"id": 1, "institution": "MIT", "degree": "BS", "field": "CS", "start_date": "2015-09-01"}
	],
	"skills": [
		{"id": 1, "name": "Go", "category": "technical"}
	]
}`

func TestCreateResumeEndpoint(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(cred domain.Credential) bool {
		return cred.Token == "test-token"
	}), mock.MatchedBy(func(doc *domain.ResumeDocument) bool {
		return doc.Title == "SWE Resume" && len(doc.Education) == 1 && len(doc.Skills) == 1
	})).Return(&domain.Resume{ID: 42, UserID: "user-1", Title: "SWE Resume"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", strings.NewReader(validResumeBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeResponse(t, rec)
	assert.True(t, body.Success)
	uc.AssertExpectations(t)
}

func TestCreateResumeRejectsInvalidDocument(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	// Missing required title
	payload := `{"full_name": "A. Lee", "professional_summary": "x"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse(t, rec)
	assert.False(t, body.Success)
	uc.AssertNotCalled(t, "Create")
}

func TestCreateResumeCoercesMalformedOptionalFields(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	// Malformed contact and keywords must not fail the request.
	payload := `{
		"title": "CV",
		"full_name": "A. Lee",
		"professional_summary": "x",
		"contact": "not an object",
		"keywords": 42
	}`

	uc.On("Create", mock.Anything, "user-1", mock.Anything, mock.MatchedBy(func(doc *domain.ResumeDocument) bool {
		return doc.Contact != nil && len(doc.Keywords) == 0
	})).Return(&domain.Resume{ID: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	uc.AssertExpectations(t)
}

func TestCreateResumePersistenceFailureIs502(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("Create", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return(nil, apperror.Persistence("Resume could not be persisted", errors.New("down")))

	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", strings.NewReader(validResumeBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeResponse(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Resume could not be persisted", body.Message)
}

func TestListResumesEndpoint(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("List", mock.Anything, "user-1").Return([]domain.Resume{{ID: 1, Title: "CV"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/resumes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.True(t, body.Success)
	uc.AssertExpectations(t)
}

func TestGetResumeEndpointNotFound(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("Get", mock.Anything, "user-1", int64(99)).Return(nil, apperror.NotFound("Resume not found"))

	req := httptest.NewRequest(http.MethodGet, "/v1/resumes/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Resume not found", body.Message)
}

func TestGetResumeEndpointInvalidID(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/v1/resumes/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Get")
}

func TestUpdateResumeEndpoint(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("Update", mock.Anything, "user-1", mock.Anything, int64(7), mock.Anything).
		Return(&domain.Resume{ID: 7, Title: "SWE Resume"}, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/resumes/7", strings.NewReader(validResumeBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestDeleteResumeEndpoint(t *testing.T) {
	uc := new(MockResumeUsecase)
	router := setupRouter(uc)

	uc.On("Delete", mock.Anything, "user-1", mock.Anything, int64(7)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/resumes/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}
