package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) CreateFull(ctx context.Context, cred domain.Credential, doc *domain.ResumeDocument) (*domain.Resume, error) {
	args := m.Called(ctx, cred, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Fetch(ctx context.Context, userID string) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, userID string, id int64) (*domain.ResumeWithDetails, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeWithDetails), args.Error(1)
}

func (m *MockResumeRepo) Update(ctx context.Context, cred domain.Credential, userID string, id int64, resume *domain.Resume) (*domain.Resume, error) {
	args := m.Called(ctx, cred, userID, id, resume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Delete(ctx context.Context, cred domain.Credential, userID string, id int64) error {
	args := m.Called(ctx, cred, userID, id)
	return args.Error(0)
}

func authedCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestCreateNormalizesBeforePersisting(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")
	cred := domain.Credential{Token: "tok"}

	doc := &domain.ResumeDocument{
		Resume: domain.Resume{Title: "CV", FullName: "A. Lee", ProfessionalSummary: "x"},
		Education: []domain.Education{
			{ID: 1, Institution: "MIT", Degree: "BS", Field: "CS", StartDate: "2015-09-01"},
		},
	}

	repo.On("CreateFull", ctx, cred, mock.MatchedBy(func(d *domain.ResumeDocument) bool {
		return d.UserID == "user-1" &&
			d.Version == 1 &&
			d.Status == domain.StatusDraft &&
			d.Contact != nil &&
			d.StylingPreferences != nil &&
			d.StylingPreferences.Template == "default" &&
			len(d.Education) == 1
	})).Return(&domain.Resume{ID: 42, UserID: "user-1", Title: "CV"}, nil)

	resume, err := uc.Create(ctx, "user-1", cred, doc)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resume.ID)
	repo.AssertExpectations(t)
}

func TestCreateRequiresAuthenticatedContext(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)

	_, err := uc.Create(context.Background(), "user-1", domain.Credential{}, &domain.ResumeDocument{})

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	repo.AssertNotCalled(t, "CreateFull")
}

func TestCreateRejectsMismatchedOwner(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)

	_, err := uc.Create(authedCtx("user-1"), "user-2", domain.Credential{}, &domain.ResumeDocument{})

	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
	repo.AssertNotCalled(t, "CreateFull")
}

func TestCreateRepoFailureIsPersistenceError(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	storeErr := errors.New("connection refused")
	repo.On("CreateFull", ctx, mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := uc.Create(ctx, "user-1", domain.Credential{}, &domain.ResumeDocument{})

	assert.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))
	// The store cause stays attached for logging, not masked as a lookup miss.
	assert.ErrorIs(t, err, storeErr)
}

func TestListScopesToCaller(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("Fetch", ctx, "user-1").Return([]domain.Resume{{ID: 1}, {ID: 2}}, nil)

	resumes, err := uc.List(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, resumes, 2)
	repo.AssertExpectations(t)
}

func TestListQueryFailureIsNotAnEmptyResult(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("Fetch", ctx, "user-1").Return(nil, errors.New("timeout"))

	resumes, err := uc.List(ctx, "user-1")

	assert.Nil(t, resumes)
	assert.Equal(t, http.StatusInternalServerError, appErrCode(t, err))
}

func TestGetTranslatesNotFound(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("GetByID", ctx, "user-1", int64(7)).Return(nil, domain.ErrNotFound)

	_, err := uc.Get(ctx, "user-1", 7)

	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestGetBackendFaultIsNotNotFound(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("GetByID", ctx, "user-1", int64(7)).Return(nil, errors.New("broken pipe"))

	_, err := uc.Get(ctx, "user-1", 7)

	assert.Equal(t, http.StatusInternalServerError, appErrCode(t, err))
}

func TestGetReturnsAssembledAggregate(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	details := &domain.ResumeWithDetails{
		Resume:    domain.Resume{ID: 7, UserID: "user-1", Title: "CV"},
		Education: []domain.Education{{RowID: 100, Institution: "MIT"}},
		Skills:    []domain.Skill{{RowID: 101, Name: "Go", Category: "technical"}},
	}
	repo.On("GetByID", ctx, "user-1", int64(7)).Return(details, nil)

	got, err := uc.Get(ctx, "user-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Len(t, got.Education, 1)
	assert.Len(t, got.Skills, 1)
}

func TestUpdateNormalizesParentRow(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")
	cred := domain.Credential{Token: "tok"}

	doc := &domain.ResumeDocument{Resume: domain.Resume{Title: "Updated CV"}}

	repo.On("Update", ctx, cred, "user-1", int64(7), mock.MatchedBy(func(r *domain.Resume) bool {
		return r.Title == "Updated CV" && r.Contact != nil && r.Keywords != nil
	})).Return(&domain.Resume{ID: 7, Title: "Updated CV"}, nil)

	got, err := uc.Update(ctx, "user-1", cred, 7, doc)

	assert.NoError(t, err)
	assert.Equal(t, "Updated CV", got.Title)
	repo.AssertExpectations(t)
}

func TestUpdateMissingResumeIsNotFound(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("Update", ctx, mock.Anything, "user-1", int64(9), mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := uc.Update(ctx, "user-1", domain.Credential{}, 9, &domain.ResumeDocument{})

	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestDeleteMissingResumeIsNotFound(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("Delete", ctx, mock.Anything, "user-1", int64(9)).Return(domain.ErrNotFound)

	err := uc.Delete(ctx, "user-1", domain.Credential{}, 9)

	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestDeleteSucceeds(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")
	cred := domain.Credential{Token: "tok"}

	repo.On("Delete", ctx, cred, "user-1", int64(3)).Return(nil)

	err := uc.Delete(ctx, "user-1", cred, 3)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteStoreFailureIsPersistenceError(t *testing.T) {
	repo := new(MockResumeRepo)
	uc := NewResumeUsecase(repo)
	ctx := authedCtx("user-1")

	repo.On("Delete", ctx, mock.Anything, "user-1", int64(3)).Return(errors.New("deadlock detected"))

	err := uc.Delete(ctx, "user-1", domain.Credential{}, 3)

	assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))
}
