package usecase

import (
	"context"
	"errors"

	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/apperror"
	"go-resume-backend/pkg/logger"
)

type resumeUsecase struct {
	repo domain.ResumeRepository
}

func NewResumeUsecase(repo domain.ResumeRepository) domain.ResumeUsecase {
	return &resumeUsecase{repo: repo}
}

// callerID enforces the ownership invariant: a request may only act on the
// identity the auth middleware placed in the context. A userID argument that
// disagrees with the context is an IDOR attempt, not a lookup miss.
func callerID(ctx context.Context, userID string) (string, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	if userID != "" && userID != ctxUserID {
		return "", apperror.Forbidden("You can only access your own resumes")
	}
	return ctxUserID, nil
}

func (u *resumeUsecase) Create(ctx context.Context, userID string, cred domain.Credential, doc *domain.ResumeDocument) (*domain.Resume, error) {
	uid, err := callerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalized := domain.NormalizeResume(uid, doc)

	resume, err := u.repo.CreateFull(ctx, cred, normalized)
	if err != nil {
		logger.Log.Error("Error creating resume", "user_id", uid, "error", err)
		return nil, apperror.Persistence("Resume could not be persisted", err)
	}
	return resume, nil
}

func (u *resumeUsecase) List(ctx context.Context, userID string) ([]domain.Resume, error) {
	uid, err := callerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resumes, err := u.repo.Fetch(ctx, uid)
	if err != nil {
		// A failed query is a backend fault, not an empty result.
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

func (u *resumeUsecase) Get(ctx context.Context, userID string, id int64) (*domain.ResumeWithDetails, error) {
	uid, err := callerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resume, err := u.repo.GetByID(ctx, uid, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

func (u *resumeUsecase) Update(ctx context.Context, userID string, cred domain.Credential, id int64, doc *domain.ResumeDocument) (*domain.Resume, error) {
	uid, err := callerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Full-document replace of the parent row. Dependent collections are not
	// reconciled here. Normalization keeps the jsonb columns non-null.
	normalized := domain.NormalizeResume(uid, doc)

	resume, err := u.repo.Update(ctx, cred, uid, id, &normalized.Resume)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Resume not found")
		}
		return nil, apperror.Persistence("Resume could not be updated", err)
	}
	return resume, nil
}

func (u *resumeUsecase) Delete(ctx context.Context, userID string, cred domain.Credential, id int64) error {
	uid, err := callerID(ctx, userID)
	if err != nil {
		return err
	}

	err = u.repo.Delete(ctx, cred, uid, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Resume not found")
		}
		return apperror.Persistence("Resume could not be deleted", err)
	}
	return nil
}
