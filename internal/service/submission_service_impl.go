package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/pranchal07/heal/internal/logging"
	"github.com/pranchal07/heal/internal/metrics"
	"github.com/pranchal07/heal/internal/model"
	"github.com/pranchal07/heal/internal/repository"
	"github.com/pranchal07/heal/internal/validation"
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo repository.SubmissionRepository
}

// NewSubmissionService creates a SubmissionService backed by the given repository.
func NewSubmissionService(repo repository.SubmissionRepository) SubmissionService {
	return &submissionServiceImpl{repo: repo}
}

func (s *submissionServiceImpl) Create(ctx context.Context, in model.SubmissionInput) (*model.Submission, error) {
	if violations := validation.ValidateSubmission(in); len(violations) > 0 {
		metrics.RecordSubmissionEvent(metrics.EventInvalid)
		return nil, &ValidationError{Violations: violations}
	}

	clean := validation.Sanitize(in)
	sub := &model.Submission{
		Name:    clean.Name,
		Email:   clean.Email,
		Message: clean.Message,
	}

	slog.InfoContext(ctx, "creating submission", "name", sub.Name, "email", logging.MaskEmail(sub.Email))
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, &StorageError{Op: "create submission", Err: err}
	}
	metrics.RecordSubmissionEvent(metrics.EventCreated)
	slog.InfoContext(ctx, "submission created", "id", sub.ID)
	return sub, nil
}

func (s *submissionServiceImpl) List(ctx context.Context, page, limit int) (*model.SubmissionPage, error) {
	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, &StorageError{Op: "count submissions", Err: err}
	}
	subs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, &StorageError{Op: "list submissions", Err: err}
	}
	if subs == nil {
		subs = []*model.Submission{}
	}

	slog.DebugContext(ctx, "submissions fetched", "count", len(subs), "total", total, "page", page, "limit", limit)
	return &model.SubmissionPage{
		Submissions: subs,
		Pagination: model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

func (s *submissionServiceImpl) Delete(ctx context.Context, id int64) (*model.Submission, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	sub, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordSubmissionEvent(metrics.EventNotFound)
		slog.WarnContext(ctx, "submission not found for deletion", "id", id)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "delete submission", Err: err}
	}
	metrics.RecordSubmissionEvent(metrics.EventDeleted)
	slog.InfoContext(ctx, "submission deleted", "id", id)
	return sub, nil
}

// maxPage keeps (page-1)*limit well inside the int range.
const maxPage = math.MaxInt32 / MaxPageLimit

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	switch {
	case limit < 1:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return page, limit
}

// totalPages is ceil(total/limit).
func totalPages(total int64, limit int) int64 {
	if total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
