package service

import (
	"context"

	"github.com/pranchal07/heal/internal/model"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// SubmissionService defines the business logic for form submissions.
type SubmissionService interface {
	// Create validates in and stores it. A *ValidationError is returned, and
	// nothing is written, when any rule fails.
	Create(ctx context.Context, in model.SubmissionInput) (*model.Submission, error)

	// List returns one page of submissions, newest first. page and limit are
	// normalized: page < 1 becomes 1, limit < 1 becomes DefaultPageLimit and
	// limit > MaxPageLimit becomes MaxPageLimit.
	List(ctx context.Context, page, limit int) (*model.SubmissionPage, error)

	// Delete removes the submission with the given id and returns it.
	// ErrInvalidID is returned for id <= 0, ErrNotFound when no row matches.
	Delete(ctx context.Context, id int64) (*model.Submission, error)
}
