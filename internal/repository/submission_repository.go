package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pranchal07/heal/internal/model"
)

// SubmissionRepository defines the persistence interface for submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type SubmissionRepository interface {
	// Create inserts s and fills in ID, CreatedAt and UpdatedAt from the database.
	Create(ctx context.Context, s *model.Submission) error
	// List returns submissions newest first.
	List(ctx context.Context, limit, offset int) ([]*model.Submission, error)
	Count(ctx context.Context) (int64, error)
	// Delete removes the row and returns it, or ErrNotFound.
	Delete(ctx context.Context, id int64) (*model.Submission, error)
}

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	db *DB
}

// NewPgSubmissionRepository creates a PgSubmissionRepository on top of the gateway.
func NewPgSubmissionRepository(db *DB) *PgSubmissionRepository {
	return &PgSubmissionRepository{db: db}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

const submissionColumns = `id, name, email, message, created_at, updated_at`

func (r *PgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.db.QueryRow(ctx, "insert_submission",
		`INSERT INTO submissions (name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		[]any{s.Name, s.Email, s.Message},
		&s.ID, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *PgSubmissionRepository) List(ctx context.Context, limit, offset int) ([]*model.Submission, error) {
	rows, err := r.db.Query(ctx, "list_submissions",
		`SELECT `+submissionColumns+`
		 FROM submissions
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		submissions = append(submissions, &s)
	}
	return submissions, rows.Err()
}

func (r *PgSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, "count_submissions", `SELECT COUNT(*) FROM submissions`, nil, &n)
	return n, err
}

func (r *PgSubmissionRepository) Delete(ctx context.Context, id int64) (*model.Submission, error) {
	var s model.Submission
	err := r.db.QueryRow(ctx, "delete_submission",
		`DELETE FROM submissions WHERE id = $1 RETURNING `+submissionColumns,
		[]any{id},
		&s.ID, &s.Name, &s.Email, &s.Message, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
