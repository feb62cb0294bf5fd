package model

import "time"

// Submission represents one name/email/message record sent through the form.
type Submission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmissionInput is the caller-supplied part of a Submission. Values may be untrimmed.
type SubmissionInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// SubmissionPage is the result of listing submissions.
type SubmissionPage struct {
	Submissions []*Submission
	Pagination  Pagination
}
