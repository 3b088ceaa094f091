package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ SubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo handles database operations for founder story submissions
type SubmissionRepo struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

const submissionColumns = `id, founder_name, founder_email, company_name, COALESCE(company_website, ''),
	       proposed_title, proposed_summary, proposed_category, proposed_tags,
	       status, COALESCE(admin_notes, ''), COALESCE(reviewed_by, ''), COALESCE(reviewed_at, ''), submitted_at`

func (r *SubmissionRepo) scanSubmission(row interface{ Scan(...any) error }) (*Submission, error) {
	var s Submission
	var tags string
	err := row.Scan(
		&s.ID, &s.FounderName, &s.FounderEmail, &s.CompanyName, &s.CompanyWebsite,
		&s.ProposedTitle, &s.ProposedSummary, &s.ProposedCategory, &tags,
		&s.Status, &s.AdminNotes, &s.ReviewedBy, &s.ReviewedAt, &s.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ProposedTags = unmarshalStrings(tags)
	return &s, nil
}

func (r *SubmissionRepo) Create(ctx context.Context, submission Submission) (*Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO submissions (founder_name, founder_email, company_name, company_website,
		                         proposed_title, proposed_summary, proposed_category, proposed_tags, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending')
		RETURNING `+submissionColumns+`
	`, submission.FounderName, submission.FounderEmail, submission.CompanyName, submission.CompanyWebsite,
		submission.ProposedTitle, submission.ProposedSummary,
		nonEmpty(submission.ProposedCategory, "general"), marshalJSON(submission.ProposedTags))

	created, err := r.scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	return created, nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	submission, err := r.scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// List returns submissions newest first. Status "all" (or empty) matches any
// status.
func (r *SubmissionRepo) List(ctx context.Context, status string, limit, offset int) ([]Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var args []any

	if status != "" && status != "all" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY submitted_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		submission, err := r.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, *submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}

	return submissions, nil
}

func (r *SubmissionRepo) MarkApproved(ctx context.Context, id, reviewedBy string) (bool, error) {
	return r.review(ctx, id, "approved", "", reviewedBy)
}

func (r *SubmissionRepo) MarkRejected(ctx context.Context, id, reason, reviewedBy string) (bool, error) {
	return r.review(ctx, id, "rejected", reason, reviewedBy)
}

func (r *SubmissionRepo) review(ctx context.Context, id, status, notes, reviewedBy string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = ?, admin_notes = ?, reviewed_by = ?, reviewed_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?
	`, status, notes, reviewedBy, id)
	if err != nil {
		return false, fmt.Errorf("failed to update submission status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}
