package db

import (
	"context"
	"database/sql"

	"github.com/streamspace-dev/codesandbox/internal/models"
)

// SubmissionStore handles persistence for the append-only Submission log.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(conn *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: conn}
}

// Create inserts a new submission row. Submissions are never updated.
func (s *SubmissionStore) Create(ctx context.Context, userID int64, language, filePath, fileName, analysisResultJSON string) (int64, error) {
	var id int64
	query := `
		INSERT INTO code_submissions (user_id, language, file_path, file_name, analysis_result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, userID, language, filePath, fileName, analysisResultJSON).Scan(&id)
	return id, err
}

// ListByUser returns submission summaries for a user, newest first.
func (s *SubmissionStore) ListByUser(ctx context.Context, userID int64) ([]models.SubmissionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, language, created_at, file_name
		FROM code_submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubmissionSummary
	for rows.Next() {
		var s models.SubmissionSummary
		var fileName sql.NullString
		if err := rows.Scan(&s.ID, &s.Language, &s.CreatedAt, &fileName); err != nil {
			return nil, err
		}
		s.FileName = fileName.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches one submission, scoped to its owner. The
// (id, user_id) pair is the only access key: a submission owned by
// another user is indistinguishable from a missing one, returning
// (nil, nil) either way so callers surface not_found uniformly.
func (s *SubmissionStore) GetByIDAndUser(ctx context.Context, id, userID int64) (*models.Submission, error) {
	var sub models.Submission
	var fileName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, language, file_path, file_name, analysis_result, created_at
		FROM code_submissions
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&sub.ID, &sub.UserID, &sub.Language, &sub.FilePath, &fileName, &sub.AnalysisResultJSON, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sub.FileName = fileName.String
	return &sub, nil
}
