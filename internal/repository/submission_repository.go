package repository

import (
	"context"

	"github.com/Baaaki/planogram-backoffice/internal/models"
)

type SubmissionRepository struct {
	*Table[models.Submission]
}

func NewSubmissionRepository(conn Querier) *SubmissionRepository {
	return &SubmissionRepository{Table: NewTable[models.Submission](conn, "submissions", models.SubmissionColumns)}
}

type UploadRepository struct {
	*Table[models.Upload]
}

func NewUploadRepository(conn Querier) *UploadRepository {
	return &UploadRepository{Table: NewTable[models.Upload](conn, "uploads", models.UploadColumns)}
}

// FindBySubmission lists the uploads pointing back at a submission.
func (r *UploadRepository) FindBySubmission(ctx context.Context, submissionID string) ([]models.Upload, error) {
	if submissionID == "" {
		return []models.Upload{}, nil
	}
	return r.FindAllByFilter(ctx, Fields{"submissionId": submissionID})
}
