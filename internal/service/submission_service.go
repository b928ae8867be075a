package service

import (
	"context"
	"slices"
	"strconv"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const submissionFolder = "submissions"

type SubmissionInput struct {
	StoreID     string   `json:"storeId" binding:"required"`
	PlanogramID string   `json:"planogramId" binding:"required"`
	UploadIDs   []string `json:"uploadIds"`
}

type SubmissionUpdate struct {
	StoreID     *string   `json:"storeId"`
	PlanogramID *string   `json:"planogramId"`
	UploadIDs   *[]string `json:"uploadIds"`
}

// UploadTarget says where a standalone upload belongs. Store and planogram
// fall back to the submission's when either is missing.
type UploadTarget struct {
	StoreID      string `form:"storeId"`
	PlanogramID  string `form:"planogramId"`
	SubmissionID string `form:"submissionId"`
}

type SubmissionWithUpload struct {
	Submission *SubmissionView `json:"submission"`
	Upload     *UploadView     `json:"upload"`
}

type SubmissionService struct {
	submissions *repository.SubmissionRepository
	uploads     *repository.UploadRepository
	storage     storage.Storage
	relations   *Relations
}

func NewSubmissionService(
	submissions *repository.SubmissionRepository,
	uploads *repository.UploadRepository,
	store storage.Storage,
	relations *Relations,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		uploads:     uploads,
		storage:     store,
		relations:   relations,
	}
}

func (s *SubmissionService) List(ctx context.Context, q ListQuery) ([]SubmissionView, error) {
	rows, err := s.submissions.FindAllWithSearchAndSort(ctx, q.options("id"))
	if err != nil {
		logger.Log.Error("Failed to list submissions", zap.Error(err))
		return nil, err
	}
	return s.relations.Submissions(ctx, rows), nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*SubmissionView, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, notFound("submission", id)
	}
	return &s.relations.Submissions(ctx, []models.Submission{*submission})[0], nil
}

func (s *SubmissionService) Create(ctx context.Context, in SubmissionInput, uploadedByID string) (*SubmissionView, error) {
	submission, err := s.insert(ctx, in, uploadedByID)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, submission.ID)
}

func (s *SubmissionService) insert(ctx context.Context, in SubmissionInput, uploadedByID string) (*models.Submission, error) {
	if in.StoreID == "" || in.PlanogramID == "" {
		return nil, invalid("storeId and planogramId are required")
	}

	ts := now()
	submission, err := s.submissions.Create(ctx, repository.Fields{
		"id":           uuid.NewString(),
		"uploadedAt":   ts,
		"uploadedById": uploadedByID,
		"storeId":      in.StoreID,
		"planogramId":  in.PlanogramID,
		"uploadIds":    models.EncodeUploadIDs(in.UploadIDs),
		"createdAt":    ts,
		"updatedAt":    ts,
	})
	if err != nil {
		logger.Log.Error("Failed to create submission",
			zap.String("store_id", in.StoreID),
			zap.String("planogram_id", in.PlanogramID),
			zap.Error(err),
		)
		return nil, err
	}
	return submission, nil
}

// CreateWithFileUpload stores the file, creates a submission, creates the
// upload row pointing at it and finally records the upload id on the
// submission. The steps are separate writes.
func (s *SubmissionService) CreateWithFileUpload(ctx context.Context, in SubmissionInput, file *FileInput, uploadedByID string) (*SubmissionWithUpload, error) {
	if err := file.validate(); err != nil {
		return nil, err
	}
	if in.StoreID == "" || in.PlanogramID == "" {
		return nil, invalid("storeId and planogramId are required")
	}

	stored, err := s.storage.Upload(ctx, file.Name, file.ContentType, file.Data, submissionFolder)
	if err != nil {
		logger.Log.Error("Failed to store submission file", zap.Error(err))
		return nil, err
	}

	in.UploadIDs = nil
	submission, err := s.insert(ctx, in, uploadedByID)
	if err != nil {
		return nil, err
	}

	upload, err := s.createUploadRow(ctx, stored, file, uploadedByID, in.StoreID, in.PlanogramID, &submission.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.submissions.Update(ctx, submission.ID, repository.Fields{
		"uploadIds": models.EncodeUploadIDs([]string{upload.ID}),
		"updatedAt": now(),
	}); err != nil {
		logger.Log.Error("Failed to record upload on submission",
			zap.String("submission_id", submission.ID),
			zap.String("upload_id", upload.ID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Submission created with upload",
		zap.String("submission_id", submission.ID),
		zap.String("upload_id", upload.ID),
	)

	view, err := s.Get(ctx, submission.ID)
	if err != nil {
		return nil, err
	}
	uploadView := s.relations.Uploads(ctx, []models.Upload{*upload})[0]
	return &SubmissionWithUpload{Submission: view, Upload: &uploadView}, nil
}

func (s *SubmissionService) createUploadRow(
	ctx context.Context,
	stored *storage.UploadedFile,
	file *FileInput,
	uploadedByID, storeID, planogramID string,
	submissionID *string,
) (*models.Upload, error) {
	ts := now()
	upload, err := s.uploads.Create(ctx, repository.Fields{
		"id":           uuid.NewString(),
		"filename":     stored.Path,
		"filesize":     strconv.FormatInt(stored.Size, 10),
		"fileType":     file.ContentType,
		"uploadedAt":   ts,
		"uploadedById": uploadedByID,
		"storeId":      storeID,
		"planogramId":  planogramID,
		"submissionId": submissionID,
		"createdAt":    ts,
		"updatedAt":    ts,
	})
	if err != nil {
		logger.Log.Error("Failed to create upload",
			zap.String("path", stored.Path),
			zap.Error(err),
		)
		return nil, err
	}
	return upload, nil
}

// CreateUpload stores a file and creates an upload row. Missing store or
// planogram ids are taken from the target submission.
func (s *SubmissionService) CreateUpload(ctx context.Context, target UploadTarget, file *FileInput, uploadedByID string) (*UploadView, error) {
	if err := file.validate(); err != nil {
		return nil, err
	}

	storeID, planogramID := target.StoreID, target.PlanogramID
	if target.SubmissionID != "" && (storeID == "" || planogramID == "") {
		submission, err := s.submissions.FindByID(ctx, target.SubmissionID)
		if err != nil {
			return nil, err
		}
		if submission != nil {
			storeID, planogramID = submission.StoreID, submission.PlanogramID
		}
	}
	if storeID == "" || planogramID == "" {
		return nil, ErrUploadTargetIncomplete
	}

	stored, err := s.storage.Upload(ctx, file.Name, file.ContentType, file.Data, submissionFolder)
	if err != nil {
		logger.Log.Error("Failed to store upload file", zap.Error(err))
		return nil, err
	}

	upload, err := s.createUploadRow(ctx, stored, file, uploadedByID, storeID, planogramID, optional(target.SubmissionID))
	if err != nil {
		return nil, err
	}
	view := s.relations.Uploads(ctx, []models.Upload{*upload})[0]
	return &view, nil
}

// AddUploadToSubmission points the upload at the submission (copying the
// submission's store and planogram) and then appends the upload id to the
// submission's list. The two writes are not atomic: a failure or a
// concurrent writer between them leaves the two sides disagreeing.
func (s *SubmissionService) AddUploadToSubmission(ctx context.Context, submissionID, uploadID string) (*SubmissionView, error) {
	if uploadID == "" {
		return nil, ErrUploadIDRequired
	}

	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, notFound("submission", submissionID)
	}

	upload, err := s.uploads.FindByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, notFound("upload", uploadID)
	}

	ts := now()
	if _, err := s.uploads.Update(ctx, uploadID, repository.Fields{
		"submissionId": submissionID,
		"storeId":      submission.StoreID,
		"planogramId":  submission.PlanogramID,
		"updatedAt":    ts,
	}); err != nil {
		logger.Log.Error("Failed to attach upload",
			zap.String("submission_id", submissionID),
			zap.String("upload_id", uploadID),
			zap.Error(err),
		)
		return nil, err
	}

	ids := submission.UploadIDList()
	if !slices.Contains(ids, uploadID) {
		ids = append(ids, uploadID)
	}
	if _, err := s.submissions.Update(ctx, submissionID, repository.Fields{
		"uploadIds": models.EncodeUploadIDs(ids),
		"updatedAt": ts,
	}); err != nil {
		logger.Log.Error("Upload attached but submission list not updated",
			zap.String("submission_id", submissionID),
			zap.String("upload_id", uploadID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Upload added to submission",
		zap.String("submission_id", submissionID),
		zap.String("upload_id", uploadID),
	)
	return s.Get(ctx, submissionID)
}

// AttachFile stores a new file as an upload of an existing submission.
func (s *SubmissionService) AttachFile(ctx context.Context, submissionID string, file *FileInput, uploadedByID string) (*SubmissionView, error) {
	upload, err := s.CreateUpload(ctx, UploadTarget{SubmissionID: submissionID}, file, uploadedByID)
	if err != nil {
		return nil, err
	}
	return s.AddUploadToSubmission(ctx, submissionID, upload.ID)
}

func (s *SubmissionService) Update(ctx context.Context, id string, in SubmissionUpdate) (*SubmissionView, error) {
	fields := repository.Fields{"updatedAt": now()}
	if in.StoreID != nil {
		fields["storeId"] = *in.StoreID
	}
	if in.PlanogramID != nil {
		fields["planogramId"] = *in.PlanogramID
	}
	if in.UploadIDs != nil {
		fields["uploadIds"] = models.EncodeUploadIDs(*in.UploadIDs)
	}

	submission, err := s.submissions.Update(ctx, id, fields)
	if err != nil {
		logger.Log.Error("Failed to update submission", zap.String("submission_id", id), zap.Error(err))
		return nil, err
	}
	if submission == nil {
		return nil, notFound("submission", id)
	}
	return &s.relations.Submissions(ctx, []models.Submission{*submission})[0], nil
}

func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if submission == nil {
		return notFound("submission", id)
	}
	if _, err := s.submissions.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete submission", zap.String("submission_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("Submission deleted", zap.String("submission_id", id))
	return nil
}
