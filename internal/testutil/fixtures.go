package testutil

import (
	"context"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/utils"
	"github.com/google/uuid"
)

// CreateTestUser inserts a confirmed user with a hashed password
func CreateTestUser(ctx context.Context, conn repository.Querier, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return repository.NewUserRepository(conn).Create(ctx, repository.Fields{
		"id":          uuid.NewString(),
		"email":       email,
		"password":    hashedPassword,
		"firstName":   "Test",
		"lastName":    "User",
		"isConfirmed": true,
		"role":        role,
		"createdAt":   now,
		"updatedAt":   now,
	})
}

// DefaultTestUser inserts a regular user
func DefaultTestUser(ctx context.Context, conn repository.Querier) (*models.User, error) {
	return CreateTestUser(ctx, conn, "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser inserts an admin user
func DefaultAdminUser(ctx context.Context, conn repository.Querier) (*models.User, error) {
	return CreateTestUser(ctx, conn, "admin@example.com", "Admin123456", models.RoleAdmin)
}

func CreateTestStore(ctx context.Context, conn repository.Querier, name string, createdBy *string) (*models.Store, error) {
	now := time.Now().UTC()
	return repository.NewStoreRepository(conn).Create(ctx, repository.Fields{
		"id":          uuid.NewString(),
		"name":        name,
		"address":     name + " Street 1",
		"createdById": createdBy,
		"updatedById": createdBy,
		"createdAt":   now,
		"updatedAt":   now,
	})
}

func CreateTestPlanogram(ctx context.Context, conn repository.Querier, storeID, name string, createdBy *string) (*models.Planogram, error) {
	now := time.Now().UTC()
	return repository.NewPlanogramRepository(conn).Create(ctx, repository.Fields{
		"id":          uuid.NewString(),
		"name":        name,
		"description": name + " layout",
		"storeId":     storeID,
		"createdById": createdBy,
		"updatedById": createdBy,
		"createdAt":   now,
		"updatedAt":   now,
	})
}

func CreateTestSubmission(ctx context.Context, conn repository.Querier, userID, storeID, planogramID string, uploadIDs []string) (*models.Submission, error) {
	now := time.Now().UTC()
	return repository.NewSubmissionRepository(conn).Create(ctx, repository.Fields{
		"id":           uuid.NewString(),
		"uploadedAt":   now,
		"uploadedById": userID,
		"storeId":      storeID,
		"planogramId":  planogramID,
		"uploadIds":    models.EncodeUploadIDs(uploadIDs),
		"createdAt":    now,
		"updatedAt":    now,
	})
}

func CreateTestUpload(ctx context.Context, conn repository.Querier, userID, storeID, planogramID string, submissionID *string) (*models.Upload, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	return repository.NewUploadRepository(conn).Create(ctx, repository.Fields{
		"id":           id,
		"filename":     "uploads/" + id + "-shelf.jpg",
		"filesize":     "2048",
		"fileType":     "image/jpeg",
		"uploadedAt":   now,
		"uploadedById": userID,
		"storeId":      storeID,
		"planogramId":  planogramID,
		"submissionId": submissionID,
		"createdAt":    now,
		"updatedAt":    now,
	})
}
