package repository

import (
	"context"

	"github.com/Baaaki/planogram-backoffice/internal/models"
)

type UserRepository struct {
	*Table[models.User]
}

func NewUserRepository(conn Querier) *UserRepository {
	return &UserRepository{Table: NewTable[models.User](conn, "users", models.UserColumns)}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindByCondition(ctx, Fields{"email": email})
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.FindByCondition(ctx, Fields{"googleId": googleID})
}
