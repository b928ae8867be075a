package repository

import (
	"context"

	"github.com/Baaaki/planogram-backoffice/internal/models"
)

type StoreRepository struct {
	*Table[models.Store]
}

func NewStoreRepository(conn Querier) *StoreRepository {
	return &StoreRepository{Table: NewTable[models.Store](conn, "stores", models.StoreColumns)}
}

func (r *StoreRepository) FindByName(ctx context.Context, name string) (*models.Store, error) {
	return r.FindByCondition(ctx, Fields{"name": name})
}
