package service

import (
	"context"
	"strings"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListQuery carries the list endpoints' filter, search and sort parameters.
type ListQuery struct {
	Filter    repository.Fields
	Search    string
	SortBy    string
	SortOrder repository.SortOrder
}

func (q ListQuery) options(searchColumns ...string) repository.SearchOptions {
	return repository.SearchOptions{
		Search:        q.Search,
		SearchColumns: searchColumns,
		SortBy:        q.SortBy,
		SortOrder:     q.SortOrder,
		Filter:        q.Filter,
	}
}

type StoreInput struct {
	Name     string  `json:"name" binding:"required"`
	Address  *string `json:"address"`
	ImageSrc *string `json:"imageSrc"`
}

type StoreUpdate struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	ImageSrc *string `json:"imageSrc"`
}

type StoreService struct {
	stores    *repository.StoreRepository
	relations *Relations
}

func NewStoreService(stores *repository.StoreRepository, relations *Relations) *StoreService {
	return &StoreService{stores: stores, relations: relations}
}

func (s *StoreService) List(ctx context.Context, q ListQuery) ([]StoreView, error) {
	rows, err := s.stores.FindAllWithSearchAndSort(ctx, q.options("name", "address"))
	if err != nil {
		logger.Log.Error("Failed to list stores", zap.Error(err))
		return nil, err
	}
	return s.relations.Stores(ctx, rows), nil
}

func (s *StoreService) Get(ctx context.Context, id string) (*StoreView, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, notFound("store", id)
	}
	return &s.relations.Stores(ctx, []models.Store{*store})[0], nil
}

func (s *StoreService) Create(ctx context.Context, in StoreInput, actorID string) (*StoreView, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name is required")
	}

	ts := now()
	id := uuid.NewString()
	_, err := s.stores.Create(ctx, repository.Fields{
		"id":          id,
		"name":        strings.TrimSpace(in.Name),
		"address":     in.Address,
		"imageSrc":    in.ImageSrc,
		"createdById": optional(actorID),
		"updatedById": optional(actorID),
		"createdAt":   ts,
		"updatedAt":   ts,
	})
	if err != nil {
		logger.Log.Error("Failed to create store", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Store created", zap.String("store_id", id), zap.String("actor_id", actorID))
	return s.Get(ctx, id)
}

func (s *StoreService) Update(ctx context.Context, id string, in StoreUpdate, actorID string) (*StoreView, error) {
	fields := repository.Fields{"updatedAt": now(), "updatedById": optional(actorID)}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, invalid("name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}
	if in.ImageSrc != nil {
		fields["imageSrc"] = *in.ImageSrc
	}

	store, err := s.stores.Update(ctx, id, fields)
	if err != nil {
		logger.Log.Error("Failed to update store", zap.String("store_id", id), zap.Error(err))
		return nil, err
	}
	if store == nil {
		return nil, notFound("store", id)
	}
	return &s.relations.Stores(ctx, []models.Store{*store})[0], nil
}

// Delete removes the store. Its planograms, submissions and uploads go with
// it through the schema's cascades.
func (s *StoreService) Delete(ctx context.Context, id string) error {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if store == nil {
		return notFound("store", id)
	}
	if _, err := s.stores.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete store", zap.String("store_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("Store deleted", zap.String("store_id", id))
	return nil
}
