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

type PlanogramInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageSrc    *string `json:"imageSrc"`
	StoreID     string  `json:"storeId" binding:"required"`
}

type PlanogramUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageSrc    *string `json:"imageSrc"`
	StoreID     *string `json:"storeId"`
}

type PlanogramService struct {
	planograms *repository.PlanogramRepository
	stores     *repository.StoreRepository
	relations  *Relations
}

func NewPlanogramService(planograms *repository.PlanogramRepository, stores *repository.StoreRepository, relations *Relations) *PlanogramService {
	return &PlanogramService{planograms: planograms, stores: stores, relations: relations}
}

func (s *PlanogramService) List(ctx context.Context, q ListQuery) ([]PlanogramView, error) {
	rows, err := s.planograms.FindAllWithSearchAndSort(ctx, q.options("name", "description"))
	if err != nil {
		logger.Log.Error("Failed to list planograms", zap.Error(err))
		return nil, err
	}
	return s.relations.Planograms(ctx, rows), nil
}

func (s *PlanogramService) Get(ctx context.Context, id string) (*PlanogramView, error) {
	planogram, err := s.planograms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if planogram == nil {
		return nil, notFound("planogram", id)
	}
	return &s.relations.Planograms(ctx, []models.Planogram{*planogram})[0], nil
}

func (s *PlanogramService) requireStore(ctx context.Context, storeID string) error {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return notFound("store", storeID)
	}
	return nil
}

func (s *PlanogramService) Create(ctx context.Context, in PlanogramInput, actorID string) (*PlanogramView, error) {
	if strings.TrimSpace(in.Name) == "" || in.StoreID == "" {
		return nil, invalid("name and storeId are required")
	}
	if err := s.requireStore(ctx, in.StoreID); err != nil {
		return nil, err
	}

	ts := now()
	id := uuid.NewString()
	_, err := s.planograms.Create(ctx, repository.Fields{
		"id":          id,
		"name":        strings.TrimSpace(in.Name),
		"description": in.Description,
		"imageSrc":    in.ImageSrc,
		"storeId":     in.StoreID,
		"createdById": optional(actorID),
		"updatedById": optional(actorID),
		"createdAt":   ts,
		"updatedAt":   ts,
	})
	if err != nil {
		logger.Log.Error("Failed to create planogram",
			zap.String("store_id", in.StoreID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Planogram created",
		zap.String("planogram_id", id),
		zap.String("store_id", in.StoreID),
	)
	return s.Get(ctx, id)
}

func (s *PlanogramService) Update(ctx context.Context, id string, in PlanogramUpdate, actorID string) (*PlanogramView, error) {
	fields := repository.Fields{"updatedAt": now(), "updatedById": optional(actorID)}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, invalid("name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageSrc != nil {
		fields["imageSrc"] = *in.ImageSrc
	}
	if in.StoreID != nil {
		if err := s.requireStore(ctx, *in.StoreID); err != nil {
			return nil, err
		}
		fields["storeId"] = *in.StoreID
	}

	planogram, err := s.planograms.Update(ctx, id, fields)
	if err != nil {
		logger.Log.Error("Failed to update planogram", zap.String("planogram_id", id), zap.Error(err))
		return nil, err
	}
	if planogram == nil {
		return nil, notFound("planogram", id)
	}
	return &s.relations.Planograms(ctx, []models.Planogram{*planogram})[0], nil
}

func (s *PlanogramService) Delete(ctx context.Context, id string) error {
	planogram, err := s.planograms.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if planogram == nil {
		return notFound("planogram", id)
	}
	if _, err := s.planograms.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete planogram", zap.String("planogram_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("Planogram deleted", zap.String("planogram_id", id))
	return nil
}
