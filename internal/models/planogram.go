package models

import "time"

type Planogram struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	ImageSrc    *string   `gorm:"column:image_src" json:"imageSrc"`
	StoreID     string    `gorm:"column:store_id;not null" json:"storeId"`
	CreatedByID *string   `gorm:"column:created_by_id" json:"createdById"`
	UpdatedByID *string   `gorm:"column:updated_by_id" json:"updatedById"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

var PlanogramColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"imageSrc":    "image_src",
	"storeId":     "store_id",
	"createdById": "created_by_id",
	"updatedById": "updated_by_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type PlanogramSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageSrc    *string `json:"imageSrc"`
	StoreID     string  `json:"storeId"`
}

func (p *Planogram) Summary() *PlanogramSummary {
	return &PlanogramSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageSrc:    p.ImageSrc,
		StoreID:     p.StoreID,
	}
}
