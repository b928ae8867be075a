package models

import "time"

type Store struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Address     *string   `gorm:"column:address" json:"address"`
	ImageSrc    *string   `gorm:"column:image_src" json:"imageSrc"`
	CreatedByID *string   `gorm:"column:created_by_id" json:"createdById"`
	UpdatedByID *string   `gorm:"column:updated_by_id" json:"updatedById"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

var StoreColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"address":     "address",
	"imageSrc":    "image_src",
	"createdById": "created_by_id",
	"updatedById": "updated_by_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type StoreSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	ImageSrc *string `json:"imageSrc"`
}

func (s *Store) Summary() *StoreSummary {
	return &StoreSummary{ID: s.ID, Name: s.Name, Address: s.Address, ImageSrc: s.ImageSrc}
}
