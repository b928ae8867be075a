package models

import "time"

type Upload struct {
	ID           string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Filename     string    `gorm:"column:filename" json:"filename"`
	Filesize     string    `gorm:"column:filesize" json:"filesize"`
	FileType     string    `gorm:"column:file_type" json:"fileType"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploadedAt"`
	UploadedByID string    `gorm:"column:uploaded_by_id" json:"uploadedById"`
	StoreID      string    `gorm:"column:store_id" json:"storeId"`
	PlanogramID  string    `gorm:"column:planogram_id" json:"planogramId"`
	SubmissionID *string   `gorm:"column:submission_id" json:"submissionId"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

var UploadColumns = map[string]string{
	"id":           "id",
	"filename":     "filename",
	"filesize":     "filesize",
	"fileType":     "file_type",
	"uploadedAt":   "uploaded_at",
	"uploadedById": "uploaded_by_id",
	"storeId":      "store_id",
	"planogramId":  "planogram_id",
	"submissionId": "submission_id",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}
