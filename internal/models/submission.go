package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Submission struct {
	ID           string         `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UploadedAt   time.Time      `gorm:"column:uploaded_at" json:"uploadedAt"`
	UploadedByID string         `gorm:"column:uploaded_by_id" json:"uploadedById"`
	StoreID      string         `gorm:"column:store_id" json:"storeId"`
	PlanogramID  string         `gorm:"column:planogram_id" json:"planogramId"`
	UploadIDs    datatypes.JSON `gorm:"column:upload_ids" json:"uploadIds"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

var SubmissionColumns = map[string]string{
	"id":           "id",
	"uploadedAt":   "uploaded_at",
	"uploadedById": "uploaded_by_id",
	"storeId":      "store_id",
	"planogramId":  "planogram_id",
	"uploadIds":    "upload_ids",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// UploadIDList decodes the persisted upload id list. A null or malformed
// column yields an empty list.
func (s *Submission) UploadIDList() []string {
	if len(s.UploadIDs) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(s.UploadIDs, &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

// EncodeUploadIDs builds the JSON column value for a list of upload ids.
func EncodeUploadIDs(ids []string) datatypes.JSON {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}
