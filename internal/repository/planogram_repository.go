package repository

import (
	"github.com/Baaaki/planogram-backoffice/internal/models"
)

type PlanogramRepository struct {
	*Table[models.Planogram]
}

func NewPlanogramRepository(conn Querier) *PlanogramRepository {
	return &PlanogramRepository{Table: NewTable[models.Planogram](conn, "planograms", models.PlanogramColumns)}
}
