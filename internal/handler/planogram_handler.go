package handler

import (
	"net/http"

	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanogramHandler struct {
	planogramService *service.PlanogramService
}

func NewPlanogramHandler(planogramService *service.PlanogramService) *PlanogramHandler {
	return &PlanogramHandler{planogramService: planogramService}
}

// GET /api/planograms?search=&sortBy=&sortOrder=&name=&storeId=
func (h *PlanogramHandler) List(c *gin.Context) {
	planograms, err := h.planogramService.List(c.Request.Context(), listQuery(c, "name", "storeId"))
	if err != nil {
		respondError(c, err, "Failed to fetch planograms")
		return
	}
	c.JSON(http.StatusOK, planograms)
}

// GET /api/planograms/:id
func (h *PlanogramHandler) Get(c *gin.Context) {
	planogram, err := h.planogramService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch planogram")
		return
	}
	c.JSON(http.StatusOK, planogram)
}

// POST /api/planograms
func (h *PlanogramHandler) Create(c *gin.Context) {
	var req service.PlanogramInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	planogram, err := h.planogramService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create planogram")
		return
	}
	c.JSON(http.StatusCreated, planogram)
}

// PUT /api/planograms/:id
func (h *PlanogramHandler) Update(c *gin.Context) {
	var req service.PlanogramUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	planogram, err := h.planogramService.Update(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to update planogram")
		return
	}
	c.JSON(http.StatusOK, planogram)
}

// DELETE /api/planograms/:id
func (h *PlanogramHandler) Delete(c *gin.Context) {
	if err := h.planogramService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete planogram")
		return
	}
	c.Status(http.StatusNoContent)
}
