package handler

import (
	"net/http"

	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeService *service.StoreService
}

func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// GET /api/stores?search=&sortBy=&sortOrder=&name=&address=
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.storeService.List(c.Request.Context(), listQuery(c, "name", "address"))
	if err != nil {
		respondError(c, err, "Failed to fetch stores")
		return
	}
	c.JSON(http.StatusOK, stores)
}

// GET /api/stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.storeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// POST /api/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req service.StoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create store")
		return
	}
	c.JSON(http.StatusCreated, store)
}

// PUT /api/stores/:id
func (h *StoreHandler) Update(c *gin.Context) {
	var req service.StoreUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to update store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// DELETE /api/stores/:id
func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.storeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete store")
		return
	}
	c.Status(http.StatusNoContent)
}
