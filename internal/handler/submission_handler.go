package handler

import (
	"net/http"
	"strings"

	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

type AddUploadRequest struct {
	UploadID string `json:"uploadId"`
}

// GET /api/submissions?search=&sortBy=&sortOrder=&storeId=&planogramId=&uploadedById=
func (h *SubmissionHandler) List(c *gin.Context) {
	submissions, err := h.submissionService.List(c.Request.Context(),
		listQuery(c, "storeId", "planogramId", "uploadedById"))
	if err != nil {
		respondError(c, err, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// GET /api/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	submission, err := h.submissionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch submission")
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Create accepts JSON, or a multipart form with storeId, planogramId and a
// "file" which is stored and attached in the same request.
// POST /api/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.createWithFile(c)
		return
	}

	var req service.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := h.submissionService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create submission")
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (h *SubmissionHandler) createWithFile(c *gin.Context) {
	file, err := readFile(c, "file")
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}

	req := service.SubmissionInput{
		StoreID:     c.PostForm("storeId"),
		PlanogramID: c.PostForm("planogramId"),
	}
	result, err := h.submissionService.CreateWithFileUpload(c.Request.Context(), req, file, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create submission")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// AddUpload links an existing upload ({"uploadId": ...}) or stores a new
// multipart "file" and links it.
// POST /api/submissions/:id/uploads
func (h *SubmissionHandler) AddUpload(c *gin.Context) {
	submissionID := c.Param("id")

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := readFile(c, "file")
		if err != nil {
			respondError(c, err, "Failed to read upload")
			return
		}
		submission, err := h.submissionService.AttachFile(c.Request.Context(), submissionID, file, actorID(c))
		if err != nil {
			respondError(c, err, "Failed to attach file")
			return
		}
		c.JSON(http.StatusOK, submission)
		return
	}

	var req AddUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := h.submissionService.AddUploadToSubmission(c.Request.Context(), submissionID, req.UploadID)
	if err != nil {
		respondError(c, err, "Failed to add upload to submission")
		return
	}
	c.JSON(http.StatusOK, submission)
}

// CreateUpload stores a standalone upload.
// POST /api/uploads (multipart: file, storeId, planogramId, submissionId)
func (h *SubmissionHandler) CreateUpload(c *gin.Context) {
	var target service.UploadTarget
	if err := c.ShouldBind(&target); err != nil {
		badRequest(c, err)
		return
	}

	file, err := readFile(c, "file")
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}

	upload, err := h.submissionService.CreateUpload(c.Request.Context(), target, file, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create upload")
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// PUT /api/submissions/:id
func (h *SubmissionHandler) Update(c *gin.Context) {
	var req service.SubmissionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := h.submissionService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update submission")
		return
	}
	c.JSON(http.StatusOK, submission)
}

// DELETE /api/submissions/:id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.submissionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete submission")
		return
	}
	c.Status(http.StatusNoContent)
}
