package handler

import (
	"net/http"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultUploadFolder = "uploads"

type StorageHandler struct {
	storage storage.Storage
	urlTTL  time.Duration
}

func NewStorageHandler(store storage.Storage, urlTTL time.Duration) *StorageHandler {
	return &StorageHandler{storage: store, urlTTL: urlTTL}
}

// Upload stores a multipart "file" under the folder query parameter.
// POST /api/storage/upload?folder=
func (h *StorageHandler) Upload(c *gin.Context) {
	file, err := readFile(c, "file")
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}
	if file == nil || len(file.Data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	folder := c.DefaultQuery("folder", defaultUploadFolder)
	stored, err := h.storage.Upload(c.Request.Context(), file.Name, file.ContentType, file.Data, folder)
	if err != nil {
		respondError(c, err, "Failed to store file")
		return
	}

	logger.Log.Info("File uploaded",
		zap.String("user_id", actorID(c)),
		zap.String("path", stored.Path),
		zap.Int64("size", stored.Size),
	)
	c.JSON(http.StatusCreated, gin.H{"path": stored.Path, "url": stored.URL})
}

// GET /api/storage/signed-url?filepath=
func (h *StorageHandler) SignedURL(c *gin.Context) {
	path := c.Query("filepath")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filepath is required"})
		return
	}

	url, err := h.storage.SignedURL(c.Request.Context(), path, h.urlTTL)
	if err != nil {
		respondError(c, err, "Failed to generate signed URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signedUrl": url,
		"expiresIn": int(h.urlTTL.Seconds()),
	})
}

// DELETE /api/storage?path=
func (h *StorageHandler) Delete(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if !h.storage.Delete(c.Request.Context(), path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File could not be deleted"})
		return
	}
	c.Status(http.StatusNoContent)
}
