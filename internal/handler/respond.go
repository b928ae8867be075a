package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Baaaki/planogram-backoffice/internal/database"
	"github.com/Baaaki/planogram-backoffice/internal/migration"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadSize caps a single multipart file.
const maxUploadSize = 20 << 20

// statusFor maps service and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUploadIDRequired),
		errors.Is(err, service.ErrUploadTargetIncomplete),
		errors.Is(err, service.ErrOldPasswordRequired),
		errors.Is(err, service.ErrInvalidOldPassword),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, repository.ErrUnknownField),
		errors.Is(err, storage.ErrInvalidPath),
		database.IsForeignKeyViolation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailAlreadyExists), database.IsDuplicateKey(err):
		return http.StatusConflict
	case errors.Is(err, service.ErrPasswordResetCooldown), errors.Is(err, service.ErrConfirmationCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, database.ErrQueueFull), errors.Is(err, migration.ErrUnreachable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Internal errors are logged
// and hidden from the client.
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error(msg,
			zap.String("path", c.FullPath()),
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Log.Warn(msg, zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	logger.Log.Warn("Request parsing failed",
		zap.String("path", c.FullPath()),
		zap.String("ip", c.ClientIP()),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// booleanFilters are the filter keys backed by boolean columns.
var booleanFilters = map[string]struct{}{
	"isConfirmed": {},
}

// listQuery reads search, sortBy, sortOrder and the listed filter keys from
// the query string. Boolean filters accept "true" and "false"; every other
// filter value stays a string.
func listQuery(c *gin.Context, filterKeys ...string) service.ListQuery {
	q := service.ListQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: repository.SortOrder(c.Query("sortOrder")),
		Filter:    repository.Fields{},
	}
	for _, key := range filterKeys {
		value, ok := c.GetQuery(key)
		if !ok || value == "" {
			continue
		}
		if _, ok := booleanFilters[key]; !ok {
			q.Filter[key] = value
			continue
		}
		switch strings.ToLower(value) {
		case "true":
			q.Filter[key] = true
		case "false":
			q.Filter[key] = false
		default:
			q.Filter[key] = value
		}
	}
	return q
}

// readFile loads the multipart file under field. A missing file returns
// (nil, nil) so the service decides whether it is required.
func readFile(c *gin.Context, field string) (*service.FileInput, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", service.ErrValidation, maxUploadSize)
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &service.FileInput{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

func actorID(c *gin.Context) string {
	return c.GetString("user_id")
}
