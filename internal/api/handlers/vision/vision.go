package vision

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"meal-planner/internal/core/meal"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dataURLRequest is the JSON alternative to a multipart upload.
type dataURLRequest struct {
	Image string `json:"image" binding:"required"`
}

// Handler serves ingredient extraction from photos.
type Handler struct {
	cfg     *config.Config
	service *meal.VisionService
}

// NewHandler creates a vision handler.
func NewHandler(cfg *config.Config, service *meal.VisionService) *Handler {
	return &Handler{cfg: cfg, service: service}
}

// HandleExtract accepts a photo as either a multipart "image" file or a
// JSON body with a data URL, and returns the ingredient names found in
// it. Upstream failures answer 200 with an empty list and error marker.
func (h *Handler) HandleExtract(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	image, mimeType, err := h.readImage(c)
	if err != nil {
		common.LogError("Invalid image upload",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ExtractIngredients(c.Request.Context(), image, mimeType)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("Ingredient extraction failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingredient extraction failed"})
		return
	}

	common.LogInfo("Ingredients extracted",
		zap.String("request_id", requestID),
		zap.String("model", result.Model),
		zap.Int("ingredient_count", len(result.Ingredients)),
	)
	c.JSON(http.StatusOK, result)
}

// readImage pulls image bytes out of the request, from multipart form or
// a JSON data URL body.
func (h *Handler) readImage(c *gin.Context) ([]byte, string, error) {
	maxSize := h.cfg.Image.MaxSizeBytes

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			return nil, "", common.NewValidationError("image file is required")
		}
		defer file.Close()

		if maxSize > 0 && header.Size > maxSize {
			return nil, "", common.ErrInvalidImageSize
		}
		var reader io.Reader = file
		if maxSize > 0 {
			reader = io.LimitReader(file, maxSize+1)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, "", common.NewValidationError("failed to read image file")
		}
		if maxSize > 0 && int64(len(data)) > maxSize {
			return nil, "", common.ErrInvalidImageSize
		}
		return data, sniffMIME(header.Header.Get("Content-Type"), data), nil
	}

	var req dataURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, "", common.NewValidationError("image is required")
	}
	return decodeDataURL(req.Image, maxSize)
}

// decodeDataURL parses a data:image/...;base64,... payload.
func decodeDataURL(s string, maxSize int64) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:image/") {
		return nil, "", common.ErrInvalidImageFormat
	}
	comma := strings.Index(s, ",")
	if comma < 0 || !strings.Contains(s[:comma], ";base64") {
		return nil, "", common.ErrInvalidImageFormat
	}
	mimeType := s[len("data:"):strings.Index(s, ";")]

	data, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return nil, "", common.ErrInvalidImageFormat
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, "", common.ErrInvalidImageSize
	}
	return data, mimeType, nil
}

// sniffMIME trusts a declared image type, otherwise detects from bytes.
func sniffMIME(declared string, data []byte) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	return http.DetectContentType(data)
}
