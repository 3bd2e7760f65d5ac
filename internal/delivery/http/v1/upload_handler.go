package v1

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"net/http"
	"strings"
	"time"

	"go-resume-backend/config"
	"go-resume-backend/internal/delivery/http/middleware"
	"go-resume-backend/internal/delivery/http/response"
	"go-resume-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	cfg *config.Config
}

func NewUploadHandler(r *gin.RouterGroup, cfg *config.Config) {
	handler := &UploadHandler{cfg: cfg}
	r.POST("/upload", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadFile)
}

// UploadFile godoc
// @Summary      Upload a resume asset
// @Description  Upload a file (PDF or image) to storage and get back its public URL. Images are compressed automatically.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /upload [post]
// @Security     BearerAuth
func (h *UploadHandler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No file uploaded", nil)
		return
	}
	if file.Size > maxUploadBytes {
		response.Error(c, http.StatusBadRequest, "File too large (max 10 MiB)", nil)
		return
	}

	if h.cfg.SupabaseUrl == "" || h.cfg.SupabaseKey == "" {
		response.Error(c, http.StatusInternalServerError, "Storage not configured", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to open file", nil)
		return
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to read file", nil)
		return
	}

	// Detect content type from the bytes, not the client-supplied header
	contentType := http.DetectContentType(fileBytes)
	isImage := strings.HasPrefix(contentType, "image/")

	finalBytes := fileBytes
	var objectName string
	if isImage {
		compressed, compressErr := compressImage(fileBytes, 1200, 80)
		if compressErr != nil {
			logger.Log.Warn("Image compression failed, using original", "error", compressErr)
		} else {
			finalBytes = compressed
		}
		objectName = fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), uuid.NewString())
		contentType = "image/jpeg" // Compressed images are always JPEG
	} else {
		objectName = fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString(), extensionFor(contentType))
	}

	bucket := h.cfg.StorageBucket
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", h.cfg.SupabaseUrl, bucket, objectName)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, uploadURL, bytes.NewReader(finalBytes))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create upload request", nil)
		return
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.SupabaseKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Log.Error("Storage upload failed", "bucket", bucket, "error", err)
		response.Error(c, http.StatusBadGateway, "Upload failed", nil)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		logger.Log.Error("Storage upload rejected", "bucket", bucket, "status", resp.StatusCode, "body", string(body))
		response.Error(c, http.StatusBadGateway, "Upload failed", nil)
		return
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", h.cfg.SupabaseUrl, bucket, objectName)
	response.Success(c, http.StatusOK, "File uploaded", gin.H{"url": publicURL})
}

// compressImage re-encodes an image as JPEG, capped at maxDimension on the
// longer side.
func compressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := width, height
	if width >= height && width > maxDimension {
		newWidth = maxDimension
		newHeight = height * maxDimension / width
	} else if height > width && height > maxDimension {
		newHeight = maxDimension
		newWidth = width * maxDimension / height
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "text/plain; charset=utf-8":
		return ".txt"
	default:
		return ""
	}
}
