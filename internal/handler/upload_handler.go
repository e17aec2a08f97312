package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/pkg/storage"
)

const (
	// Max upload size: 50MB
	maxUploadSize = 50 << 20
	maxAvatarSize = 5 << 20

	maxFilesPerUpload = 10
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// custom ambient tracks
var allowedAudioTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/ogg":  true,
	"audio/wav":  true,
	"audio/webm": true,
}

// UploadHandler handles file upload endpoints
type UploadHandler struct {
	storage storage.Storage
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storage storage.Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadFile godoc
// @Summary Upload an image or audio file
// @Description Upload a file to storage and get its public URL. Supports jpg, png, gif, webp, mp3, ogg, wav and webm audio.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 200 {object} model.UploadResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) UploadFile(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File upload service unavailable"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "File too large (max 50MB)"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "File is required", Code: model.ErrCodeValidation, Message: err.Error()})
		return
	}
	defer file.Close()

	folder := determineFolder(header.Header.Get("Content-Type"))
	if folder == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Unsupported file type",
			Code:    model.ErrCodeValidation,
			Message: "Allowed: jpg, png, gif, webp, mp3, ogg, wav, webm",
		})
		return
	}

	result, err := h.storage.Upload(c.Request.Context(), file, header, folder)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse(result))
}

// UploadMultiple godoc
// @Summary Upload multiple files
// @Description Upload up to 10 files at once. Unsupported or failed files are skipped.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files to upload (max 10)"
// @Success 200 {array} model.UploadResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /upload/multiple [post]
func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File upload service unavailable"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid form data", Code: model.ErrCodeValidation, Message: err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "No files provided", Code: model.ErrCodeValidation})
		return
	}
	if len(files) > maxFilesPerUpload {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Maximum 10 files allowed", Code: model.ErrCodeValidation})
		return
	}

	results := []model.UploadResponse{}
	for _, header := range files {
		folder := determineFolder(header.Header.Get("Content-Type"))
		if folder == "" {
			continue
		}

		file, err := header.Open()
		if err != nil {
			continue
		}
		result, err := h.storage.Upload(c.Request.Context(), file, header, folder)
		file.Close()
		if err != nil {
			continue
		}

		results = append(results, uploadResponse(result))
	}

	c.JSON(http.StatusOK, results)
}

func uploadResponse(result *storage.UploadResult) model.UploadResponse {
	return model.UploadResponse{
		URL:      result.URL,
		FileName: result.FileName,
		FileSize: result.FileSize,
		MimeType: result.MimeType,
	}
}

// determineFolder returns the storage folder for a content type, or "" when unsupported
func determineFolder(contentType string) string {
	ct := strings.ToLower(contentType)

	if allowedImageTypes[ct] {
		return "images"
	}
	if allowedAudioTypes[ct] {
		return "audio"
	}
	return ""
}
