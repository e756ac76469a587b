package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"thanhmai/atelier-app/internal/domain"
	"thanhmai/atelier-app/internal/media"
	"thanhmai/atelier-app/internal/service"
	"thanhmai/atelier-app/internal/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageHandler holds the image service dependency.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// --- DTOs ---

// UploadImageResponse is the stable reference returned after ingestion.
type UploadImageResponse struct {
	URL        string `json:"url"`
	MetadataID string `json:"metadataId"`
	AssetID    string `json:"assetId"`
}

// ImageResponse is the DTO for returning image metadata.
type ImageResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Folder       string    `json:"folder"`
	URL          string    `json:"url"`
	UploadedBy   *string   `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MapImageToResponse converts a domain.ImageAsset to an ImageResponse DTO.
func MapImageToResponse(img *domain.ImageAsset) ImageResponse {
	if img == nil {
		return ImageResponse{}
	}
	resp := ImageResponse{
		ID:           img.ID.Hex(),
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		MimeType:     img.MimeType,
		SizeBytes:    img.SizeBytes,
		Folder:       img.Folder,
		URL:          img.RemoteURL,
		CreatedAt:    img.CreatedAt,
	}
	if img.UploadedBy != nil && *img.UploadedBy != primitive.NilObjectID {
		hex := img.UploadedBy.Hex()
		resp.UploadedBy = &hex
	}
	return resp
}

// MapImagesToResponse converts a slice of domain.ImageAsset to DTOs.
func MapImagesToResponse(images []domain.ImageAsset) []ImageResponse {
	responses := make([]ImageResponse, len(images))
	for i, img := range images {
		responses[i] = MapImageToResponse(&img)
	}
	return responses
}

// --- Handler Methods ---

// UploadImage ingests a multipart image upload into the pipeline.
// Expects form fields: "file" (the image) and optionally "folder".
func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	var uploadedBy *primitive.ObjectID
	if userIDStr, err := getUserIDFromContext(c); err == nil {
		if userID, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
			uploadedBy = &userID
		}
	}

	result, err := h.imageService.Ingest(c.Request.Context(), service.IngestInput{
		Source:       media.RawBytes(data),
		MimeType:     fileHeader.Header.Get("Content-Type"),
		OriginalName: fileHeader.Filename,
		Folder:       c.PostForm("folder"),
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		respondIngestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadImageResponse{
		URL:        result.RemoteURL,
		MetadataID: result.MetadataID.Hex(),
		AssetID:    result.AssetID,
	})
}

// respondIngestError maps pipeline errors onto HTTP status codes.
func respondIngestError(c *gin.Context, err error) {
	var unsupported *media.UnsupportedTypeError
	switch {
	case errors.Is(err, service.ErrNoFileProvided),
		errors.Is(err, service.ErrUnsupportedMediaType),
		errors.Is(err, media.ErrInvalidInput),
		errors.Is(err, media.ErrEmptyBuffer),
		errors.As(err, &unsupported):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrStoreNotConfigured):
		abortWithError(c, http.StatusServiceUnavailable, "Image storage is not configured")
	case errors.Is(err, storage.ErrUploadFailed):
		abortWithError(c, http.StatusBadGateway, "Image upload failed")
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process image")
	}
}

// DeleteImage removes an image (remote asset best-effort, metadata always).
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

// GetImage returns a single image's metadata.
func (h *ImageHandler) GetImage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	image, err := h.imageService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load image")
		}
		return
	}

	c.JSON(http.StatusOK, MapImageToResponse(image))
}

// ListImages returns every image in a folder, newest first.
func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.imageService.ListByFolder(c.Request.Context(), c.Query("folder"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list images")
		return
	}

	c.JSON(http.StatusOK, MapImagesToResponse(images))
}

// ListFolders enumerates the folder classifications in use.
func (h *ImageHandler) ListFolders(c *gin.Context) {
	folders, err := h.imageService.Folders(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list folders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}
