package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"thanhmai/atelier-app/internal/domain"
	"thanhmai/atelier-app/internal/media"
	"thanhmai/atelier-app/internal/repository"
	"thanhmai/atelier-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoFileProvided       = errors.New("no file provided")
	ErrUnsupportedMediaType = errors.New("unsupported media type: an image is required")
	ErrImageNotFound        = errors.New("image not found")
	ErrImagePersistFailed   = errors.New("failed to save image metadata")
)

// IngestInput carries everything the pipeline needs for one upload.
type IngestInput struct {
	Source       any    // One of media.RawBytes, media.ByteArray, media.WrappedBytes
	MimeType     string // Client-declared content type; must be image/*
	OriginalName string
	Folder       string              // Classification; defaults to domain.DefaultFolder when empty
	UploadedBy   *primitive.ObjectID // Optional uploading principal
	Policy       media.Policy        // Optional explicit policy override
	Extra        map[string]string   // Optional upload-option overrides, caller wins per key
}

// IngestResult is the stable reference returned to the caller.
type IngestResult struct {
	RemoteURL  string             `json:"remoteUrl"`
	MetadataID primitive.ObjectID `json:"metadataId"`
	AssetID    string             `json:"assetId"`
}

// ImageService is the ingestion orchestrator: it validates and
// normalizes an upload, selects a transformation policy, pushes the
// bytes to the remote store, persists the metadata record, and exposes
// the read/delete surface over that metadata.
type ImageService interface {
	Ingest(ctx context.Context, input IngestInput) (*IngestResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImageAsset, error)
	ListByFolder(ctx context.Context, folder string) ([]domain.ImageAsset, error)
	Folders(ctx context.Context) ([]string, error)
}

// imageService implements the ImageService interface.
type imageService struct {
	imageRepo    repository.ImageRepository
	imageStorage storage.ImageStorage
}

// NewImageService creates a new instance of imageService.
func NewImageService(imageRepo repository.ImageRepository, imageStorage storage.ImageStorage) ImageService {
	return &imageService{
		imageRepo:    imageRepo,
		imageStorage: imageStorage,
	}
}

// Ingest runs the upload pipeline in strict order: validate, normalize,
// derive the display filename, select the policy, upload, persist. A
// failure at any step before persistence aborts the whole operation with
// no record created. If persistence fails after a successful upload the
// remote asset is orphaned; that is logged and accepted rather than
// compensated (a best-effort remote delete would just add a second
// failure mode, and operators can reconcile via the assetId index).
func (s *imageService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	// 1. Coarse validation before any work happens.
	if input.Source == nil {
		return nil, ErrNoFileProvided
	}
	if !strings.HasPrefix(strings.ToLower(input.MimeType), "image/") {
		return nil, ErrUnsupportedMediaType
	}

	// 2. Normalize the binary input; normalization errors propagate unchanged.
	data, err := media.Normalize(input.Source)
	if err != nil {
		return nil, err
	}

	// 3. Display filename, metadata only.
	filename := media.DeriveFilename(input.OriginalName, input.MimeType)

	originalName := strings.TrimSpace(input.OriginalName)
	if originalName == "" {
		originalName = "untitled"
	}

	// 4. Folder classification drives the transformation policy.
	folder := input.Folder
	if folder == "" {
		folder = domain.DefaultFolder
	}
	policy := media.SelectPolicy(folder, input.Policy)

	// 5. Upload. Failures here abort the ingestion; nothing was persisted yet.
	uploaded, err := s.imageStorage.Upload(ctx, data, input.MimeType, folder, policy, input.Extra)
	if err != nil {
		return nil, err
	}

	// 6. Persist the metadata record binding the remote identifiers.
	record := &domain.ImageAsset{
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     input.MimeType,
		SizeBytes:    int64(len(data)),
		Folder:       folder,
		RemoteURL:    uploaded.URL,
		AssetID:      uploaded.AssetID,
		UploadedBy:   input.UploadedBy,
	}

	metadataID, err := s.imageRepo.Create(ctx, record)
	if err != nil {
		log.Printf("ERROR: Image metadata persist failed after upload; remote asset '%s' (%s) is orphaned: %v",
			uploaded.AssetID, uploaded.URL, err)
		return nil, fmt.Errorf("%w: %v", ErrImagePersistFailed, err)
	}

	// 7. Stable reference for the caller.
	return &IngestResult{
		RemoteURL:  uploaded.URL,
		MetadataID: metadataID,
		AssetID:    uploaded.AssetID,
	}, nil
}

// Delete removes an image: remote asset first (best effort), metadata
// record unconditionally afterward. A dangling remote asset is less
// harmful than a local record that can never be deleted.
func (s *imageService) Delete(ctx context.Context, id primitive.ObjectID) error {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if image.AssetID != "" {
		if err := s.imageStorage.Delete(ctx, image.AssetID); err != nil {
			// Non-fatal: metadata cleanup proceeds regardless.
			log.Printf("WARN: Remote deletion of asset '%s' failed, removing metadata anyway: %v", image.AssetID, err)
		}
	}

	return s.imageRepo.Delete(ctx, id)
}

// GetByID returns a single metadata record.
func (s *imageService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImageAsset, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

// ListByFolder returns every record in a folder, newest first.
func (s *imageService) ListByFolder(ctx context.Context, folder string) ([]domain.ImageAsset, error) {
	if folder == "" {
		folder = domain.DefaultFolder
	}
	return s.imageRepo.GetByFolder(ctx, folder)
}

// Folders enumerates every folder classification in use.
func (s *imageService) Folders(ctx context.Context) ([]string, error) {
	return s.imageRepo.DistinctFolders(ctx)
}
