package storage

import (
	"context"
	"errors"

	"thanhmai/atelier-app/internal/media"
)

// --- Error Definitions ---
var (
	// ErrStoreNotConfigured means the remote store credentials are
	// incomplete. Surfaced at client construction, before any network
	// attempt is possible.
	ErrStoreNotConfigured = errors.New("remote image store is not configured")

	// ErrUploadFailed wraps any remote-side upload failure, including a
	// response lacking a usable URL.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrDeletionFailed wraps a remote-side deletion failure. Callers
	// treat it as non-fatal; a missing remote asset is NOT reported as
	// this error (deletion is idempotent).
	ErrDeletionFailed = errors.New("image deletion failed")
)

// UploadResult is the stable pair identifying an uploaded asset.
type UploadResult struct {
	AssetID string // The remote store's identifier, used for later deletion
	URL     string // Stable public URL for delivery
}

// ImageStorage defines the interface for the remote image store.
type ImageStorage interface {
	// Upload submits a canonical image buffer with its transformation
	// policy to the remote store and returns the asset identifiers.
	// Keys present in extra override the derived request options.
	Upload(ctx context.Context, data []byte, mimeType, folder string, policy media.Policy, extra map[string]string) (*UploadResult, error)

	// Delete removes an asset by its remote identifier. Deleting an
	// asset that no longer exists remotely succeeds.
	Delete(ctx context.Context, assetID string) error
}
