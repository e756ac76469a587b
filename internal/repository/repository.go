package repository

import (
	"context"

	"thanhmai/atelier-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound   = RepositoryError("not found")
	ErrValidation = RepositoryError("validation failed")
	ErrDuplicate  = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ImageRepository defines the interface for interacting with image
// asset metadata. Records are immutable after creation; there is no
// update operation.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.ImageAsset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImageAsset, error)
	// GetByFolder returns every record in the folder, newest first.
	GetByFolder(ctx context.Context, folder string) ([]domain.ImageAsset, error)
	// DistinctFolders enumerates every folder value in use.
	DistinctFolders(ctx context.Context) ([]string, error)
	// Delete removes a record by id. Deleting an id that does not exist
	// is not an error.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}
