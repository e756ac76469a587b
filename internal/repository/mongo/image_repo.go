package mongo

import (
	"context"
	"errors"
	"time"

	"thanhmai/atelier-app/internal/domain"
	"thanhmai/atelier-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const imageCollectionName = "images"

// mongoImageRepository implements repository.ImageRepository
type mongoImageRepository struct {
	collection *mongo.Collection
}

// NewMongoImageRepository creates a new image metadata repository backed by MongoDB.
func NewMongoImageRepository(db *mongo.Database) repository.ImageRepository {
	return &mongoImageRepository{
		collection: db.Collection(imageCollectionName),
	}
}

// Create inserts a new image metadata record. Every descriptive field is
// required: a record must never exist with a remote URL but no asset id
// (or vice versa), so both are checked together here.
func (r *mongoImageRepository) Create(ctx context.Context, image *domain.ImageAsset) (primitive.ObjectID, error) {
	if image.Filename == "" ||
		image.OriginalName == "" ||
		image.MimeType == "" ||
		image.SizeBytes <= 0 ||
		image.Folder == "" ||
		image.RemoteURL == "" ||
		image.AssetID == "" {
		return primitive.NilObjectID, repository.ErrValidation
	}

	image.ID = primitive.NewObjectID()
	image.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, image)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an image metadata record by its ID.
func (r *mongoImageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImageAsset, error) {
	var image domain.ImageAsset
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// folderSortOrder lists newest first; the ascending ObjectID tie-break
// keeps insertion order for records sharing a createdAt, since ObjectIDs
// increase monotonically with insertion.
var folderSortOrder = bson.D{
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: 1},
}

// GetByFolder retrieves every record in a folder, newest first.
func (r *mongoImageRepository) GetByFolder(ctx context.Context, folder string) ([]domain.ImageAsset, error) {
	filter := bson.M{"folder": folder}
	findOptions := options.Find().SetSort(folderSortOrder)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := []domain.ImageAsset{}
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// DistinctFolders enumerates every folder value ever used, for
// populating folder pickers in the admin UI.
func (r *mongoImageRepository) DistinctFolders(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "folder", bson.M{})
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			folders = append(folders, s)
		}
	}
	return folders, nil
}

// Delete removes a record by id. A zero delete count is not an error;
// deletion at this layer is idempotent and existence checks belong to
// the caller.
func (r *mongoImageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureImageIndexes creates necessary indexes for the images collection.
func EnsureImageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Folder listings are the hot read path.
			Keys:    bson.D{{Key: "folder", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Lookup by remote asset id, for manual reconciliation of
			// orphaned remote assets.
			Keys:    bson.D{{Key: "assetId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
