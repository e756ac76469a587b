package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFolder is the classification used when a caller does not supply one.
const DefaultFolder = "content"

// ImageAsset stores metadata about an image uploaded to the remote image
// store (Cloudinary). The binary itself lives remotely; this record binds
// the remote identifiers to descriptive fields for listing and deletion.
type ImageAsset struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Filename     string              `bson:"filename" json:"filename"`         // Derived unique display name, never used for addressing
	OriginalName string              `bson:"originalName" json:"originalName"` // Filename as supplied by the client
	MimeType     string              `bson:"mimeType" json:"mimeType"`
	SizeBytes    int64               `bson:"sizeBytes" json:"sizeBytes"`
	Folder       string              `bson:"folder" json:"folder"` // Grouping key, drives the transformation policy
	RemoteURL    string              `bson:"remoteUrl" json:"remoteUrl"`
	AssetID      string              `bson:"assetId" json:"assetId"` // Remote store's identifier, needed for deletion
	UploadedBy   *primitive.ObjectID `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}
