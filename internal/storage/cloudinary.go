package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"thanhmai/atelier-app/internal/config"
	"thanhmai/atelier-app/internal/media"
)

// cloudinaryStorage implements the ImageStorage interface by wrapping
// the official Cloudinary SDK, which handles request signing and
// transport.
type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a new Cloudinary-backed image store
// client. It fails fast with ErrStoreNotConfigured when any of the
// three credentials is missing, so misconfiguration surfaces at startup
// rather than on the first upload.
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (ImageStorage, error) {
	if !cfg.Complete() {
		return nil, ErrStoreNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreNotConfigured, err)
	}

	log.Printf("INFO: Cloudinary storage initialized for cloud '%s'", cfg.CloudName)

	return &cloudinaryStorage{cld: cld}, nil
}

// Upload encodes the buffer as a data URI and submits it together with
// the transformation derived from the policy. Keys in extra override
// the derived request options (caller-supplied values win).
func (s *cloudinaryStorage) Upload(ctx context.Context, data []byte, mimeType, folder string, policy media.Policy, extra map[string]string) (*UploadResult, error) {
	defaults := map[string]string{
		"resource_type": "image",
	}
	derived := map[string]string{}
	if folder != "" {
		derived["folder"] = folder
	}
	if t := EncodeTransformation(policy); t != "" {
		derived["transformation"] = t
	}
	resolved := media.ResolveUploadOptions(defaults, derived, extra)

	params := uploader.UploadParams{
		Folder:         resolved["folder"],
		Transformation: resolved["transformation"],
		Format:         resolved["format"],
		ResourceType:   resolved["resource_type"],
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := s.cld.Upload.Upload(ctx, dataURI, params)
	if err != nil {
		log.Printf("ERROR: Cloudinary upload to folder '%s' failed: %v", folder, err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		log.Printf("ERROR: Cloudinary rejected upload to folder '%s': %s", folder, resp.Error.Message)
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, resp.Error.Message)
	}

	publicURL := resp.SecureURL
	if publicURL == "" {
		publicURL = resp.URL
	}
	if publicURL == "" || resp.PublicID == "" {
		return nil, fmt.Errorf("%w: response missing public URL or asset id", ErrUploadFailed)
	}

	return &UploadResult{
		AssetID: resp.PublicID,
		URL:     publicURL,
	}, nil
}

// Delete destroys an asset by its public id. A "not found" result from
// the remote store counts as success so the operation stays idempotent.
func (s *cloudinaryStorage) Delete(ctx context.Context, assetID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: assetID})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeletionFailed, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("%w: %s", ErrDeletionFailed, resp.Error.Message)
	}

	switch resp.Result {
	case "ok", "not found":
		// "not found" means the asset is already gone; that is the
		// outcome the caller wanted.
		return nil
	default:
		return fmt.Errorf("%w: unexpected result %q", ErrDeletionFailed, resp.Result)
	}
}

// EncodeTransformation renders a policy as a Cloudinary transformation
// string: directives joined by "/", parameters inside a directive joined
// by ",". An empty policy yields an empty string.
func EncodeTransformation(policy media.Policy) string {
	chained := make([]string, 0, len(policy))
	for _, d := range policy {
		var parts []string
		if d.Crop != "" {
			parts = append(parts, "c_"+d.Crop)
		}
		if d.FetchFormat != "" {
			parts = append(parts, "f_"+d.FetchFormat)
		}
		if d.Gravity != "" {
			parts = append(parts, "g_"+d.Gravity)
		}
		if d.Height > 0 {
			parts = append(parts, "h_"+strconv.Itoa(d.Height))
		}
		if d.Quality != "" {
			parts = append(parts, "q_"+d.Quality)
		}
		if d.Width > 0 {
			parts = append(parts, "w_"+strconv.Itoa(d.Width))
		}
		if len(parts) > 0 {
			chained = append(chained, strings.Join(parts, ","))
		}
	}
	return strings.Join(chained, "/")
}
