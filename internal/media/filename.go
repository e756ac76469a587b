package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// placeholderName is used when the client did not supply a filename.
const placeholderName = "upload"

// DeriveFilename builds a unique display filename from the client's
// original name: base name + timestamp + short random token + extension.
// The result is metadata only and is never used to address the asset in
// the remote store. The extension comes from the original name when
// present, otherwise from the mime subtype.
func DeriveFilename(originalName, mimeType string) string {
	name := strings.TrimSpace(originalName)
	if name == "" {
		name = placeholderName
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	if base == "" {
		base = placeholderName
	}
	if ext == "" {
		if parts := strings.Split(mimeType, "/"); len(parts) == 2 && parts[1] != "" {
			// Structured subtypes like "svg+xml" reduce to the bare
			// subtype for the extension.
			subtype, _, _ := strings.Cut(parts[1], "+")
			if subtype != "" {
				ext = "." + subtype
			}
		}
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), token, ext)
}
