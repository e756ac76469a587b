package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"thanhmai/atelier-app/internal/domain"
	"thanhmai/atelier-app/internal/media"
	"thanhmai/atelier-app/internal/service"
	"thanhmai/atelier-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeImageService is a scriptable service.ImageService.
type fakeImageService struct {
	ingestResult *service.IngestResult
	ingestErr    error
	deleteErr    error
	lastInput    service.IngestInput
	images       []domain.ImageAsset
}

func (f *fakeImageService) Ingest(_ context.Context, input service.IngestInput) (*service.IngestResult, error) {
	f.lastInput = input
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return f.ingestResult, nil
}

func (f *fakeImageService) Delete(_ context.Context, _ primitive.ObjectID) error {
	return f.deleteErr
}

func (f *fakeImageService) GetByID(_ context.Context, _ primitive.ObjectID) (*domain.ImageAsset, error) {
	if len(f.images) == 0 {
		return nil, service.ErrImageNotFound
	}
	return &f.images[0], nil
}

func (f *fakeImageService) ListByFolder(_ context.Context, _ string) ([]domain.ImageAsset, error) {
	return f.images, nil
}

func (f *fakeImageService) Folders(_ context.Context) ([]string, error) {
	folders := map[string]bool{}
	for _, img := range f.images {
		folders[img.Folder] = true
	}
	out := make([]string, 0, len(folders))
	for fl := range folders {
		out = append(out, fl)
	}
	return out, nil
}

func setupRouter(svc service.ImageService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewImageHandler(svc)
	router.POST("/images", handler.UploadImage)
	router.DELETE("/images/:id", handler.DeleteImage)
	router.GET("/images", handler.ListImages)
	router.GET("/images/folders", handler.ListFolders)
	return router
}

func multipartUpload(t *testing.T, fieldData []byte, folder string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="dress.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(fieldData)
	require.NoError(t, err)

	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadImageSuccess(t *testing.T) {
	svc := &fakeImageService{
		ingestResult: &service.IngestResult{
			RemoteURL:  "https://res.example.com/gallery/a.jpg",
			MetadataID: primitive.NewObjectID(),
			AssetID:    "gallery/a",
		},
	}
	router := setupRouter(svc)

	body, contentType := multipartUpload(t, []byte("jpeg-bytes"), "gallery")
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UploadImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://res.example.com/gallery/a.jpg", resp.URL)
	assert.Equal(t, "gallery/a", resp.AssetID)
	assert.NotEmpty(t, resp.MetadataID)

	assert.Equal(t, "gallery", svc.lastInput.Folder)
	assert.Equal(t, "image/jpeg", svc.lastInput.MimeType)
	assert.Equal(t, "dress.jpg", svc.lastInput.OriginalName)
	assert.Equal(t, media.RawBytes([]byte("jpeg-bytes")), svc.lastInput.Source)
}

func TestUploadImageMissingFile(t *testing.T) {
	router := setupRouter(&fakeImageService{})

	req := httptest.NewRequest(http.MethodPost, "/images", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unsupported media type", service.ErrUnsupportedMediaType, http.StatusBadRequest},
		{"empty buffer", media.ErrEmptyBuffer, http.StatusBadRequest},
		{"unsupported shape", &media.UnsupportedTypeError{Type: "int"}, http.StatusBadRequest},
		{"store not configured", storage.ErrStoreNotConfigured, http.StatusServiceUnavailable},
		{"upload failed", storage.ErrUploadFailed, http.StatusBadGateway},
		{"persist failed", service.ErrImagePersistFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeImageService{ingestErr: tt.err})

			body, contentType := multipartUpload(t, []byte("x"), "")
			req := httptest.NewRequest(http.MethodPost, "/images", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestDeleteImageNotFound(t *testing.T) {
	router := setupRouter(&fakeImageService{deleteErr: service.ErrImageNotFound})

	req := httptest.NewRequest(http.MethodDelete, "/images/"+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteImageInvalidID(t *testing.T) {
	router := setupRouter(&fakeImageService{})

	req := httptest.NewRequest(http.MethodDelete, "/images/not-an-objectid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListImages(t *testing.T) {
	svc := &fakeImageService{
		images: []domain.ImageAsset{
			{ID: primitive.NewObjectID(), Folder: "gallery", RemoteURL: "https://res.example.com/a.jpg"},
			{ID: primitive.NewObjectID(), Folder: "gallery", RemoteURL: "https://res.example.com/b.jpg"},
		},
	}
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/images?folder=gallery", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "gallery", resp[0].Folder)
	assert.Equal(t, "https://res.example.com/a.jpg", resp[0].URL)
}

func TestListFolders(t *testing.T) {
	svc := &fakeImageService{
		images: []domain.ImageAsset{{ID: primitive.NewObjectID(), Folder: "gallery"}},
	}
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/images/folders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gallery")
}
