package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thanhmai/atelier-app/internal/config"
	"thanhmai/atelier-app/internal/media"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient builds a client whose SDK talks to the given test server.
func testClient(t *testing.T, serverURL string) *cloudinaryStorage {
	t.Helper()
	cld, err := cloudinary.NewFromParams("atelier-test", "key123", "secret456")
	require.NoError(t, err)
	cld.Config.API.UploadPrefix = serverURL
	return &cloudinaryStorage{cld: cld}
}

func TestNewCloudinaryStorageRequiresFullConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CloudinaryConfig
	}{
		{"all missing", config.CloudinaryConfig{}},
		{"missing secret", config.CloudinaryConfig{CloudName: "c", APIKey: "k"}},
		{"missing cloud name", config.CloudinaryConfig{APIKey: "k", APISecret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewCloudinaryStorage(tt.cfg)
			assert.ErrorIs(t, err, ErrStoreNotConfigured)
			assert.Nil(t, s)
		})
	}

	s, err := NewCloudinaryStorage(config.CloudinaryConfig{CloudName: "c", APIKey: "k", APISecret: "s"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestUploadSubmitsSignedRequest(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotForm = map[string]string{}
		for _, key := range []string{"folder", "transformation", "api_key", "timestamp", "signature", "file"} {
			gotForm[key] = r.FormValue(key)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"gallery/abc123","secure_url":"https://res.example.com/gallery/abc123.jpg"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	result, err := client.Upload(context.Background(), []byte("jpeg-bytes"), "image/jpeg", "gallery", media.PolicyGallery, nil)
	require.NoError(t, err)

	assert.Equal(t, "gallery/abc123", result.AssetID)
	assert.Equal(t, "https://res.example.com/gallery/abc123.jpg", result.URL)

	assert.Equal(t, "/v1_1/atelier-test/image/upload", gotPath)
	assert.Equal(t, "gallery", gotForm["folder"])
	assert.Equal(t, "c_limit,h_1200,q_auto,w_1200", gotForm["transformation"])
	assert.Equal(t, "key123", gotForm["api_key"])
	assert.NotEmpty(t, gotForm["timestamp"])
	assert.NotEmpty(t, gotForm["signature"], "the SDK must sign the request")
	assert.True(t, strings.HasPrefix(gotForm["file"], "data:image/jpeg;base64,"), "file field must be a data URI")
}

func TestUploadExtraOptionsOverrideDerived(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotForm = map[string]string{
			"folder":         r.FormValue("folder"),
			"transformation": r.FormValue("transformation"),
		}
		w.Write([]byte(`{"public_id":"x","secure_url":"https://res.example.com/x.jpg"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	extra := map[string]string{"folder": "gallery/archive", "transformation": "w_100"}
	_, err := client.Upload(context.Background(), []byte("x"), "image/jpeg", "gallery", media.PolicyGallery, extra)
	require.NoError(t, err)

	assert.Equal(t, "gallery/archive", gotForm["folder"])
	assert.Equal(t, "w_100", gotForm["transformation"])
}

func TestUploadRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	result, err := client.Upload(context.Background(), []byte("not-an-image"), "image/jpeg", "content", media.PolicyDefault, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadResponseMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"public_id":"abc"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	result, err := client.Upload(context.Background(), []byte("x"), "image/png", "content", media.PolicyDefault, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/atelier-test/image/destroy", r.URL.Path)
		assert.Equal(t, "gallery/gone", r.FormValue("public_id"))
		w.Write([]byte(`{"result":"not found"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	assert.NoError(t, client.Delete(context.Background(), "gallery/gone"))
}

func TestDeleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	assert.NoError(t, client.Delete(context.Background(), "gallery/abc"))
}

func TestDeleteRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Delete(context.Background(), "gallery/abc")
	assert.ErrorIs(t, err, ErrDeletionFailed)
}

func TestEncodeTransformation(t *testing.T) {
	tests := []struct {
		name   string
		policy media.Policy
		want   string
	}{
		{"empty policy", media.Policy{}, ""},
		{"portrait", media.PolicyPortrait, "c_fill,g_face,h_400,q_auto,w_400"},
		{"gallery", media.PolicyGallery, "c_limit,h_1200,q_auto,w_1200"},
		{"default", media.PolicyDefault, "f_auto,q_auto"},
		{
			"chained directives",
			media.Policy{{Crop: "fill", Width: 200, Height: 200}, {Quality: "auto"}},
			"c_fill,h_200,w_200/q_auto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeTransformation(tt.policy))
		})
	}
}
