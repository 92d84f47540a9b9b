package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Basic Auth check
		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("access:secret"))
		if r.Header.Get("Authorization") != expectedAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		assert.Equal(t, http.MethodPut, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/objects/product-images/"))
		assert.True(t, strings.HasSuffix(r.URL.Path, "-croissant.png"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "fake-image-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(UploadResult{URL: "https://cdn.test/objects/abc"})
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL, AccessKey: "access", SecretKey: "secret"})

	url, err := client.Upload(context.Background(), "product-images", "croissant.png", "image/png", strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/objects/abc", url)
}

func TestUpload_BrotliEncodedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		json.NewEncoder(bw).Encode(UploadResult{URL: "https://cdn.test/objects/br"})
		bw.Close()
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	url, err := client.Upload(context.Background(), "category-images", "bread.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/objects/br", url)
}

func TestUpload_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"id":"forbidden","message":"bucket access denied"}]}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.Upload(context.Background(), "product-images", "x.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)

	var apiErr *ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "forbidden", apiErr.Errors[0].ID)
}

func TestUpload_MissingURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.Upload(context.Background(), "product-images", "x.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}
