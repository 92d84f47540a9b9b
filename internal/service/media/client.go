package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
)

// Client talks to the object-storage API that hosts product and category
// images. Uploads return a public download URL stored on the record.
type Config struct {
	APIURL    string
	AccessKey string
	SecretKey string
}

type Client struct {
	client *http.Client
	config Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Transport: &AuthTransport{
				AccessKey: cfg.AccessKey,
				SecretKey: cfg.SecretKey,
				Base:      http.DefaultTransport,
			},
			Timeout: 30 * time.Second,
		},
		config: cfg,
	}
}

// AuthTransport adds Basic Auth headers
type AuthTransport struct {
	AccessKey string
	SecretKey string
	Base      http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	auth := t.AccessKey + ":" + t.SecretKey
	encodedAuth := base64.StdEncoding.EncodeToString([]byte(auth))
	req.Header.Set("Authorization", "Basic "+encodedAuth)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// Upload stores the object under folder with a uuid-prefixed name and
// returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	object := uuid.NewString() + "-" + filename
	reqURL := fmt.Sprintf("%s/objects/%s/%s", c.config.APIURL, url.PathEscape(folder), url.PathEscape(object))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && len(apiErr.Errors) > 0 {
			return "", &apiErr
		}
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(raw))
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("storage response missing url")
	}
	return out.URL, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
