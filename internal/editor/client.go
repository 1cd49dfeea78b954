package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Sentinel errors the CLI maps to user-facing messages.
var (
	ErrUnauthorized    = errors.New("authentication required; sign in again")
	ErrPayloadTooLarge = errors.New("image exceeds the upload size limit")
)

// Replacement-token headers the server attaches to authenticated
// responses when the token nears expiry.
const (
	headerAuthToken       = "X-Auth-Token"
	headerAuthTokenExpiry = "X-Auth-Token-Expiry"
)

// ServerError is a non-auth, non-size API failure.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("content API error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("content API error (%d)", e.Status)
}

// Client talks to the content API over HTTP. It satisfies the API
// interface the controller depends on. When a response carries a
// replacement token the client swaps to it for subsequent requests.
type Client struct {
	baseURL string
	hc      *http.Client

	mu    sync.Mutex
	token string
}

// NewClient builds a client for the API rooted at baseURL, for example
// "https://example.com/api/v1". A nil httpClient gets a sane default.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      httpClient,
	}
}

// FetchContent loads content records grouped by section. An empty section
// fetches everything.
func (c *Client) FetchContent(ctx context.Context, section string) (Sections, error) {
	endpoint := c.baseURL + "/content"
	if section != "" {
		endpoint += "?section=" + url.QueryEscape(section)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data Sections `json:"data"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// SaveContent submits the changed records as one batch upsert.
func (c *Client) SaveContent(ctx context.Context, records []Record) error {
	body, err := json.Marshal(records)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/content", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// UploadImage posts the file as multipart field "image" and returns the
// served path. A 413 response surfaces as ErrPayloadTooLarge.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/content/upload-image", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var payload struct {
		Data struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", err
	}
	return payload.Data.Path, nil
}

// Token returns the token currently in use; callers can persist it when
// the server has rotated it mid-session.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) do(req *http.Request, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if replacement := resp.Header.Get(headerAuthToken); replacement != "" {
		c.mu.Lock()
		c.token = replacement
		c.mu.Unlock()
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case resp.StatusCode >= 400:
		return &ServerError{Status: resp.StatusCode, Message: apiMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiMessage(body io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4<<10)).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Message
}
