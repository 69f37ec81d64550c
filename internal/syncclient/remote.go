package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/utils"
	"github.com/MrSnakeDoc/startpage/internal/widgets"
)

// Remote is the store as seen from a client.
type Remote interface {
	Fetch(ctx context.Context) (domain.Document, error)
	Push(ctx context.Context, doc domain.Document, password string) error
}

// HTTPRemote talks to a startpage server.
type HTTPRemote struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRemote creates a remote for the server at baseURL (ex: http://localhost:3000).
func NewHTTPRemote(baseURL string, client *http.Client) *HTTPRemote {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRemote{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

// Fetch downloads the current document.
func (r *HTTPRemote) Fetch(ctx context.Context) (domain.Document, error) {
	body, err := r.do(ctx, http.MethodGet, "/api/data", nil, nil)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := domain.ParseCandidate(body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: malformed document: %v", domain.ErrTransport, err)
	}
	return *doc, nil
}

// Push replaces the stored document.
func (r *HTTPRemote) Push(ctx context.Context, doc domain.Document, password string) error {
	payload, err := json.Marshal(doc.Normalize())
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set(domain.PasswordHeader, password)

	_, err = r.do(ctx, http.MethodPost, "/api/data", bytes.NewReader(payload), headers)
	return err
}

// Weather asks the server for the widget view. Empty query lets the server
// locate the caller by IP.
func (r *HTTPRemote) Weather(ctx context.Context, query url.Values) (widgets.View, error) {
	path := "/api/weather"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	body, err := r.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return widgets.View{}, err
	}
	var view widgets.View
	if err := json.Unmarshal(body, &view); err != nil {
		return widgets.View{}, fmt.Errorf("%w: malformed weather view: %v", domain.ErrTransport, err)
	}
	return view, nil
}

func (r *HTTPRemote) do(ctx context.Context, method, path string, body io.Reader, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer utils.Close(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}
	if resp.StatusCode == http.StatusOK {
		return data, nil
	}
	return nil, statusError(resp.StatusCode, data)
}

// statusError maps a server status to the matching sentinel.
func statusError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	switch {
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case status == http.StatusBadRequest || status == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", domain.ErrInvalidDocument, msg)
	case status >= 500:
		return fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, msg)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", domain.ErrTransport, status, msg)
	}
}
