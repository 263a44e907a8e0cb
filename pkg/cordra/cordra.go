// Package cordra writes digital objects into a Cordra repository over its
// REST API.
package cordra

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
)

var log = logger.NewScoped("CORDRA-CLIENT")

// Client is a HTTP client that talks to a Cordra repository.
type Client struct {
	config Config
	client *http.Client
}

// New creates a new client from the given config.
func New(config Config) (*Client, error) {
	rootCAs, err := x509.SystemCertPool()
	if err != nil && !config.InsecureSkipVerify {
		return nil, fmt.Errorf("load system cert pool: %w", err)
	}
	if config.InsecureSkipVerify {
		log.Warn().Message("Client is running without cert verification, " +
			"this is insecure and should not be done in production.")
		rootCAs = nil
	}
	return &Client{
		config: config,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.InsecureSkipVerify,
					RootCAs:            rootCAs,
				},
			},
		},
	}, nil
}

// CreateObjectRequest holds everything needed to create one digital object.
type CreateObjectRequest struct {
	// Type is the repository schema type, such as "FileObject" or "Dataset".
	Type string
	// JSON is the object's metadata, marshalled as the object content.
	JSON any
	// PayloadName names the object's payload. Empty means no payload, and the
	// object is created from its JSON content alone.
	PayloadName string
	// Payload is the payload's content stream. Only read when PayloadName is
	// set. The client consumes it but does not close it.
	Payload io.Reader
}

// CreateObject creates a new digital object and returns its
// repository-assigned identifier.
func (c *Client) CreateObject(ctx context.Context, req CreateObjectRequest) (string, error) {
	u, err := buildURL(c.config.URL, "objects")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("type", req.Type)
	u.RawQuery = q.Encode()

	var httpReq *http.Request
	if req.PayloadName != "" {
		httpReq, err = c.newPayloadRequest(ctx, u.String(), req)
	} else {
		httpReq, err = c.newJSONRequest(ctx, http.MethodPost, u.String(), req.JSON)
	}
	if err != nil {
		return "", err
	}
	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var obj map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", fmt.Errorf("decode created object: %w", err)
	}
	id := objectID(obj)
	if id == "" {
		return "", fmt.Errorf("%w: created object response carries no identifier", ErrCordraRejected)
	}
	log.Debug().
		WithString("type", req.Type).
		WithString("id", id).
		Message("Created object.")
	return id, nil
}

// GetObject reads a digital object's JSON content by its identifier.
func (c *Client) GetObject(ctx context.Context, id string) (map[string]any, error) {
	u, err := buildURL(c.config.URL, "objects", id)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var obj map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode object %s: %w", id, err)
	}
	return obj, nil
}

// UpdateObject replaces a digital object's JSON content.
func (c *Client) UpdateObject(ctx context.Context, id string, content any) error {
	u, err := buildURL(c.config.URL, "objects", id)
	if err != nil {
		return err
	}
	httpReq, err := c.newJSONRequest(ctx, http.MethodPut, u.String(), content)
	if err != nil {
		return err
	}
	resp, err := c.do(httpReq)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// DeleteObject removes a digital object from the repository.
func (c *Client) DeleteObject(ctx context.Context, id string) error {
	u, err := buildURL(c.config.URL, "objects", id)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(httpReq)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// CheckHealth verifies that the repository can be reached and that the
// configured credentials are accepted.
func (c *Client) CheckHealth(ctx context.Context) error {
	u, err := buildURL(c.config.URL, "check-credentials")
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(httpReq)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) newJSONRequest(ctx context.Context, method, url string, content any) (*http.Request, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal object content: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

// newPayloadRequest builds a multipart request with the object content in a
// "content" part and the payload bytes in a part of their own. The payload is
// streamed through a pipe so that a large artifact never has to be buffered
// in full.
func (c *Client) newPayloadRequest(ctx context.Context, url string, req CreateObjectRequest) (*http.Request, error) {
	data, err := json.Marshal(req.JSON)
	if err != nil {
		return nil, fmt.Errorf("marshal object content: %w", err)
	}
	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)
	go func() {
		pipeWriter.CloseWithError(writeMultipartBody(writer, data, req))
	}()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pipeReader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	return httpReq, nil
}

func writeMultipartBody(writer *multipart.Writer, content []byte, req CreateObjectRequest) error {
	contentPart, err := writer.CreateFormField("content")
	if err != nil {
		return err
	}
	if _, err := contentPart.Write(content); err != nil {
		return err
	}
	payloadPart, err := writer.CreateFormFile(req.PayloadName, path.Base(req.PayloadName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(payloadPart, req.Payload); err != nil {
		return err
	}
	return writer.Close()
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(c.config.Username, c.config.Password)
	log.Debug().
		WithString("method", req.Method).
		WithString("url", req.URL.String()).
		Message("")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCordraUnavailable, err)
	}
	if err := assertResponseOK(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func assertResponseOK(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrCordraAuth, resp.Status)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrCordraUnavailable, resp.Status)
	default:
		if message := errorMessage(resp.Body); message != "" {
			return fmt.Errorf("%w: %s: %s", ErrCordraRejected, resp.Status, message)
		}
		return fmt.Errorf("%w: %s", ErrCordraRejected, resp.Status)
	}
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func objectID(obj map[string]any) string {
	if id, ok := obj["@id"].(string); ok {
		return id
	}
	if id, ok := obj["id"].(string); ok {
		return id
	}
	return ""
}

func buildURL(base string, paths ...string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("URL is missing scheme: %q", base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL is missing host: %q", base)
	}
	var pathBuilder strings.Builder
	var rawPathBuilder strings.Builder
	if u.Path != "" {
		pathBuilder.WriteString(strings.TrimSuffix(u.Path, "/"))
		rawPathBuilder.WriteString(strings.TrimSuffix(u.EscapedPath(), "/"))
	}
	for _, segment := range paths {
		pathBuilder.WriteByte('/')
		rawPathBuilder.WriteByte('/')
		pathBuilder.WriteString(segment)
		rawPathBuilder.WriteString(url.PathEscape(segment))
	}
	u.Path = pathBuilder.String()
	u.RawPath = rawPathBuilder.String()
	return u, nil
}
