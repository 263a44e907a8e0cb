// Package argo reads completed workflow runs and their output artifacts from
// an Argo workflows server, over its REST API.
package argo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
)

var log = logger.NewScoped("ARGO-CLIENT")

// Client is a HTTP client that talks to an Argo workflows server.
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

// GetWorkflow fetches a workflow run by namespace and name.
func (c *Client) GetWorkflow(ctx context.Context, namespace, name string) (*Workflow, error) {
	u, err := buildURL(c.config.URL, "api", "v1", "workflows", namespace, name)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgoUnavailable, err)
	}
	defer resp.Body.Close()
	if err := assertWorkflowResponse(resp, namespace, name); err != nil {
		return nil, err
	}
	var wf Workflow
	if err := json.NewDecoder(resp.Body).Decode(&wf); err != nil {
		return nil, fmt.Errorf("decode workflow %s/%s: %w", namespace, name, err)
	}
	return &wf, nil
}

// CheckHealth verifies that the Argo server can be reached and that the
// configured token is accepted, by listing a single workflow in the default
// namespace.
func (c *Client) CheckHealth(ctx context.Context) error {
	u, err := buildURL(c.config.URL, "api", "v1", "workflows", c.config.Namespace)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("listOptions.limit", "1")
	u.RawQuery = q.Encode()
	resp, err := c.get(ctx, u.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArgoUnavailable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrArgoAuth, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: non-2xx status code: %s", ErrArgoUnavailable, resp.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	log.Debug().
		WithString("method", http.MethodGet).
		WithString("url", url).
		Message("")
	return c.client.Do(req)
}

func assertWorkflowResponse(resp *http.Response, namespace, name string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s/%s", ErrWorkflowNotFound, namespace, name)
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrArgoAuth, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: non-2xx status code: %s", ErrArgoUnavailable, resp.Status)
	}
	return nil
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
