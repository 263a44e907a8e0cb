// Package connectorclient is a HTTP client for the connector's REST API,
// used by the CLI subcommands that talk to a running connector.
package connectorclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/biodt/argo-cordra-connector/pkg/connectorserver"
	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
	"github.com/iver-wharf/wharf-core/v2/pkg/problem"
)

// Client is a HTTP client that talks to a running connector.
type Client struct {
	// APIURL is the base API URL used. Example value:
	// 	http://argo-cordra-connector.argo.svc.cluster.local
	APIURL string

	// BasicAuth holds credentials sent with each request, when the
	// username is non-empty.
	BasicAuth connectorserver.BasicAuthConfig
}

var log = logger.NewScoped("CONNECTOR-CLIENT")

// Notify tells the connector that a workflow run has finished. The bool
// is true when the run was queued for transfer, and false when the
// connector already knew the run; the returned entry then describes the
// earlier run.
func (c Client) Notify(namespace, name string) (runstore.Run, bool, error) {
	u, err := buildURL(c.APIURL, "api", "notification")
	if err != nil {
		return runstore.Run{}, false, err
	}
	body, err := json.Marshal(connectorserver.Notification{
		Namespace: namespace,
		Name:      name,
	})
	if err != nil {
		return runstore.Run{}, false, err
	}
	resp, err := c.doRequest(http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return runstore.Run{}, false, err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	if resp.StatusCode == http.StatusAccepted {
		var accepted connectorserver.AcceptedNotification
		if err := dec.Decode(&accepted); err != nil {
			return runstore.Run{}, false, err
		}
		return runstore.Run{
			Ref:   transfer.RunRef{Namespace: accepted.Namespace, Name: accepted.Name},
			State: transfer.ParseState(accepted.State),
		}, true, nil
	}
	var run runstore.Run
	if err := dec.Decode(&run); err != nil {
		return runstore.Run{}, false, err
	}
	return run, false, nil
}

// GetRun returns one run's transfer state.
func (c Client) GetRun(namespace, name string) (runstore.Run, error) {
	u, err := buildURL(c.APIURL, "api", "run", namespace, name)
	if err != nil {
		return runstore.Run{}, err
	}
	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return runstore.Run{}, err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	var run runstore.Run
	if err := dec.Decode(&run); err != nil {
		return runstore.Run{}, err
	}
	return run, nil
}

// ListRuns returns a slice of all runs the connector knows about.
func (c Client) ListRuns() ([]runstore.Run, error) {
	u, err := buildURL(c.APIURL, "api", "run")
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	var runs []runstore.Run
	if err := dec.Decode(&runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetHealth returns the connector's view of its upstream connections.
// An unhealthy connector responds with 503, which is still parsed into
// the returned struct rather than treated as a request error.
func (c Client) GetHealth() (connectorserver.Health, error) {
	u, err := buildURL(c.APIURL, "api", "health")
	if err != nil {
		return connectorserver.Health{}, err
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return connectorserver.Health{}, err
	}
	c.applyAuth(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return connectorserver.Health{}, err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	var health connectorserver.Health
	if err := dec.Decode(&health); err != nil {
		return connectorserver.Health{}, err
	}
	return health, nil
}

// Ping pongs.
func (c Client) Ping() error {
	u, err := buildURL(c.APIURL)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c Client) doRequest(method string, u *url.URL, body io.Reader) (*http.Response, error) {
	urlStr := u.String()
	req, err := http.NewRequest(method, urlStr, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyAuth(req)
	log.Debug().
		WithString("method", method).
		WithString("url", urlStr).
		Message("")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if err := parseErrorResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c Client) applyAuth(req *http.Request) {
	if c.BasicAuth.Username != "" {
		req.SetBasicAuth(c.BasicAuth.Username, c.BasicAuth.Password)
	}
}

func parseErrorResponse(resp *http.Response) error {
	if problem.IsHTTPResponse(resp) {
		prob, err := problem.ParseHTTPResponse(resp)
		if err != nil {
			return err
		}
		return prob
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2xx status code: %s", resp.Status)
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
