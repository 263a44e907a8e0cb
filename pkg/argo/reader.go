package argo

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"

	"golang.org/x/net/html"
	"gopkg.in/guregu/null.v4"
)

// Artifact is one output artifact file of a workflow run, with its content
// stream opened and ready to be read.
type Artifact struct {
	// NodeID is the ID of the workflow node that produced the artifact.
	NodeID string
	// Name is the artifact's logical name as declared in the workflow.
	Name string
	// Path is the artifact file's path, relative to the workflow run and
	// prefixed with the node ID.
	Path string
	// Size is the artifact's byte size, when the server reports one ahead of
	// the transfer. Argo does not always do so.
	Size null.Int
	// ContentType is the MIME type reported by the server.
	ContentType string
	// Body is the artifact's content stream. The caller owns it and must
	// close it.
	Body io.ReadCloser
}

// ArtifactReader yields the artifact files of one workflow run, lazily and in
// a single pass. It is not restartable.
type ArtifactReader struct {
	client  *Client
	pending []pendingArtifact
}

type pendingArtifact struct {
	ref  ArtifactRef
	url  string
	path string
}

// OpenArtifacts fetches the workflow run and returns a reader over its output
// artifact files.
//
// Returns ErrWorkflowNotFound when the run is unknown to the Argo server, and
// ErrArgoUnavailable when the server cannot be reached. In either case no
// artifact has been touched yet.
func (c *Client) OpenArtifacts(ctx context.Context, namespace, name string) (*ArtifactReader, error) {
	wf, err := c.GetWorkflow(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	refs := ListArtifacts(wf)
	pending := make([]pendingArtifact, 0, len(refs))
	for _, ref := range refs {
		u, err := buildURL(c.config.URL,
			"artifact-files", namespace, "workflows", name,
			ref.NodeID, "outputs", ref.Name)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingArtifact{
			ref:  ref,
			url:  u.String(),
			path: ref.RelativePath(),
		})
	}
	log.Debug().
		WithStringf("workflow", "%s/%s", namespace, name).
		WithStringf("artifacts", "%d", len(pending)).
		Message("Opened artifact listing.")
	return &ArtifactReader{client: c, pending: pending}, nil
}

// Next returns the next artifact file, or io.EOF once all artifacts have been
// yielded. The previous artifact's body must be closed before calling Next
// again.
//
// A response carrying a Content-Disposition header is a file download. The
// file name it carries wins over the path from the workflow status, because
// Argo serves archived artifacts in their archive format: a workflow file
// /tmp/out.txt may well be downloaded as out.tgz. Any other response is an
// HTML directory index, whose entries are queued up and visited in turn.
func (r *ArtifactReader) Next(ctx context.Context) (*Artifact, error) {
	for len(r.pending) > 0 {
		item := r.pending[0]
		r.pending = r.pending[1:]

		resp, err := r.client.get(ctx, item.url)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch artifact %q: %v", ErrArgoUnavailable, item.path, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch artifact %q: non-2xx status code: %s", item.path, resp.Status)
		}

		if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
			filePath := item.path
			if fileName := dispositionFileName(disposition); fileName != "" {
				filePath = path.Join(path.Dir(item.path), fileName)
			}
			size := null.Int{}
			if resp.ContentLength >= 0 {
				size = null.IntFrom(resp.ContentLength)
			}
			log.Debug().
				WithString("path", filePath).
				WithString("url", item.url).
				Message("Yielding artifact file.")
			return &Artifact{
				NodeID:      item.ref.NodeID,
				Name:        item.ref.Name,
				Path:        filePath,
				Size:        size,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        resp.Body,
			}, nil
		}

		log.Debug().
			WithString("url", item.url).
			Message("Expanding artifact directory listing.")
		children, err := parseDirectoryListing(resp.Body, item)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse artifact directory %q: %w", item.path, err)
		}
		r.pending = append(children, r.pending...)
	}
	return nil, io.EOF
}

// Close releases the reader. Artifact bodies already yielded by Next are not
// touched; their callers own them.
func (r *ArtifactReader) Close() error {
	r.pending = nil
	return nil
}

func dispositionFileName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func parseDirectoryListing(body io.Reader, parent pendingArtifact) ([]pendingArtifact, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(parent.url + "/")
	if err != nil {
		return nil, err
	}
	var children []pendingArtifact
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attrValue(n, "href"); href != "" && href != ".." {
				ref, err := url.Parse(href)
				if err != nil {
					return
				}
				childName := href
				if unescaped, err := url.PathUnescape(href); err == nil {
					childName = unescaped
				}
				children = append(children, pendingArtifact{
					ref:  parent.ref,
					url:  baseURL.ResolveReference(ref).String(),
					path: path.Join(parent.path, childName),
				})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)
	return children, nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
