package argo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

const workflowJSON = `{
	"metadata": {"name": "wf-42", "namespace": "argo"},
	"status": {
		"phase": "Succeeded",
		"nodes": {
			"wf-42-node": {
				"id": "wf-42-node",
				"outputs": {
					"artifacts": [
						{"name": "result", "path": "/tmp/result.csv", "s3": {"key": "wf-42/result.tgz"}}
					]
				}
			}
		}
	}
}`

func TestGetWorkflow(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/v1/workflows/argo/wf-42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, workflowJSON)
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	wf, err := client.GetWorkflow(context.Background(), "argo", "wf-42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer some-token", gotAuth)
	assert.Equal(t, "wf-42", wf.Metadata.Name)
	assert.Len(t, wf.Status.Nodes, 1)
}

func TestGetWorkflow_UnknownRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	_, err := client.GetWorkflow(context.Background(), "argo", "wf-99")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestGetWorkflow_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := newTestClient(t, server.URL)

	_, err := client.GetWorkflow(context.Background(), "argo", "wf-42")
	assert.ErrorIs(t, err, ErrArgoUnavailable)
}

func TestGetWorkflow_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	_, err := client.GetWorkflow(context.Background(), "argo", "wf-42")
	assert.ErrorIs(t, err, ErrArgoAuth)
}

func TestOpenArtifacts_FileDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/workflows/argo/wf-42":
			io.WriteString(w, workflowJSON)
		case "/artifact-files/argo/workflows/wf-42/wf-42-node/outputs/result":
			w.Header().Set("Content-Disposition", `attachment; filename="result.tgz"`)
			w.Header().Set("Content-Type", "application/octet-stream")
			io.WriteString(w, "artifact bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	reader, err := client.OpenArtifacts(context.Background(), "argo", "wf-42")
	require.NoError(t, err)
	defer reader.Close()

	artifact, err := reader.Next(context.Background())
	require.NoError(t, err)
	// The download's file name wins over the path from the workflow status.
	assert.Equal(t, "wf-42-node/tmp/result.tgz", artifact.Path)
	assert.Equal(t, null.IntFrom(int64(len("artifact bytes"))), artifact.Size)
	gotData, err := io.ReadAll(artifact.Body)
	require.NoError(t, err)
	assert.NoError(t, artifact.Body.Close())
	assert.Equal(t, "artifact bytes", string(gotData))

	_, err = reader.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenArtifacts_DirectoryRecursion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/workflows/argo/wf-42":
			io.WriteString(w, workflowJSON)
		case "/artifact-files/argo/workflows/wf-42/wf-42-node/outputs/result":
			io.WriteString(w, `<html><body>
				<a href="..">..</a>
				<a href="a.txt">a.txt</a>
				<a href="sub">sub</a>
			</body></html>`)
		case "/artifact-files/argo/workflows/wf-42/wf-42-node/outputs/result/a.txt":
			w.Header().Set("Content-Disposition", `attachment; filename="a.txt"`)
			io.WriteString(w, "content a")
		case "/artifact-files/argo/workflows/wf-42/wf-42-node/outputs/result/sub":
			io.WriteString(w, `<html><body><a href="b.txt">b.txt</a></body></html>`)
		case "/artifact-files/argo/workflows/wf-42/wf-42-node/outputs/result/sub/b.txt":
			w.Header().Set("Content-Disposition", `attachment; filename="b.txt"`)
			io.WriteString(w, "content b")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	reader, err := client.OpenArtifacts(context.Background(), "argo", "wf-42")
	require.NoError(t, err)
	defer reader.Close()

	wantPaths := []string{
		"wf-42-node/tmp/result.csv/a.txt",
		"wf-42-node/tmp/result.csv/sub/b.txt",
	}
	var gotPaths []string
	for {
		artifact, err := reader.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		gotPaths = append(gotPaths, artifact.Path)
		artifact.Body.Close()
	}
	assert.Equal(t, wantPaths, gotPaths)
}

func TestOpenArtifacts_UnknownRunTouchesNoArtifact(t *testing.T) {
	var artifactRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/workflows/argo/wf-99" {
			http.NotFound(w, r)
			return
		}
		artifactRequests++
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	_, err := client.OpenArtifacts(context.Background(), "argo", "wf-99")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
	assert.Zero(t, artifactRequests)
}

func TestCheckHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workflows/argo", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("listOptions.limit"))
		io.WriteString(w, `{"items": []}`)
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	assert.NoError(t, client.CheckHealth(context.Background()))
}

func newTestClient(t *testing.T, url string) *Client {
	client, err := New(Config{
		URL:       url,
		Token:     "some-token",
		Namespace: "argo",
	})
	require.NoError(t, err)
	return client
}
