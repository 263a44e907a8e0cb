package connectorclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biodt/argo-cordra-connector/pkg/connectorserver"
	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_QueuedRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/notification", r.URL.Path)
		var notification connectorserver.Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&notification))
		assert.Equal(t, "wf-42", notification.Name)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(connectorserver.AcceptedNotification{
			Namespace: notification.Namespace,
			Name:      notification.Name,
			State:     "Pending",
		})
	}))
	defer srv.Close()

	client := Client{APIURL: srv.URL}
	run, queued, err := client.Notify("argo", "wf-42")
	require.NoError(t, err)
	assert.True(t, queued)
	assert.Equal(t, transfer.RunRef{Namespace: "argo", Name: "wf-42"}, run.Ref)
	assert.Equal(t, transfer.StatePending, run.State)
}

func TestNotify_DuplicateRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(runstore.Run{
			Ref:   transfer.RunRef{Namespace: "argo", Name: "wf-42"},
			State: transfer.StateCompleted,
		})
	}))
	defer srv.Close()

	client := Client{APIURL: srv.URL}
	run, queued, err := client.Notify("argo", "wf-42")
	require.NoError(t, err)
	assert.False(t, queued)
	assert.Equal(t, transfer.StateCompleted, run.State)
}

func TestGetRun_SendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "connector", username)
		assert.Equal(t, "hunter2", password)
		assert.Equal(t, "/api/run/argo/wf-42", r.URL.Path)
		json.NewEncoder(w).Encode(runstore.Run{
			Ref:   transfer.RunRef{Namespace: "argo", Name: "wf-42"},
			State: transfer.StateInProgress,
		})
	}))
	defer srv.Close()

	client := Client{
		APIURL:    srv.URL,
		BasicAuth: connectorserver.BasicAuthConfig{Username: "connector", Password: "hunter2"},
	}
	run, err := client.GetRun("argo", "wf-42")
	require.NoError(t, err)
	assert.Equal(t, transfer.StateInProgress, run.State)
}

func TestGetRun_ParsesProblemResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{
			"type": "/prob/api/record-not-found",
			"title": "Record not found.",
			"status": 404,
			"detail": "Unable to find run argo/wf-99."
		}`))
	}))
	defer srv.Close()

	client := Client{APIURL: srv.URL}
	_, err := client.GetRun("argo", "wf-99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Record not found")
}

func TestListRuns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/run", r.URL.Path)
		json.NewEncoder(w).Encode([]runstore.Run{
			{Ref: transfer.RunRef{Namespace: "argo", Name: "wf-1"}},
			{Ref: transfer.RunRef{Namespace: "argo", Name: "wf-2"}},
		})
	}))
	defer srv.Close()

	client := Client{APIURL: srv.URL}
	runs, err := client.ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGetHealth_ParsesUnhealthyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(connectorserver.Health{
			Argo:   connectorserver.ComponentHealth{Healthy: true},
			Cordra: connectorserver.ComponentHealth{Error: "connection refused"},
		})
	}))
	defer srv.Close()

	client := Client{APIURL: srv.URL}
	health, err := client.GetHealth()
	require.NoError(t, err)
	assert.False(t, health.Healthy)
	assert.True(t, health.Argo.Healthy)
	assert.Equal(t, "connection refused", health.Cordra.Error)
}

func TestBuildURL_EscapesSegments(t *testing.T) {
	u, err := buildURL("http://localhost:8080", "api", "run", "argo", "wf 42")
	require.NoError(t, err)
	assert.Equal(t, "/api/run/argo/wf%2042", u.EscapedPath())
}

func TestBuildURL_RejectsMissingScheme(t *testing.T) {
	_, err := buildURL("localhost:8080", "api")
	assert.Error(t, err)
}
