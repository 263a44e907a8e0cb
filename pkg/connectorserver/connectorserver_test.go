package connectorserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestNotification_QueuesNewRun(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("POST", "/api/notification", `{"namespace":"argo","name":"wf-42"}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	var accepted AcceptedNotification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.Equal(t, "argo", accepted.Namespace)
	assert.Equal(t, "wf-42", accepted.Name)
	assert.Equal(t, "Pending", accepted.State)

	run, ok := f.store.Get(transfer.RunRef{Namespace: "argo", Name: "wf-42"})
	require.True(t, ok)
	assert.Equal(t, transfer.StatePending, run.State)
}

func TestNotification_DefaultsNamespace(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("POST", "/api/notification", `{"name":"wf-42"}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	_, ok := f.store.Get(transfer.RunRef{Namespace: "argo", Name: "wf-42"})
	assert.True(t, ok)
}

func TestNotification_MissingNameIsRejected(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("POST", "/api/notification", `{"namespace":"argo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotification_DuplicateIsAcknowledgedNotQueued(t *testing.T) {
	f := newServerFixture(t)
	ref := transfer.RunRef{Namespace: "argo", Name: "wf-42"}
	f.store.TryStart(ref, transfer.DuplicateSkip)
	f.store.SetCompleted(ref, transfer.RunSummary{Run: ref, Stored: 3})

	w := f.request("POST", "/api/notification", `{"namespace":"argo","name":"wf-42"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var run runstore.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, transfer.StateCompleted, run.State)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 3, run.Summary.Stored)
}

func TestNotification_FullQueueIsRefused(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("POST", "/api/notification", `{"name":"wf-1"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	// The fixture's queue holds one run and no worker drains it.
	w = f.request("POST", "/api/notification", `{"name":"wf-2"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The refused run left no registry entry, so a retry is accepted once
	// the queue has room again.
	_, ok := f.store.Get(transfer.RunRef{Namespace: "argo", Name: "wf-2"})
	assert.False(t, ok)
}

func TestGetRun_ReturnsEntry(t *testing.T) {
	f := newServerFixture(t)
	ref := transfer.RunRef{Namespace: "argo", Name: "wf-42"}
	f.store.TryStart(ref, transfer.DuplicateSkip)
	f.store.SetCompleted(ref, transfer.RunSummary{Run: ref, Stored: 2, Skipped: 1})

	w := f.request("GET", "/api/run/argo/wf-42", "")

	require.Equal(t, http.StatusOK, w.Code)
	var run runstore.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, transfer.StateCompleted, run.State)
	assert.Equal(t, 2, run.Summary.Stored)
	assert.Equal(t, 1, run.Summary.Skipped)
}

func TestGetRun_UnknownRunIs404(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("GET", "/api/run/argo/wf-99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRuns(t *testing.T) {
	f := newServerFixture(t)
	f.store.TryStart(transfer.RunRef{Namespace: "argo", Name: "wf-1"}, transfer.DuplicateSkip)
	f.store.TryStart(transfer.RunRef{Namespace: "argo", Name: "wf-2"}, transfer.DuplicateSkip)

	w := f.request("GET", "/api/run", "")

	require.Equal(t, http.StatusOK, w.Code)
	var runs []runstore.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)
}

func TestHealth_AllHealthy(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("GET", "/api/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var health Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.True(t, health.Healthy)
}

func TestHealth_UnreachableRepositoryIs503(t *testing.T) {
	f := newServerFixture(t)
	f.cordraHealth.err = errors.New("connection refused")
	w := f.request("GET", "/api/health", "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var health Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.False(t, health.Healthy)
	assert.True(t, health.Argo.Healthy)
	assert.False(t, health.Cordra.Healthy)
	assert.Contains(t, health.Cordra.Error, "connection refused")
}

func TestBasicAuth_ProtectsAPIButNotPing(t *testing.T) {
	f := newServerFixtureWithConfig(t, Config{
		BasicAuth: BasicAuthConfig{Username: "connector", Password: "hunter2"},
	})

	w := f.request("GET", "/api/run", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request("GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/run", nil)
	req.SetBasicAuth("connector", "hunter2")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRootPath_PrefixesAllRoutes(t *testing.T) {
	f := newServerFixtureWithConfig(t, Config{RootPath: "/connector"})

	w := f.request("GET", "/connector/api/run", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request("GET", "/api/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerDocIsServed(t *testing.T) {
	f := newServerFixture(t)
	w := f.request("GET", "/api/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/api/notification")
}

func TestScheduler_ProcessesQueuedRun(t *testing.T) {
	store := runstore.New()
	done := make(chan struct{})
	runner := &mockRunner{
		run: func(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error) {
			defer close(done)
			return transfer.RunSummary{Run: run, Stored: 1}, nil
		},
	}
	scheduler := NewScheduler(runner, store, transfer.Config{QueueSize: 4, MaxConcurrentRuns: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	ref := transfer.RunRef{Namespace: "argo", Name: "wf-42"}
	queued, _, err := scheduler.Enqueue(ref)
	require.NoError(t, err)
	require.True(t, queued)

	<-done
	cancel()
	scheduler.Wait()

	run, ok := store.Get(ref)
	require.True(t, ok)
	assert.Equal(t, transfer.StateCompleted, run.State)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 1, run.Summary.Stored)
}

func TestScheduler_RecordsRunFailure(t *testing.T) {
	store := runstore.New()
	done := make(chan struct{})
	runner := &mockRunner{
		run: func(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error) {
			defer close(done)
			return transfer.RunSummary{Run: run}, errors.New("workflow not found")
		},
	}
	scheduler := NewScheduler(runner, store, transfer.Config{QueueSize: 4, MaxConcurrentRuns: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	ref := transfer.RunRef{Namespace: "argo", Name: "wf-99"}
	queued, _, err := scheduler.Enqueue(ref)
	require.NoError(t, err)
	require.True(t, queued)

	<-done
	cancel()
	scheduler.Wait()

	run, ok := store.Get(ref)
	require.True(t, ok)
	assert.Equal(t, transfer.StateFailed, run.State)
	assert.Equal(t, "workflow not found", run.Error)
}

func TestScheduler_RetriesRunStillHeldByAnotherWorker(t *testing.T) {
	store := runstore.New()
	done := make(chan struct{})
	runner := &mockRunner{
		run: func(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error) {
			defer close(done)
			return transfer.RunSummary{Run: run, Stored: 2}, nil
		},
	}
	scheduler := NewScheduler(runner, store, transfer.Config{
		QueueSize:         4,
		MaxConcurrentRuns: 1,
		OnDuplicate:       transfer.DuplicateReprocess,
	})

	// Another worker still holds the run: a reprocess notification can
	// land after the registry entry turned terminal but before the
	// worker released the key.
	ref := transfer.RunRef{Namespace: "argo", Name: "wf-42"}
	scheduler.inProgress.Add(ref.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queued, _, err := scheduler.Enqueue(ref)
	require.NoError(t, err)
	require.True(t, queued)
	scheduler.Start(ctx)

	go func() {
		time.Sleep(10 * time.Millisecond)
		scheduler.inProgress.Remove(ref.String())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run was dropped instead of retried")
	}
	cancel()
	scheduler.Wait()

	run, ok := store.Get(ref)
	require.True(t, ok)
	assert.Equal(t, transfer.StateCompleted, run.State)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 2, run.Summary.Stored)
}

type serverFixture struct {
	router       *gin.Engine
	store        runstore.Store
	argoHealth   *mockHealth
	cordraHealth *mockHealth
}

func newServerFixture(t *testing.T) *serverFixture {
	return newServerFixtureWithConfig(t, Config{})
}

func newServerFixtureWithConfig(t *testing.T, config Config) *serverFixture {
	store := runstore.New()
	runner := &mockRunner{
		run: func(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error) {
			return transfer.RunSummary{Run: run}, nil
		},
	}
	// Workers are deliberately not started: queued runs stay queued, so
	// the tests observe the registry exactly as the handlers left it.
	scheduler := NewScheduler(runner, store, transfer.Config{
		QueueSize:         1,
		MaxConcurrentRuns: 1,
		OnDuplicate:       transfer.DuplicateSkip,
	})
	argoHealth := &mockHealth{}
	cordraHealth := &mockHealth{}
	server := New(scheduler, store, argoHealth, cordraHealth, "argo", config)
	router := gin.New()
	server.registerRoutes(router)
	return &serverFixture{
		router:       router,
		store:        store,
		argoHealth:   argoHealth,
		cordraHealth: cordraHealth,
	}
}

func (f *serverFixture) request(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type mockRunner struct {
	run func(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error)
}

func (r *mockRunner) Run(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error) {
	return r.run(ctx, run)
}

type mockHealth struct {
	err error
}

func (h *mockHealth) CheckHealth(ctx context.Context) error {
	return h.err
}
