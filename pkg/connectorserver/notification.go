package connectorserver

import (
	"errors"
	"net/http"

	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/gin-gonic/gin"
	"github.com/iver-wharf/wharf-core/v2/pkg/ginutil"
	"github.com/iver-wharf/wharf-core/v2/pkg/problem"
)

type notificationModule struct {
	scheduler        *Scheduler
	defaultNamespace string
}

func (m notificationModule) register(g *gin.RouterGroup) {
	g.POST("/notification", m.createNotificationHandler)
}

// Notification is the request body for POST /api/notification. Workflow
// exit handlers send it when a run finishes.
type Notification struct {
	// Namespace is the workflow's Kubernetes namespace. Falls back to the
	// connector's configured default namespace when empty.
	Namespace string `json:"namespace" example:"argo"`
	// Name is the workflow's name.
	Name string `json:"name" binding:"required" example:"biodt-simulation-x7k2p"`
}

// AcceptedNotification is the response from POST /api/notification when
// the run was queued for transfer.
type AcceptedNotification struct {
	Namespace string `json:"namespace" example:"argo"`
	Name      string `json:"name" example:"biodt-simulation-x7k2p"`
	State     string `json:"state" example:"Pending"`
}

// createNotificationHandler godoc
// @id createNotification
// @summary Notify the connector about a finished workflow run
// @description Queues the run's output artifacts for transfer into the
// @description repository and returns immediately. A run the connector
// @description already knows is acknowledged without being queued again,
// @description unless the duplicate policy says to reprocess.
// @description Added in v0.1.0.
// @tags notification
// @accept json
// @produce json
// @param notification body Notification true "Finished workflow run"
// @success 202 {object} AcceptedNotification "Queued for transfer"
// @success 200 {object} runstore.Run "Already processed; not queued again"
// @failure 400 {object} problem.Response "Invalid request body"
// @failure 503 {object} problem.Response "Notification queue is full"
// @router /api/notification [post]
func (m notificationModule) createNotificationHandler(c *gin.Context) {
	var notification Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		ginutil.WriteInvalidBindError(c, err, "One or more fields failed to parse when reading the notification body.")
		return
	}
	if notification.Namespace == "" {
		notification.Namespace = m.defaultNamespace
	}
	ref := transfer.RunRef{Namespace: notification.Namespace, Name: notification.Name}

	queued, run, err := m.scheduler.Enqueue(ref)
	if errors.Is(err, ErrQueueFull) {
		ginutil.WriteProblemError(c, err, problem.Response{
			Type:   "/prob/connector/queue-full",
			Title:  "Notification queue is full.",
			Status: http.StatusServiceUnavailable,
			Detail: "All transfer queue slots are taken. Retry the notification later.",
		})
		return
	}
	if !queued {
		log.Debug().
			WithStringf("run", "%s", ref).
			WithStringf("state", "%s", run.State).
			Message("Ignoring duplicate notification.")
		c.JSON(http.StatusOK, run)
		return
	}
	log.Info().
		WithStringf("run", "%s", ref).
		Message("Queued run for transfer.")
	c.JSON(http.StatusAccepted, AcceptedNotification{
		Namespace: ref.Namespace,
		Name:      ref.Name,
		State:     run.State.String(),
	})
}
