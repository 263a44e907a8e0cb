package connectorserver

import (
	"fmt"
	"net/http"

	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/gin-gonic/gin"
	"github.com/iver-wharf/wharf-core/v2/pkg/ginutil"
)

// RunRegistry is the read-only slice of the run store that the status
// endpoints need.
type RunRegistry interface {
	Get(ref transfer.RunRef) (runstore.Run, bool)
	List() []runstore.Run
}

type runModule struct {
	store RunRegistry
}

func (m runModule) register(g *gin.RouterGroup) {
	g.GET("/run", m.listRunsHandler)
	g.GET("/run/:namespace/:name", m.getRunHandler)
}

// listRunsHandler godoc
// @id listRuns
// @summary List all known workflow runs
// @description Lists every run the connector has been notified about,
// @description most recently notified first.
// @description Added in v0.1.0.
// @tags run
// @produce json
// @success 200 {object} []runstore.Run
// @router /api/run [get]
func (m runModule) listRunsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, m.store.List())
}

// getRunHandler godoc
// @id getRun
// @summary Get one workflow run's transfer state
// @description Added in v0.1.0.
// @tags run
// @produce json
// @param namespace path string true "Workflow namespace" default(argo)
// @param name path string true "Workflow name"
// @success 200 {object} runstore.Run
// @failure 404 {object} problem.Response "Run not found"
// @router /api/run/{namespace}/{name} [get]
func (m runModule) getRunHandler(c *gin.Context) {
	namespace, ok := ginutil.RequireParamString(c, "namespace")
	if !ok {
		return
	}
	name, ok := ginutil.RequireParamString(c, "name")
	if !ok {
		return
	}
	run, ok := m.store.Get(transfer.RunRef{Namespace: namespace, Name: name})
	if !ok {
		ginutil.WriteDBNotFound(c, fmt.Sprintf("Unable to find run %s/%s.", namespace, name))
		return
	}
	c.JSON(http.StatusOK, run)
}
