// Package connectorserver serves the connector's REST API: the
// notification endpoint that workflow exit handlers call, the run status
// endpoints, and the health endpoint.
package connectorserver

import (
	"github.com/biodt/argo-cordra-connector/pkg/connectorserver/docs"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/iver-wharf/wharf-core/v2/pkg/ginutil"
	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/gin-swagger/swaggerFiles"
)

var log = logger.NewScoped("CONN-SERVER")

type module interface {
	register(g *gin.RouterGroup)
}

// Server serves the connector REST API.
type Server struct {
	scheduler        *Scheduler
	config           Config
	defaultNamespace string
	modules          []module
}

// New assembles a server around the given scheduler, run registry, and
// upstream health checks. The default namespace fills in notifications
// that do not name one.
func New(scheduler *Scheduler, store RunRegistry, argoHealth, cordraHealth HealthChecker, defaultNamespace string, config Config) *Server {
	return &Server{
		scheduler:        scheduler,
		config:           config,
		defaultNamespace: defaultNamespace,
		modules: []module{
			notificationModule{scheduler: scheduler, defaultNamespace: defaultNamespace},
			runModule{store: store},
			healthModule{argo: argoHealth, cordra: cordraHealth},
		},
	}
}

// Serve starts the HTTP server.
//
// @title Argo-Cordra connector API
// @version v0.2.0
// @description REST API bridging Argo Workflows notifications to a Cordra
// @description digital object repository.
// @license.name MIT
// @license.url https://github.com/biodt/argo-cordra-connector/blob/main/LICENSE
// @query.collection.format multi
func (s *Server) Serve() error {
	gin.DefaultWriter = ginutil.DefaultLoggerWriter
	gin.DefaultErrorWriter = ginutil.DefaultLoggerWriter

	r := gin.New()
	r.Use(
		ginutil.DefaultLoggerHandler,
		ginutil.RecoverProblem,
	)
	s.registerRoutes(r)

	log.Info().WithString("address", s.config.BindAddress).Message("Starting server.")
	if err := r.Run(s.config.BindAddress); err != nil {
		log.Error().
			WithError(err).
			WithString("address", s.config.BindAddress).
			Message("Failed to start web server.")
		return err
	}
	return nil
}

func (s *Server) registerRoutes(r *gin.Engine) {
	applyCORS(r, s.config.CORS)

	base := r.Group(s.config.RootPath)
	base.GET("", pingHandler)
	api := base.Group("/api")
	if s.config.BasicAuth.Username != "" {
		api.Use(gin.BasicAuth(gin.Accounts{
			s.config.BasicAuth.Username: s.config.BasicAuth.Password,
		}))
	}
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, func(c *ginSwagger.Config) {
		c.InstanceName = docs.SwaggerInfoconnectorapi.InstanceName()
	}))

	for _, module := range s.modules {
		module.register(api)
	}
}

func applyCORS(r *gin.Engine, cfg CORSConfig) {
	if cfg.AllowAllOrigins {
		log.Info().Message("Allowing all origins in CORS.")
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		r.Use(cors.New(corsConfig))
	} else if len(cfg.AllowOrigins) > 0 {
		log.Info().
			WithStringf("origin", "%v", cfg.AllowOrigins).
			Message("Allowing origins in CORS.")
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AddAllowHeaders("Authorization")
		corsConfig.AllowCredentials = true
		r.Use(cors.New(corsConfig))
	}
}

// Ping is the response from a GET / request.
type Ping struct {
	Message string `json:"message" example:"pong"`
}

// pingHandler godoc
// @id ping
// @summary Ping
// @description Pong.
// @description Added in v0.1.0.
// @tags meta
// @produce json
// @success 200 {object} Ping
// @router / [get]
func pingHandler(c *gin.Context) {
	c.JSON(200, Ping{Message: "pong"})
}
