package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avinci-labs/avinci/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	personaHandler *Persona
	callHandler    *Call
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, personaHandler *Persona, callHandler *Call) *Router {
	return &Router{
		cfg:            cfg,
		personaHandler: personaHandler,
		callHandler:    callHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	rt.setupPersonaRoutes(v1)
	rt.setupCallRoutes(v1)
}

func (rt *Router) setupPersonaRoutes(g *echo.Group) {
	personas := g.Group("/personas")
	personas.POST("/compile", rt.personaHandler.Compile)
	personas.GET("", rt.personaHandler.List)
	personas.GET("/:id", rt.personaHandler.Get)
	personas.POST("/:id/archive", rt.personaHandler.Archive)
}

func (rt *Router) setupCallRoutes(g *echo.Group) {
	calls := g.Group("/calls")
	calls.POST("", rt.callHandler.Create)
	calls.GET("/:id", rt.callHandler.Get)
	calls.POST("/:id/turns", rt.callHandler.SubmitTurn)
	calls.POST("/:id/end", rt.callHandler.End)
	calls.GET("/:id/ws", rt.callHandler.Join)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
