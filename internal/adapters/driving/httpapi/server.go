// Package httpapi exposes the answering pipeline over HTTP.
//
// Routes: /health, /ask, /ask/stream (server-sent events), /sources,
// /ingest (stub) and /feedback. The transport boundary is the only place
// that converts typed domain errors into HTTP statuses.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driving"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// Config carries the server's static identity and store coordinates.
type Config struct {
	// AppName is reported by /health.
	AppName string

	// Mode is "mock" or "live".
	Mode string

	// StorePath and Collection describe the vector store for /sources.
	StorePath  string
	Collection string
}

// Handles resolves the external handles the transport needs directly.
// Resolution failures are configuration errors, reported per request.
type Handles interface {
	VectorStore() (driven.VectorStore, error)
	Generator() (driven.GenerationService, error)
	Feedback() (driven.FeedbackStore, error)
}

// Server wires the HTTP routes to the pipeline.
type Server struct {
	cfg     Config
	ask     driving.AskService
	handles Handles
	engine  *gin.Engine
}

// NewServer builds the router. The engine runs in release mode unless
// verbose logging is on.
func NewServer(cfg Config, ask driving.AskService, handles Handles) *Server {
	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		ask:     ask,
		handles: handles,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", s.health)
	s.engine.POST("/ask", s.handleAsk)
	s.engine.POST("/ask/stream", s.handleAskStream)
	s.engine.GET("/sources", s.handleSources)
	s.engine.POST("/ingest", s.handleIngest)
	s.engine.POST("/feedback", s.handleFeedback)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// health reports liveness only.
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"app":  s.cfg.AppName,
		"mode": s.cfg.Mode,
	})
}
