package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// handleAsk answers a question synchronously, in mock or live mode.
func (s *Server) handleAsk(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(c, &domain.ValidationError{Field: "question", Reason: "must be a non-empty string"})
		return
	}

	reqID := uuid.NewString()
	logger.Info("ask %s: top_k=%d", reqID, req.EffectiveTopK())

	resp, err := s.ask.Ask(c.Request.Context(), req.Question, req.EffectiveTopK())
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("ask %s: answered with %d citations", reqID, resp.UsedK)
	c.JSON(http.StatusOK, resp)
}

// handleSources reports the vector-store inventory for diagnostics.
func (s *Server) handleSources(c *gin.Context) {
	store, err := s.handles.VectorStore()
	if err != nil {
		writeError(c, err)
		return
	}

	available, err := store.Collections(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	focusCount, err := store.Count(c.Request.Context(), s.cfg.Collection)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":        s.cfg.StorePath,
		"collection":  s.cfg.Collection,
		"available":   available,
		"focus_count": focusCount,
	})
}

// handleIngest is a stub; corpus ingestion is an external responsibility.
func (s *Server) handleIngest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "queued",
		"note":   "ingestion pipeline is not implemented yet",
	})
}

// feedbackRequest is the inbound feedback payload.
type feedbackRequest struct {
	Question string  `json:"question" binding:"required"`
	Answer   string  `json:"answer" binding:"required"`
	Rating   *int    `json:"rating" binding:"required"`
	Comment  *string `json:"comment"`
}

// handleFeedback logs one feedback record. No processing happens here.
func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if *req.Rating < -1 || *req.Rating > 1 {
		writeError(c, &domain.ValidationError{Field: "rating", Reason: "must be -1, 0 or 1"})
		return
	}

	store, err := s.handles.Feedback()
	if err != nil {
		writeError(c, err)
		return
	}

	saved, err := store.Save(c.Request.Context(), domain.Feedback{
		Question: req.Question,
		Answer:   req.Answer,
		Rating:   *req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Info("feedback %s: rating=%d", saved.ID, saved.Rating)
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"received": saved,
	})
}
