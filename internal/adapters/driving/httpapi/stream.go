package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/services"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// streamMeta is the payload of the single meta frame.
type streamMeta struct {
	Citations []domain.Citation `json:"citations"`
	UsedK     int               `json:"used_k"`
	Mode      string            `json:"mode"`
}

// writeFrame emits one server-sent event and flushes it to the client.
// A payload containing newlines becomes one data: line per line, so a
// multi-line fragment never breaks the frame.
func writeFrame(w gin.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
	w.Flush()
}

// handleAskStream prepares the prompt bundle, then drives generation and
// streams fragments as SSE frames: zero or more token frames, one meta
// frame, and exactly one terminal frame (done on success, error in place
// of meta+done on failure). Emission stops when the client disconnects.
func (s *Server) handleAskStream(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(c, &domain.ValidationError{Field: "question", Reason: "must be a non-empty string"})
		return
	}
	topK := req.EffectiveTopK()

	ctx := c.Request.Context()

	// Preparation failures happen before any output is committed, so they
	// can still use the normal error mapping.
	bundle, err := s.ask.Prepare(ctx, req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	citations := services.ExtractCitations(bundle.RankedDocuments, topK)

	generator, err := s.handles.Generator()
	if err != nil {
		writeError(c, err)
		return
	}
	events, err := generator.Stream(ctx, services.BuildMessages(bundle))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	for ev := range events {
		if ctx.Err() != nil {
			logger.Debug("stream: client disconnected")
			return
		}
		if ev.Err != nil {
			payload, _ := json.Marshal(gin.H{"error": ev.Err.Error()})
			writeFrame(c.Writer, "error", string(payload))
			return
		}
		if ev.Fragment.Value != "" {
			writeFrame(c.Writer, "token", ev.Fragment.Value)
		}
	}

	meta, err := json.Marshal(streamMeta{
		Citations: citations,
		UsedK:     len(citations),
		Mode:      domain.ModeLive,
	})
	if err != nil {
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		writeFrame(c.Writer, "error", string(payload))
		return
	}
	writeFrame(c.Writer, "meta", string(meta))
	writeFrame(c.Writer, "done", "done")
}
