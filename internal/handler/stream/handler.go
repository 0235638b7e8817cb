package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/propertypilot/backend/internal/service/agents"
	"github.com/propertypilot/backend/pkg/utils"
)

// Handler streams the investment-manager narrative via Server-Sent Events.
type Handler struct {
	system *agents.System
}

// New creates a new stream handler.
func New(system *agents.System) *Handler {
	return &Handler{system: system}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest streams the analysis narrative for a location. When no
// chat model is configured the deterministic report is sent as one chunk.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, location string, maxPrice float64) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		Content:   fmt.Sprintf("Analyzing investment opportunities in %s", location),
	})

	if err := h.dispatchNarrative(ctx, w, flusher, sessionID, location, maxPrice); err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("analysis failed: %v", err))
		return err
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed analysis stream for session=%s location=%s", sessionID, location)
	return nil
}

func (h *Handler) dispatchNarrative(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID, location string, maxPrice float64) error {
	if !h.system.StreamingEnabled() {
		analysis, err := h.system.AnalyzeInvestment(ctx, location, maxPrice)
		if err != nil {
			return err
		}
		utils.SendSSEChunk(w, flusher, StreamResponse{
			Event:     "chunk",
			SessionID: sessionID,
			Content:   analysis.AnalysisResult,
		})
		return nil
	}

	stream, err := h.system.StreamInvestment(ctx, location, maxPrice)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return recvErr
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		utils.SendSSEChunk(w, flusher, StreamResponse{
			Event:     "chunk",
			SessionID: sessionID,
			Content:   chunk.Content,
		})
	}
	return nil
}

// sendSSEError sends an error via Server-Sent Events.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	utils.SendSSEChunk(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
