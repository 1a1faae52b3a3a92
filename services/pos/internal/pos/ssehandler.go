package pos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/pos/services/pos/internal/board"
	"github.com/google/uuid"
)

// Stream pushes a rendered board on every change as server-sent events.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.NewString()
	log := h.log(r).With("subscriber_id", subscriberID)
	log.Info("new SSE connection")

	states := h.board.Subscribe(subscriberID)
	defer h.board.Unsubscribe(subscriberID)

	fmt.Fprintf(w, ": connected\n\n")
	fmt.Fprintf(w, "retry: 2000\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.opts.SSEKeepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info("SSE client disconnected")
			return

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()

		case s, ok := <-states:
			if !ok {
				return
			}
			data, err := json.Marshal(board.Render(s, h.board.Now(), h.opts.LateAfter))
			if err != nil {
				log.Error("cannot encode board", "error", err)
				continue
			}
			sendSSEEvent(w, flusher, "board-update", string(data))
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType, data string) {
	fmt.Fprintf(w, "event: %s\n", eventType)
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprintf(w, "\n")
	flusher.Flush()
}
