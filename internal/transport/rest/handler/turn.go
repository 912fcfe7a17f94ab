package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"compass/internal/service"
)

// TurnHandler handles the live turn-processing endpoint
type TurnHandler struct {
	turnSvc *service.TurnService
}

// NewTurnHandler creates a new turn handler
func NewTurnHandler(turnSvc *service.TurnService) *TurnHandler {
	return &TurnHandler{turnSvc: turnSvc}
}

// Process handles GET /process_audio
func (h *TurnHandler) Process(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	audioURL := q.Get("url")
	userID := q.Get("user_id")
	conversationID := q.Get("conversation_id")
	if audioURL == "" || userID == "" || conversationID == "" {
		writeError(w, http.StatusBadRequest, "url, user_id and conversation_id are required")
		return
	}

	result, err := h.turnSvc.Process(r.Context(), audioURL, userID, conversationID)
	if err != nil {
		log.Printf("process turn %s: %v", conversationID, err)
		switch {
		case errors.Is(err, service.ErrDownloadFailed):
			writeError(w, http.StatusBadRequest, "failed to download audio file")
		case errors.Is(err, service.ErrConversationBusy):
			writeError(w, http.StatusConflict, "another turn for this conversation is in progress")
		default:
			// Internal detail stays in the server log
			writeError(w, http.StatusInternalServerError, "failed to process audio")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
