package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"compass/internal/model"
	"compass/internal/service"
)

// ReportHandler handles counseling report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// BuildReportRequest is the request body for building a report
type BuildReportRequest struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
}

// Build handles POST /v1/reports/{conversationId}
func (h *ReportHandler) Build(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	var req BuildReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reportSvc.BuildForConversation(r.Context(), conversationID, model.Subject{
		Name:       req.Name,
		RollNumber: req.RollNumber,
	})
	if err != nil {
		log.Printf("build report %s: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Get handles GET /v1/reports/{conversationId}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	report, err := h.reportSvc.GetReport(r.Context(), conversationID)
	if err != nil {
		log.Printf("get report %s: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
