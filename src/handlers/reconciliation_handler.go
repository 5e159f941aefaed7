// backend/src/handlers/reconciliation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/username/vatrecon/backend/src/logger"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/security/validation"
	"github.com/username/vatrecon/backend/src/services"
	"github.com/username/vatrecon/backend/src/utils"
)

const maxJSONBodyBytes = 1 << 20

type ReconciliationHandler struct {
	service        services.ReconciliationService
	maxUploadBytes int64
}

func NewReconciliationHandler(service services.ReconciliationService, maxUploadBytes int64) *ReconciliationHandler {
	return &ReconciliationHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the session endpoints on r.
func (h *ReconciliationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.HandleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGetSession)
		r.Post("/uploads", h.HandleUpload)
		r.Put("/declared-report", h.HandleSetDeclaredReport)
		r.Post("/reconcile", h.HandleReconcile)
		r.Get("/result", h.HandleGetResult)
		r.Get("/anomalies", h.HandleGetAnomalies)
		r.Get("/report-lines", h.HandleGetReportLines)
	})
}

// sessionIDFromRequest reads and validates the {sessionID} path parameter.
func sessionIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := validation.ValidateSessionID(sessionID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return strings.TrimSpace(sessionID), true
}

// statusForError maps service errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoTransactions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidSource),
		errors.Is(err, services.ErrParsingFailed),
		errors.Is(err, validation.ErrValidationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", "action", action, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Failed to %s", action), status)
		return
	}
	utils.SendJSONError(w, err.Error(), status)
}

type createSessionRequest struct {
	Period string `json:"period"`
}

func (h *ReconciliationHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.CreateSession(r.Context(), req.Period)
	if err != nil {
		sendServiceError(w, r, "create session", err)
		return
	}
	utils.SendJSON(w, session, http.StatusCreated)
}

func (h *ReconciliationHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, "load session", err)
		return
	}
	utils.SendJSON(w, session, http.StatusOK)
}

type uploadResponse struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Filename  string `json:"filename"`
	Rows      int    `json:"rows"`
}

func (h *ReconciliationHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context()).With("sessionID", sessionID)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to process upload or file too large (max %s)", humanize.IBytes(uint64(h.maxUploadBytes))), http.StatusBadRequest)
		return
	}

	source := strings.TrimSpace(r.FormValue("source"))
	if source == "" {
		utils.SendJSONError(w, "Upload source is required (sales, purchases or bank).", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	clientContentType := fileHeader.Header.Get("Content-Type")
	if clientContentType != "" {
		if err := validation.ValidateClientContentType(clientContentType); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Info("Processing upload", "source", source, "filename", fileHeader.Filename, "detectedType", detectedContentType)

	rows, err := h.service.ImportTransactions(r.Context(), sessionID, source, file)
	if err != nil {
		sendServiceError(w, r, "import file", err)
		return
	}

	utils.SendJSON(w, uploadResponse{
		SessionID: sessionID,
		Source:    source,
		Filename:  validation.CleanDescription(fileHeader.Filename),
		Rows:      rows,
	}, http.StatusOK)
}

func (h *ReconciliationHandler) HandleSetDeclaredReport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	var report models.DeclaredReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&report); err != nil {
		utils.SendJSONError(w, "Invalid declared report body", http.StatusBadRequest)
		return
	}
	if report.Period != "" {
		if err := validation.ValidatePeriod(report.Period); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.service.SetDeclaredReport(r.Context(), sessionID, report); err != nil {
		sendServiceError(w, r, "save declared report", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReconciliationHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	result, err := h.service.RunReconciliation(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, "run reconciliation", err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleGetResult serves the stored result with an ETag so polling clients get 304s.
func (h *ReconciliationHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context()).With("sessionID", sessionID)

	result, err := h.service.GetResult(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, "load result", err)
		return
	}

	currentETag, etagErr := utils.GenerateETag(result)
	if etagErr != nil {
		log.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	} else {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		if utils.ETagMatches(r.Header.Get("If-None-Match"), quotedETag) {
			log.Debug("ETag match for reconciliation result", "etag", currentETag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *ReconciliationHandler) HandleGetAnomalies(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	anomalies, err := h.service.GetAnomalies(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, "load anomalies", err)
		return
	}
	if anomalies == nil {
		anomalies = []models.DetectedAnomaly{}
	}
	utils.SendJSON(w, anomalies, http.StatusOK)
}

func (h *ReconciliationHandler) HandleGetReportLines(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(w, r)
	if !ok {
		return
	}
	lines, err := h.service.GetReportLines(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, "load report lines", err)
		return
	}
	utils.SendJSON(w, lines, http.StatusOK)
}
