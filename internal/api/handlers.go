// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"

	"github.com/go-chi/chi/v5"
)

const maxPatchBytes = 64 << 10

// EventHistory reads back the audit trail; optional.
type EventHistory interface {
	Recent(ctx context.Context, userID, flow string, limit int) ([]models.WizardEvent, error)
}

// WizardHandler serves the wizard endpoints for every registered flow.
type WizardHandler struct {
	registry       *Registry
	history        EventHistory
	errors         *apperrors.ErrorHandler
	maxUploadBytes int64
	logger         logger.Logger
}

// NewWizardHandler wires the handler; history may be nil.
func NewWizardHandler(registry *Registry, history EventHistory, maxUploadBytes int64, log logger.Logger) *WizardHandler {
	return &WizardHandler{
		registry:       registry,
		history:        history,
		errors:         apperrors.NewErrorHandler(log),
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

type openResponse struct {
	Resumed bool        `json:"resumed"`
	View    interface{} `json:"view"`
}

type navResponse struct {
	Moved bool        `json:"moved"`
	View  interface{} `json:"view"`
}

type submitResponse struct {
	Submitted bool        `json:"submitted"`
	View      interface{} `json:"view"`
}

type fieldRequest struct {
	Field string `json:"field"`
}

type fieldResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid bool        `json:"valid"`
	View  interface{} `json:"view"`
}

// Open handles POST /api/v1/wizards/{flow}: mount or return the session.
func (h *WizardHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}
	wz, resumed, err := h.registry.Open(r.Context(), chi.URLParam(r, "flow"), id)
	if err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, openResponse{Resumed: resumed, View: wz.View()})
}

// Get handles GET /api/v1/wizards/{flow}.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, wz.View())
}

// Cancel handles DELETE /api/v1/wizards/{flow}. The draft survives.
func (h *WizardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r)
	if err := h.registry.Close(r.Context(), chi.URLParam(r, "flow"), id.UserID); err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSection handles PATCH /api/v1/wizards/{flow}/sections/{section}.
func (h *WizardHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	section := chi.URLParam(r, "section")
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBytes))
	if err != nil {
		h.errors.HandleHTTPError(w, r, apperrors.NewInvalidPatchError(section, err.Error()))
		return
	}
	if err := wz.Patch(section, raw); err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, wz.View())
}

// Blur handles POST /api/v1/wizards/{flow}/blur.
func (h *WizardHandler) Blur(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPatchBytes)).Decode(&req); err != nil || req.Field == "" {
		WriteJSONError(w, http.StatusBadRequest, "field is required")
		return
	}
	RespondWithJSON(w, http.StatusOK, fieldResponse{Field: req.Field, Message: wz.Blur(req.Field)})
}

// Validate handles POST /api/v1/wizards/{flow}/validate: every rule of the
// current screen.
func (h *WizardHandler) Validate(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	valid := wz.ValidateScreen()
	RespondWithJSON(w, http.StatusOK, validateResponse{Valid: valid, View: wz.View()})
}

// Attach handles POST /api/v1/wizards/{flow}/attachments/{field} with a
// multipart "file" part.
func (h *WizardHandler) Attach(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errors.HandleHTTPError(w, r, apperrors.NewAttachmentRejectedError(field, "File is too large or malformed"))
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		h.errors.HandleHTTPError(w, r, apperrors.NewAttachmentRejectedError(field, "Please choose a file"))
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		h.errors.HandleHTTPError(w, r, apperrors.NewAttachmentRejectedError(field, "File could not be read"))
		return
	}

	msg, err := wz.Attach(r.Context(), field, models.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}
	if msg != "" {
		h.errors.HandleHTTPError(w, r, apperrors.NewAttachmentRejectedError(field, msg))
		return
	}
	RespondWithJSON(w, http.StatusOK, wz.View())
}

// Next handles POST /api/v1/wizards/{flow}/next.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	moved := wz.Next(r.Context())
	RespondWithJSON(w, http.StatusOK, navResponse{Moved: moved, View: wz.View()})
}

// Back handles POST /api/v1/wizards/{flow}/back.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	moved := wz.Back(r.Context())
	RespondWithJSON(w, http.StatusOK, navResponse{Moved: moved, View: wz.View()})
}

// Save handles POST /api/v1/wizards/{flow}/save.
func (h *WizardHandler) Save(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := wz.Save(r.Context()); err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/v1/wizards/{flow}/submit. A refused or failed
// submission is not an HTTP error; the view carries the message.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.session(w, r)
	if !ok {
		return
	}
	submitted := wz.Submit(r.Context())
	RespondWithJSON(w, http.StatusOK, submitResponse{Submitted: submitted, View: wz.View()})
}

// Events handles GET /api/v1/wizards/{flow}/events?limit=N.
func (h *WizardHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		WriteJSONError(w, http.StatusNotFound, "Audit trail is not enabled")
		return
	}
	id, _ := identityFrom(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.history.Recent(r.Context(), id.UserID, chi.URLParam(r, "flow"), limit)
	if err != nil {
		h.errors.HandleHTTPError(w, r, apperrors.NewExternalServiceError("postgres", err))
		return
	}
	if events == nil {
		events = []models.WizardEvent{}
	}
	RespondWithJSON(w, http.StatusOK, events)
}

func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) (Wizard, bool) {
	id, _ := identityFrom(r)
	wz, err := h.registry.Get(chi.URLParam(r, "flow"), id.UserID)
	if err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return nil, false
	}
	return wz, true
}

func identityFrom(r *http.Request) (models.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(models.Identity)
	return id, ok && id.UserID != ""
}

// RespondWithJSON writes payload with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes an error body for failures that never reach a session.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, map[string]string{"message": message})
}
