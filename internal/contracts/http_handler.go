package contracts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/auth"
	"github.com/israelwong/zenly-studio-sub011/internal/domain"
	"github.com/israelwong/zenly-studio-sub011/internal/notify"
)

// Handler exposes the lifecycle operations over HTTP. Every response uses
// the uniform {success, data|error} envelope.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.With(zap.String("handler", "contracts"))}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case strings.HasPrefix(path, "/contracts"):
		h.serveContracts(w, r, strings.TrimPrefix(path, "/contracts"))
	case strings.HasPrefix(path, "/templates"):
		h.serveTemplates(w, r, strings.TrimPrefix(path, "/templates"))
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown route")
	}
}

func (h *Handler) serveContracts(w http.ResponseWriter, r *http.Request, rest string) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	parts := splitPath(rest)
	switch {
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "generate":
		h.handleGenerate(w, r, ownerID)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.withContractID(w, parts[0], func(id uuid.UUID) (any, error) {
			return h.service.Get(r.Context(), ownerID, id)
		})
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.withContractID(w, parts[0], func(id uuid.UUID) (any, error) {
			return nil, h.service.Delete(r.Context(), ownerID, id)
		})
	case len(parts) == 2 && r.Method == http.MethodGet && parts[1] == "versions":
		h.withContractID(w, parts[0], func(id uuid.UUID) (any, error) {
			return h.service.Versions(r.Context(), ownerID, id)
		})
	case len(parts) == 2 && r.Method == http.MethodPost:
		h.handleContractAction(w, r, ownerID, parts[0], parts[1])
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown contract route")
	}
}

type generatePayload struct {
	EventID    string  `json:"event_id"`
	TemplateID *string `json:"template_id"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request, ownerID uuid.UUID) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid payload: "+err.Error())
		return
	}
	eventID, err := uuid.Parse(payload.EventID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid event_id")
		return
	}
	var templateID *uuid.UUID
	if payload.TemplateID != nil {
		id, err := uuid.Parse(*payload.TemplateID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template_id")
			return
		}
		templateID = &id
	}
	contract, err := h.service.Generate(r.Context(), ownerID, eventID, templateID)
	h.respond(w, contract, err)
}

type contractActionPayload struct {
	Content        string  `json:"content"`
	Reason         *string `json:"reason"`
	Author         *string `json:"author"`
	UpdateTemplate bool    `json:"update_template"`
	TemplateID     *string `json:"template_id"`
	SignatureRef   *string `json:"signature_ref"`
	Origin         string  `json:"origin"`
}

func (h *Handler) handleContractAction(w http.ResponseWriter, r *http.Request, ownerID uuid.UUID, rawID, action string) {
	contractID, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid contract id")
		return
	}
	var payload contractActionPayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid payload: "+err.Error())
			return
		}
	}

	switch action {
	case "edit":
		contract, err := h.service.Edit(r.Context(), ownerID, contractID, payload.Content, payload.Reason, payload.UpdateTemplate, payload.Author)
		h.respond(w, contract, err)
	case "regenerate":
		contract, err := h.service.Regenerate(r.Context(), ownerID, contractID, payload.Reason)
		h.respond(w, contract, err)
	case "swap-template":
		if payload.TemplateID == nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "template_id is required")
			return
		}
		templateID, err := uuid.Parse(*payload.TemplateID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template_id")
			return
		}
		contract, err := h.service.SwapTemplate(r.Context(), ownerID, contractID, templateID, payload.Reason)
		h.respond(w, contract, err)
	case "publish":
		contract, err := h.service.Publish(r.Context(), ownerID, contractID)
		h.respond(w, contract, err)
	case "sign":
		contract, err := h.service.Sign(r.Context(), ownerID, contractID, payload.SignatureRef)
		h.respond(w, contract, err)
	case "request-cancellation":
		contract, err := h.service.RequestCancellation(r.Context(), ownerID, contractID, notify.CancellationOrigin(payload.Origin))
		h.respond(w, contract, err)
	case "cancel":
		contract, err := h.service.ConfirmCancellation(r.Context(), ownerID, contractID)
		h.respond(w, contract, err)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown contract action")
	}
}

type templatePayload struct {
	Name        string  `json:"name"`
	Content     string  `json:"content"`
	EventTypeID *string `json:"event_type_id"`
	IsDefault   bool    `json:"is_default"`
	IsActive    *bool   `json:"is_active"`
}

func (h *Handler) serveTemplates(w http.ResponseWriter, r *http.Request, rest string) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	parts := splitPath(rest)

	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		templates, err := h.service.ListTemplates(r.Context(), ownerID)
		h.respond(w, templates, err)
	case len(parts) == 0 && r.Method == http.MethodPost:
		in, ok := h.templateInput(w, r)
		if !ok {
			return
		}
		template, err := h.service.CreateTemplate(r.Context(), ownerID, in)
		h.respond(w, template, err)
	case len(parts) == 1 && r.Method == http.MethodPut:
		templateID, err := uuid.Parse(parts[0])
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template id")
			return
		}
		in, ok := h.templateInput(w, r)
		if !ok {
			return
		}
		template, err := h.service.UpdateTemplate(r.Context(), ownerID, templateID, in)
		h.respond(w, template, err)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		templateID, err := uuid.Parse(parts[0])
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template id")
			return
		}
		h.respond(w, nil, h.service.DeleteTemplate(r.Context(), ownerID, templateID))
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown template route")
	}
}

func (h *Handler) templateInput(w http.ResponseWriter, r *http.Request) (TemplateInput, bool) {
	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid payload: "+err.Error())
		return TemplateInput{}, false
	}
	in := TemplateInput{
		Name:      payload.Name,
		Content:   payload.Content,
		IsDefault: payload.IsDefault,
		IsActive:  true,
	}
	if payload.IsActive != nil {
		in.IsActive = *payload.IsActive
	}
	if payload.EventTypeID != nil {
		id, err := uuid.Parse(*payload.EventTypeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid event_type_id")
			return TemplateInput{}, false
		}
		in.EventTypeID = &id
	}
	return in, true
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.StudioIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing or invalid "+auth.HeaderStudioID+" header")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) withContractID(w http.ResponseWriter, rawID string, fn func(uuid.UUID) (any, error)) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid contract id")
		return
	}
	data, err := fn(id)
	h.respond(w, data, err)
}

func (h *Handler) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		h.logger.Warn("operation failed", zap.Error(err))
		writeError(w, statusFor(err), domain.ErrorCode(err), publicMessage(err))
		return
	}
	writeData(w, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRender):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal details for unexpected failures; taxonomy
// errors carry caller-safe messages already.
func publicMessage(err error) string {
	if domain.ErrorCode(err) == "INTERNAL_ERROR" {
		return "internal error"
	}
	return err.Error()
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

func splitPath(rest string) []string {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
