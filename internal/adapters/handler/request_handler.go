package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lifelink/blood-donation/request-service/internal/adapters/middleware"
	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

type CreateRequestResponse struct {
	Request     *domain.Request `json:"request"`
	DonorsFound int             `json:"donors_found"`
	Message     string          `json:"message"`
}

type ListRequestsResponse struct {
	Count    int              `json:"count"`
	Requests []domain.Request `json:"requests"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.NewRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	requesterID := middleware.UserID(r.Context())
	req, donorsFound, err := h.service.CreateRequest(r.Context(), in, requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateRequestResponse{
		Request:     req,
		DonorsFound: donorsFound,
		Message:     "Request created. Compatible donors are being notified.",
	})
}

// List returns active requests (everything except completed). Optional query
// filters: status, emergency.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.RequestFilter{ExcludeCompleted: true}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		filter.Status = &status
		filter.ExcludeCompleted = false
	}
	if raw := r.URL.Query().Get("emergency"); raw != "" {
		emergency := raw == "true"
		filter.IsEmergency = &emergency
	}

	h.list(w, r, filter)
}

// ListCompleted returns completed requests only.
func (h *RequestHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	status := domain.StatusCompleted
	h.list(w, r, domain.RequestFilter{Status: &status})
}

func (h *RequestHandler) list(w http.ResponseWriter, r *http.Request, filter domain.RequestFilter) {
	requests, err := h.service.ListRequests(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, ListRequestsResponse{
		Count:    len(requests),
		Requests: requests,
	})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.GetRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Accept is the donor action: transition a pending request to accepted,
// assigning the caller's donor profile.
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.StatusAccepted)
}

// UpdateStatus applies a generic lifecycle transition.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	target, ok := domain.ParseStatus(body.Status)
	if !ok {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	h.transition(w, r, target)
}

func (h *RequestHandler) transition(w http.ResponseWriter, r *http.Request, target domain.Status) {
	callerID := middleware.UserID(r.Context())
	req, err := h.service.Transition(r.Context(), r.PathValue("id"), target, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserID(r.Context())
	if err := h.service.DeleteRequest(r.Context(), r.PathValue("id"), callerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// writeError translates domain errors into HTTP status codes. Authorization
// and state errors carry their reason to the caller; anything unrecognized is
// a service fault.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotRequester),
		errors.Is(err, domain.ErrNotAssignedDonor),
		errors.Is(err, domain.ErrNoDonorProfile):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrIneligibleDonor):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrAlreadyFinalized),
		errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("Request handler error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
