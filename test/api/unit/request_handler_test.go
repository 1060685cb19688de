package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lifelink/blood-donation/request-service/internal/adapters/handler"
	"github.com/lifelink/blood-donation/request-service/internal/adapters/middleware"
	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/test/mocks"
)

// withCaller injects the identity the auth middleware would have extracted
// from the trust token.
func withCaller(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestRequestHandler_Create(t *testing.T) {
	service := &mocks.MockRequestService{
		CreateFunc: func(ctx context.Context, in domain.NewRequestInput, requesterID string) (*domain.Request, int, error) {
			if requesterID != "user-1" {
				t.Errorf("expected requester user-1, got %q", requesterID)
			}
			return &domain.Request{ID: "req-1", RequesterID: requesterID, Status: domain.StatusPending}, 3, nil
		},
	}
	h := handler.NewRequestHandler(service)

	body := `{"patient_name":"Jane","blood_group":"AB+","units":2,"hospital_name":"City","location":"Main St","contact_number":"123","needed_date":"2026-09-10T00:00:00Z"}`
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.CreateRequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DonorsFound != 3 {
		t.Errorf("expected donors_found 3, got %d", resp.DonorsFound)
	}
	if resp.Request == nil || resp.Request.ID != "req-1" {
		t.Errorf("unexpected request in response: %+v", resp.Request)
	}
}

func TestRequestHandler_Create_InvalidBody(t *testing.T) {
	h := handler.NewRequestHandler(&mocks.MockRequestService{})

	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader("{not json")), "user-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRequestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not_found", domain.ErrNotFound, http.StatusNotFound},
		{"not_requester", domain.ErrNotRequester, http.StatusForbidden},
		{"not_assigned_donor", domain.ErrNotAssignedDonor, http.StatusForbidden},
		{"no_donor_profile", domain.ErrNoDonorProfile, http.StatusForbidden},
		{"ineligible_donor", domain.ErrIneligibleDonor, http.StatusUnprocessableEntity},
		{"not_pending", domain.ErrNotPending, http.StatusConflict},
		{"already_finalized", domain.ErrAlreadyFinalized, http.StatusConflict},
		{"invalid_transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"directory_down", domain.ErrDirectoryUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mocks.MockRequestService{
				TransitionFunc: func(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error) {
					return nil, tt.err
				},
			}
			h := handler.NewRequestHandler(service)

			req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/v1/requests/req-1/accept", nil), "user-1")
			req.SetPathValue("id", "req-1")
			rec := httptest.NewRecorder()

			h.Accept(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestRequestHandler_UpdateStatus(t *testing.T) {
	service := &mocks.MockRequestService{
		TransitionFunc: func(ctx context.Context, id string, target domain.Status, callerID string) (*domain.Request, error) {
			if target != domain.StatusCancelled {
				t.Errorf("expected cancelled target, got %s", target)
			}
			return &domain.Request{ID: id, Status: target}, nil
		},
	}
	h := handler.NewRequestHandler(service)

	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/v1/requests/req-1/status", strings.NewReader(`{"status":"cancelled"}`)), "user-1")
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequestHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	h := handler.NewRequestHandler(&mocks.MockRequestService{})

	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/v1/requests/req-1/status", strings.NewReader(`{"status":"parked"}`)), "user-1")
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRequestHandler_List_StatusFilter(t *testing.T) {
	var gotFilter domain.RequestFilter
	service := &mocks.MockRequestService{
		ListFunc: func(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	h := handler.NewRequestHandler(service)

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/requests?status=pending&emergency=true", nil), "user-1")
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotFilter.Status == nil || *gotFilter.Status != domain.StatusPending {
		t.Errorf("expected pending status filter, got %+v", gotFilter.Status)
	}
	if gotFilter.IsEmergency == nil || !*gotFilter.IsEmergency {
		t.Errorf("expected emergency filter, got %+v", gotFilter.IsEmergency)
	}

	var resp handler.ListRequestsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 0 || resp.Requests == nil {
		t.Errorf("expected empty but non-nil requests array, got %+v", resp)
	}
}

func TestRequestHandler_Delete(t *testing.T) {
	service := &mocks.MockRequestService{
		DeleteFunc: func(ctx context.Context, id, callerID string) error {
			if id != "req-1" || callerID != "user-1" {
				t.Errorf("unexpected args: id=%q caller=%q", id, callerID)
			}
			return nil
		},
	}
	h := handler.NewRequestHandler(service)

	req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/v1/requests/req-1", nil), "user-1")
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
