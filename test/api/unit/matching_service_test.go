// Package unit contains unit tests for the core services. Each service is
// exercised against the in-memory mocks from test/mocks, so every scenario
// runs without postgres, redis or rabbitmq.
package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/services"
	"github.com/lifelink/blood-donation/request-service/test/mocks"
)

func abPlusRequest() *domain.Request {
	return &domain.Request{
		ID:          "req-1",
		RequesterID: "user-requester",
		BloodGroup:  domain.ABPositive,
		Status:      domain.StatusPending,
	}
}

// TestMatchingService_Match covers the reference scenario: a patient needing
// AB+ with a directory of {O-, A+, B+, AB+, unavailable O+} plus the
// requester's own O+ profile. Everyone but the unavailable donor and the
// requester matches.
func TestMatchingService_Match(t *testing.T) {
	directory := mocks.NewMockDonorDirectory()
	directory.SeedDonor(domain.DonorCandidate{ID: "d1", UserID: "u1", Name: "Donor One", Email: "one@example.com", BloodGroup: domain.ONegative, Available: true})
	directory.SeedDonor(domain.DonorCandidate{ID: "d2", UserID: "u2", Name: "Donor Two", Email: "two@example.com", BloodGroup: domain.APositive, Available: true})
	directory.SeedDonor(domain.DonorCandidate{ID: "d3", UserID: "u3", Name: "Donor Three", Email: "three@example.com", BloodGroup: domain.BPositive, Available: true})
	directory.SeedDonor(domain.DonorCandidate{ID: "d4", UserID: "u4", Name: "Donor Four", Email: "four@example.com", BloodGroup: domain.ABPositive, Available: true})
	directory.SeedDonor(domain.DonorCandidate{ID: "d5", UserID: "u5", Name: "Donor Five", Email: "five@example.com", BloodGroup: domain.OPositive, Available: false})
	// The requester is a registered O+ donor and must never match themselves.
	directory.SeedDonor(domain.DonorCandidate{ID: "d6", UserID: "user-requester", Name: "Self", Email: "self@example.com", BloodGroup: domain.OPositive, Available: true})

	service := services.NewMatchingService(directory, nil, time.Second)
	result := service.Match(context.Background(), abPlusRequest())

	if result.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if len(result.Candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d: %v", len(result.Candidates), result.Candidates)
	}
	for _, c := range result.Candidates {
		if c.UserID == "user-requester" {
			t.Error("requester's own donor profile was matched")
		}
		if !c.Available {
			t.Errorf("unavailable donor %s was matched", c.ID)
		}
	}
}

func TestMatchingService_DirectoryUnreachable(t *testing.T) {
	directory := mocks.NewMockDonorDirectory()
	directory.FindAvailableError = errors.New("connection refused")

	service := services.NewMatchingService(directory, nil, time.Second)
	result := service.Match(context.Background(), abPlusRequest())

	if !result.Degraded {
		t.Error("expected degraded result when directory is unreachable")
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected zero candidates, got %d", len(result.Candidates))
	}
}

func TestMatchingService_UnknownBloodGroup(t *testing.T) {
	directory := mocks.NewMockDonorDirectory()
	service := services.NewMatchingService(directory, nil, time.Second)

	req := abPlusRequest()
	req.BloodGroup = "??"
	result := service.Match(context.Background(), req)

	if result.Degraded || len(result.Candidates) != 0 {
		t.Errorf("expected genuinely empty match, got %+v", result)
	}
	// An empty compatible set short-circuits before the directory query.
	if len(directory.FindAvailableCalls) != 0 {
		t.Errorf("expected no directory call, got %d", len(directory.FindAvailableCalls))
	}
}
