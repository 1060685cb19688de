package services

import (
	"context"
	"log"
	"time"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
	"github.com/lifelink/blood-donation/request-service/internal/metrics"
)

// MatchingService finds donors eligible for a request by combining the blood
// compatibility table with a directory query. A directory failure degrades to
// zero candidates so request creation never fails on a downstream read.
type MatchingService struct {
	directory ports.DonorDirectory
	metrics   *metrics.Metrics
	timeout   time.Duration
}

var _ ports.Matcher = (*MatchingService)(nil)

func NewMatchingService(directory ports.DonorDirectory, m *metrics.Metrics, timeout time.Duration) *MatchingService {
	return &MatchingService{
		directory: directory,
		metrics:   m,
		timeout:   timeout,
	}
}

func (s *MatchingService) Match(ctx context.Context, req *domain.Request) ports.MatchResult {
	types := domain.CompatibleDonorTypes(req.BloodGroup)
	if len(types) == 0 {
		return ports.MatchResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The requester's own donor profile must never be matched.
	candidates, err := s.directory.FindAvailable(ctx, types, req.RequesterID)
	if err != nil {
		log.Printf("matching: donor directory lookup failed for request %s: %v", req.ID, err)
		s.metrics.IncDirectoryDegraded()
		return ports.MatchResult{Degraded: true}
	}

	return ports.MatchResult{Candidates: candidates}
}
