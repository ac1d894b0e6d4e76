package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

var (
	ErrAcquiredGone     = errors.New("acquired backlink not found")
	ErrOpportunityGone  = errors.New("opportunity not found")
	ErrSourceURLMissing = errors.New("source url is required")
)

type RecordAcquiredRequest struct {
	OpportunityID *uuid.UUID `json:"opportunity_id,omitempty"`
	SourceURL     string     `json:"source_url"`
	TargetURL     string     `json:"target_url"`
	AnchorText    string     `json:"anchor_text"`
	Authority     int        `json:"authority"`
}

// RecordAcquired stores a backlink the operator secured. When it references
// an opportunity, that opportunity moves to its terminal secured state.
func (s *Service) RecordAcquired(ctx context.Context, websiteID uuid.UUID, req *RecordAcquiredRequest) (*storage.AcquiredBacklink, error) {
	if req.SourceURL == "" {
		return nil, ErrSourceURLMissing
	}

	if req.OpportunityID != nil {
		opp, err := s.opportunities.GetByID(ctx, *req.OpportunityID)
		if err != nil {
			return nil, err
		}
		if opp == nil {
			return nil, ErrOpportunityGone
		}
		if opp.Status.CanTransitionTo(storage.StatusSecured) {
			if err := s.opportunities.UpdateStatus(ctx, opp.ID, storage.StatusSecured, nil); err != nil {
				return nil, fmt.Errorf("mark opportunity secured: %w", err)
			}
		}
	}

	acquired := &storage.AcquiredBacklink{
		ID:            uuid.New(),
		WebsiteID:     websiteID,
		OpportunityID: req.OpportunityID,
		SourceDomain:  providers.NormalizeDomain(req.SourceURL),
		SourceURL:     req.SourceURL,
		TargetURL:     req.TargetURL,
		AnchorText:    req.AnchorText,
		Authority:     req.Authority,
		IsActive:      true,
	}
	if err := s.acquired.Create(ctx, acquired); err != nil {
		return nil, err
	}
	return acquired, nil
}

// VerificationResult is one point-in-time liveness check of an acquired
// backlink. It refreshes the verification fields without mutating history.
type VerificationResult struct {
	ID         uuid.UUID `json:"id"`
	IsActive   bool      `json:"is_active"`
	StatusCode *int      `json:"status_code,omitempty"`
}

// VerifyAcquired fetches the page hosting the acquired link and records
// whether it still responds.
func (s *Service) VerifyAcquired(ctx context.Context, id uuid.UUID) (*VerificationResult, error) {
	acquired, err := s.acquired.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acquired == nil {
		return nil, ErrAcquiredGone
	}

	isActive := false
	var statusCode *int

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, acquired.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	resp, err := s.verifier.Do(req)
	if err != nil {
		s.logger.Warn(ctx, "verification fetch failed", "acquired_id", id.String(), "error", err.Error())
	} else {
		resp.Body.Close()
		code := resp.StatusCode
		statusCode = &code
		isActive = code >= 200 && code < 400
	}

	verifiedAt := s.now()
	if err := s.acquired.RecordVerification(ctx, id, isActive, statusCode, verifiedAt); err != nil {
		return nil, err
	}

	return &VerificationResult{ID: id, IsActive: isActive, StatusCode: statusCode}, nil
}

func (s *Service) ListAcquired(ctx context.Context, websiteID uuid.UUID) ([]*storage.AcquiredBacklink, error) {
	return s.acquired.ListByWebsite(ctx, websiteID)
}
