package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

var (
	ErrNoKeywords        = errors.New("at least one keyword is required")
	ErrInvalidType       = errors.New("invalid opportunity type")
	ErrInvalidStatus     = errors.New("invalid opportunity status")
	ErrOpportunityGone   = errors.New("opportunity not found")
	ErrCampaignGone      = errors.New("campaign not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// txBeginner is the subset of *pgxpool.Pool the service needs to persist a
// discovery run atomically.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service runs the discovery pipeline end to end: aggregate, deduplicate,
// score, filter, persist.
type Service struct {
	opportunities storage.OpportunityStorage
	campaigns     storage.CampaignStorage
	aggregator    *Aggregator
	pool          txBeginner
	logger        *logging.Logger
}

// NewService wires the discovery pipeline. pool may be nil, in which case each
// opportunity is upserted in its own implicit transaction.
func NewService(opportunities storage.OpportunityStorage, campaigns storage.CampaignStorage, aggregator *Aggregator, pool txBeginner, logger *logging.Logger) *Service {
	return &Service{
		opportunities: opportunities,
		campaigns:     campaigns,
		aggregator:    aggregator,
		pool:          pool,
		logger:        logger,
	}
}

type DiscoverRequest struct {
	TargetDomain string                   `json:"target_domain"`
	Keywords     []string                 `json:"keywords"`
	Type         *storage.OpportunityType `json:"type,omitempty"`
	Band         *Band                    `json:"band,omitempty"`
	CampaignID   *uuid.UUID               `json:"campaign_id,omitempty"`
}

// DiscoverOpportunities gathers, scores, filters and persists candidates for
// one website. Provider failures inside the run degrade to heuristics;
// validation failures abort before anything is persisted.
func (s *Service) DiscoverOpportunities(ctx context.Context, websiteID uuid.UUID, req *DiscoverRequest) ([]*storage.Opportunity, error) {
	if len(req.Keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if req.Type != nil && !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	band := DefaultBand()
	if req.Band != nil {
		band = *req.Band
		if err := band.Validate(); err != nil {
			return nil, err
		}
	}

	if req.CampaignID != nil {
		campaign, err := s.campaigns.GetByID(ctx, *req.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrCampaignGone
		}
	}

	raw, err := s.aggregator.Gather(ctx, req.TargetDomain, req.Keywords)
	if err != nil {
		return nil, fmt.Errorf("gather candidates: %w", err)
	}

	selected := Filter(ScoreAll(Deduplicate(raw)), band, req.Type)

	// Persist the whole run in one transaction so a mid-run failure never
	// leaves a partial batch behind.
	upsert := s.opportunities.Upsert
	var tx pgx.Tx
	if s.pool != nil {
		tx, err = s.pool.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin discovery batch: %w", err)
		}
		defer tx.Rollback(ctx)
		upsert = func(ctx context.Context, opp *storage.Opportunity) (*storage.Opportunity, error) {
			return s.opportunities.UpsertTx(ctx, tx, opp)
		}
	}

	persisted := make([]*storage.Opportunity, 0, len(selected))
	for _, sel := range selected {
		opp := &storage.Opportunity{
			ID:              uuid.New(),
			WebsiteID:       websiteID,
			CampaignID:      req.CampaignID,
			SourceURL:       sel.SourceURL,
			SourceDomain:    sel.SourceDomain,
			DomainAuthority: sel.Authority,
			PageAuthority:   sel.PageAuthority,
			SpamScore:       sel.Spam,
			Type:            sel.Type,
			RelevanceScore:  sel.Relevance,
			DifficultyScore: sel.Difficulty,
			Score:           sel.Score,
			Status:          storage.StatusDiscovered,
			DataSource:      sel.DataSource,
		}

		stored, err := upsert(ctx, opp)
		if err != nil {
			return nil, fmt.Errorf("persist opportunity %s: %w", sel.SourceDomain, err)
		}
		persisted = append(persisted, stored)
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit discovery batch: %w", err)
		}
	}

	s.logger.LogDiscoveryRun(ctx, websiteID.String(), len(req.Keywords), len(raw), len(persisted))
	return persisted, nil
}

func (s *Service) ListOpportunities(ctx context.Context, websiteID uuid.UUID, status *storage.OpportunityStatus) ([]*storage.Opportunity, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.opportunities.ListByWebsite(ctx, websiteID, status)
}

// UpdateOpportunityStatus applies a manual state-machine transition.
// Transitions out of terminal states are rejected.
func (s *Service) UpdateOpportunityStatus(ctx context.Context, id uuid.UUID, status storage.OpportunityStatus, notes *string) (*storage.Opportunity, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, ErrOpportunityGone
	}

	if !opp.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, opp.Status, status)
	}

	if err := s.opportunities.UpdateStatus(ctx, id, status, notes); err != nil {
		return nil, err
	}

	opp.Status = status
	if notes != nil {
		opp.Notes = notes
	}
	return opp, nil
}

type CreateCampaignRequest struct {
	Name        string                  `json:"name"`
	TargetType  storage.OpportunityType `json:"target_type"`
	TargetCount int                     `json:"target_count"`
}

func (s *Service) CreateCampaign(ctx context.Context, websiteID uuid.UUID, req *CreateCampaignRequest) (*storage.Campaign, error) {
	if req.Name == "" {
		return nil, errors.New("campaign name is required")
	}
	if !req.TargetType.Valid() {
		return nil, ErrInvalidType
	}
	if req.TargetCount <= 0 {
		return nil, errors.New("target count must be positive")
	}

	campaign := &storage.Campaign{
		ID:          uuid.New(),
		WebsiteID:   websiteID,
		Name:        req.Name,
		TargetType:  req.TargetType,
		TargetCount: req.TargetCount,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *Service) ListCampaigns(ctx context.Context, websiteID uuid.UUID) ([]*storage.Campaign, error) {
	return s.campaigns.ListByWebsite(ctx, websiteID)
}
