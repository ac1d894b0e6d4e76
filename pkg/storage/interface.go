package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OpportunityStorage persists discovery results and their outreach lifecycle.
type OpportunityStorage interface {
	// Upsert inserts opp keyed by (website_id, source_domain). On conflict the
	// scoring fields are refreshed but a non-null campaign link and any status
	// other than discovered are preserved. Returns the stored row.
	Upsert(ctx context.Context, opp *Opportunity) (*Opportunity, error)
	UpsertTx(ctx context.Context, tx pgx.Tx, opp *Opportunity) (*Opportunity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	ListByWebsite(ctx context.Context, websiteID uuid.UUID, status *OpportunityStatus) ([]*Opportunity, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status OpportunityStatus, notes *string) error
	CountByWebsite(ctx context.Context, websiteID uuid.UUID) (int, error)
}

// CampaignStorage persists named opportunity groupings.
type CampaignStorage interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*Campaign, error)
}

// BacklinkStorage persists monitored inbound links and monitoring runs.
type BacklinkStorage interface {
	// UpsertObserved inserts or refreshes one observed link keyed by
	// (website_id, referring_url, target_url) and tags it with checkID.
	// Returns true when the row was newly inserted.
	UpsertObserved(ctx context.Context, b *Backlink) (bool, error)
	// MarkLost flips to lost every active row for the website whose latest
	// check tag is not checkID, returning the number of rows flipped.
	MarkLost(ctx context.Context, websiteID, checkID uuid.UUID) (int, error)
	ListActive(ctx context.Context, websiteID uuid.UUID) ([]*Backlink, error)

	CreateCheck(ctx context.Context, check *BacklinkCheck) error
	FinalizeCheck(ctx context.Context, check *BacklinkCheck) error
	FailCheck(ctx context.Context, checkID uuid.UUID, errMsg string) error
	ListChecks(ctx context.Context, websiteID uuid.UUID, since time.Time) ([]*BacklinkCheck, error)
}

// AcquiredStorage persists operator-tracked backlinks and their verification
// results.
type AcquiredStorage interface {
	Create(ctx context.Context, a *AcquiredBacklink) error
	GetByID(ctx context.Context, id uuid.UUID) (*AcquiredBacklink, error)
	ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*AcquiredBacklink, error)
	RecordVerification(ctx context.Context, id uuid.UUID, isActive bool, statusCode *int, verifiedAt time.Time) error
}
