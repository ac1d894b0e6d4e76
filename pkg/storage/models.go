package storage

import (
	"time"

	"github.com/google/uuid"
)

// OpportunityType classifies how a candidate link source could be acquired.
type OpportunityType string

const (
	TypeGuestPost    OpportunityType = "guest_post"
	TypeResourcePage OpportunityType = "resource_page"
	TypeBrokenLink   OpportunityType = "broken_link"
	TypeDirectory    OpportunityType = "directory"
	TypeForum        OpportunityType = "forum"
)

func (t OpportunityType) Valid() bool {
	switch t {
	case TypeGuestPost, TypeResourcePage, TypeBrokenLink, TypeDirectory, TypeForum:
		return true
	}
	return false
}

// OpportunityStatus is the outreach lifecycle state of an opportunity.
// secured and rejected are terminal.
type OpportunityStatus string

const (
	StatusDiscovered OpportunityStatus = "discovered"
	StatusContacted  OpportunityStatus = "contacted"
	StatusPending    OpportunityStatus = "pending"
	StatusSecured    OpportunityStatus = "secured"
	StatusRejected   OpportunityStatus = "rejected"
)

func (s OpportunityStatus) Valid() bool {
	switch s {
	case StatusDiscovered, StatusContacted, StatusPending, StatusSecured, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
func (s OpportunityStatus) Terminal() bool {
	return s == StatusSecured || s == StatusRejected
}

// CanTransitionTo reports whether the status machine allows s -> next.
func (s OpportunityStatus) CanTransitionTo(next OpportunityStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	switch s {
	case StatusDiscovered:
		return next == StatusContacted || next == StatusPending || next == StatusSecured || next == StatusRejected
	case StatusContacted:
		return next == StatusPending || next == StatusSecured || next == StatusRejected
	case StatusPending:
		return next == StatusContacted || next == StatusSecured || next == StatusRejected
	}
	return false
}

// DataSource tags whether a row was derived from real provider data or from
// a heuristic fallback.
type DataSource string

const (
	SourceReal      DataSource = "real"
	SourceHeuristic DataSource = "heuristic"
)

// BacklinkStatus is the observed state of a monitored inbound link.
type BacklinkStatus string

const (
	BacklinkActive BacklinkStatus = "active"
	BacklinkLost   BacklinkStatus = "lost"
)

// CheckStatus is the run state of one monitoring check.
type CheckStatus string

const (
	CheckInProgress CheckStatus = "in_progress"
	CheckCompleted  CheckStatus = "completed"
	CheckFailed     CheckStatus = "failed"
)

// Opportunity is a candidate link source for one target website.
// Unique per (website_id, source_domain).
type Opportunity struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	WebsiteID       uuid.UUID         `json:"website_id" db:"website_id"`
	CampaignID      *uuid.UUID        `json:"campaign_id,omitempty" db:"campaign_id"`
	SourceURL       string            `json:"source_url" db:"source_url"`
	SourceDomain    string            `json:"source_domain" db:"source_domain"`
	DomainAuthority int               `json:"domain_authority" db:"domain_authority"`
	PageAuthority   int               `json:"page_authority" db:"page_authority"`
	SpamScore       int               `json:"spam_score" db:"spam_score"`
	Type            OpportunityType   `json:"type" db:"type"`
	RelevanceScore  int               `json:"relevance_score" db:"relevance_score"`
	DifficultyScore int               `json:"difficulty_score" db:"difficulty_score"`
	Score           float64           `json:"score" db:"score"`
	ContactInfo     *string           `json:"contact_info,omitempty" db:"contact_info"`
	Status          OpportunityStatus `json:"status" db:"status"`
	DataSource      DataSource        `json:"data_source" db:"data_source"`
	Notes           *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// Campaign groups opportunities toward a target count of one type.
type Campaign struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	WebsiteID   uuid.UUID       `json:"website_id" db:"website_id"`
	Name        string          `json:"name" db:"name"`
	TargetType  OpportunityType `json:"target_type" db:"target_type"`
	TargetCount int             `json:"target_count" db:"target_count"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Backlink is one inbound link instance observed by monitoring.
// Unique per (website_id, referring_url, target_url). Never deleted; lost
// links keep their history.
type Backlink struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	WebsiteID       uuid.UUID      `json:"website_id" db:"website_id"`
	CheckID         uuid.UUID      `json:"check_id" db:"check_id"`
	ReferringURL    string         `json:"referring_url" db:"referring_url"`
	ReferringDomain string         `json:"referring_domain" db:"referring_domain"`
	TargetURL       string         `json:"target_url" db:"target_url"`
	AnchorText      string         `json:"anchor_text" db:"anchor_text"`
	IsDofollow      bool           `json:"is_dofollow" db:"is_dofollow"`
	Authority       int            `json:"authority" db:"authority"`
	Status          BacklinkStatus `json:"status" db:"status"`
	DataSource      DataSource     `json:"data_source" db:"data_source"`
	FirstObserved   time.Time      `json:"first_observed" db:"first_observed"`
	LastObserved    time.Time      `json:"last_observed" db:"last_observed"`
}

// BacklinkCheck is one monitoring run with its derived summary counters.
// Immutable once completed.
type BacklinkCheck struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	WebsiteID        uuid.UUID   `json:"website_id" db:"website_id"`
	Status           CheckStatus `json:"status" db:"status"`
	TotalActive      int         `json:"total_active" db:"total_active"`
	NewBacklinks     int         `json:"new_backlinks" db:"new_backlinks"`
	LostBacklinks    int         `json:"lost_backlinks" db:"lost_backlinks"`
	ReferringDomains int         `json:"referring_domains" db:"referring_domains"`
	DofollowCount    int         `json:"dofollow_count" db:"dofollow_count"`
	AvgAuthority     float64     `json:"avg_authority" db:"avg_authority"`
	ErrorMessage     *string     `json:"error_message,omitempty" db:"error_message"`
	StartedAt        time.Time   `json:"started_at" db:"started_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// AcquiredBacklink is a backlink the operator actively pursued and tracks
// for health, optionally referencing the opportunity that produced it.
type AcquiredBacklink struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	WebsiteID      uuid.UUID  `json:"website_id" db:"website_id"`
	OpportunityID  *uuid.UUID `json:"opportunity_id,omitempty" db:"opportunity_id"`
	SourceDomain   string     `json:"source_domain" db:"source_domain"`
	SourceURL      string     `json:"source_url" db:"source_url"`
	TargetURL      string     `json:"target_url" db:"target_url"`
	AnchorText     string     `json:"anchor_text" db:"anchor_text"`
	Authority      int        `json:"authority" db:"authority"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	LastVerifiedAt *time.Time `json:"last_verified_at,omitempty" db:"last_verified_at"`
	LastStatusCode *int       `json:"last_status_code,omitempty" db:"last_status_code"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
