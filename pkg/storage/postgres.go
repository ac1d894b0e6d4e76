package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresOpportunityStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresOpportunityStorage(pool *pgxpool.Pool) *PostgresOpportunityStorage {
	return &PostgresOpportunityStorage{pool: pool}
}

const opportunityColumns = `id, website_id, campaign_id, source_url, source_domain, domain_authority, page_authority, spam_score, type, relevance_score, difficulty_score, score, contact_info, status, data_source, notes, created_at, updated_at`

// A rediscovered opportunity refreshes its scoring fields but must not regress
// a human-driven status back to discovered, nor drop an existing campaign link.
const upsertOpportunityQuery = `INSERT INTO opportunities (id, website_id, campaign_id, source_url, source_domain, domain_authority, page_authority, spam_score, type, relevance_score, difficulty_score, score, contact_info, status, data_source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (website_id, source_domain) DO UPDATE SET
	source_url = EXCLUDED.source_url,
	domain_authority = EXCLUDED.domain_authority,
	page_authority = EXCLUDED.page_authority,
	spam_score = EXCLUDED.spam_score,
	type = EXCLUDED.type,
	relevance_score = EXCLUDED.relevance_score,
	difficulty_score = EXCLUDED.difficulty_score,
	score = EXCLUDED.score,
	data_source = EXCLUDED.data_source,
	campaign_id = COALESCE(opportunities.campaign_id, EXCLUDED.campaign_id),
	status = CASE WHEN opportunities.status = 'discovered' THEN EXCLUDED.status ELSE opportunities.status END,
	updated_at = now()
RETURNING ` + opportunityColumns

func scanOpportunity(row pgx.Row) (*Opportunity, error) {
	var o Opportunity
	err := row.Scan(&o.ID, &o.WebsiteID, &o.CampaignID, &o.SourceURL, &o.SourceDomain,
		&o.DomainAuthority, &o.PageAuthority, &o.SpamScore, &o.Type, &o.RelevanceScore,
		&o.DifficultyScore, &o.Score, &o.ContactInfo, &o.Status, &o.DataSource, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *PostgresOpportunityStorage) Upsert(ctx context.Context, opp *Opportunity) (*Opportunity, error) {
	row := s.pool.QueryRow(ctx, upsertOpportunityQuery,
		opp.ID, opp.WebsiteID, opp.CampaignID, opp.SourceURL, opp.SourceDomain,
		opp.DomainAuthority, opp.PageAuthority, opp.SpamScore, opp.Type,
		opp.RelevanceScore, opp.DifficultyScore, opp.Score, opp.ContactInfo,
		opp.Status, opp.DataSource)
	return scanOpportunity(row)
}

func (s *PostgresOpportunityStorage) UpsertTx(ctx context.Context, tx pgx.Tx, opp *Opportunity) (*Opportunity, error) {
	row := tx.QueryRow(ctx, upsertOpportunityQuery,
		opp.ID, opp.WebsiteID, opp.CampaignID, opp.SourceURL, opp.SourceDomain,
		opp.DomainAuthority, opp.PageAuthority, opp.SpamScore, opp.Type,
		opp.RelevanceScore, opp.DifficultyScore, opp.Score, opp.ContactInfo,
		opp.Status, opp.DataSource)
	return scanOpportunity(row)
}

func (s *PostgresOpportunityStorage) GetByID(ctx context.Context, id uuid.UUID) (*Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	return scanOpportunity(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresOpportunityStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID, status *OpportunityStatus) ([]*Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE website_id = $1`
	args := []any{websiteID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY score DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []*Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (s *PostgresOpportunityStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status OpportunityStatus, notes *string) error {
	query := `UPDATE opportunities SET status = $2, notes = COALESCE($3, notes), updated_at = now() WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id, status, notes)
	return err
}

func (s *PostgresOpportunityStorage) CountByWebsite(ctx context.Context, websiteID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM opportunities WHERE website_id = $1`, websiteID).Scan(&n)
	return n, err
}

type PostgresCampaignStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignStorage(pool *pgxpool.Pool) *PostgresCampaignStorage {
	return &PostgresCampaignStorage{pool: pool}
}

func (s *PostgresCampaignStorage) Create(ctx context.Context, c *Campaign) error {
	query := `INSERT INTO campaigns (id, website_id, name, target_type, target_count) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, query, c.ID, c.WebsiteID, c.Name, c.TargetType, c.TargetCount)
	return err
}

func (s *PostgresCampaignStorage) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	query := `SELECT id, website_id, name, target_type, target_count, created_at FROM campaigns WHERE id = $1`
	var c Campaign
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.WebsiteID, &c.Name, &c.TargetType, &c.TargetCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresCampaignStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*Campaign, error) {
	query := `SELECT id, website_id, name, target_type, target_count, created_at FROM campaigns WHERE website_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, websiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.WebsiteID, &c.Name, &c.TargetType, &c.TargetCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &c)
	}
	return campaigns, rows.Err()
}

type PostgresBacklinkStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresBacklinkStorage(pool *pgxpool.Pool) *PostgresBacklinkStorage {
	return &PostgresBacklinkStorage{pool: pool}
}

const backlinkColumns = `id, website_id, check_id, referring_url, referring_domain, target_url, anchor_text, is_dofollow, authority, status, data_source, first_observed, last_observed`

// xmax = 0 distinguishes a fresh insert from a conflict update.
const upsertBacklinkQuery = `INSERT INTO backlinks (id, website_id, check_id, referring_url, referring_domain, target_url, anchor_text, is_dofollow, authority, status, data_source, first_observed, last_observed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, $11, $11)
ON CONFLICT (website_id, referring_url, target_url) DO UPDATE SET
	check_id = EXCLUDED.check_id,
	referring_domain = EXCLUDED.referring_domain,
	anchor_text = EXCLUDED.anchor_text,
	is_dofollow = EXCLUDED.is_dofollow,
	authority = EXCLUDED.authority,
	data_source = EXCLUDED.data_source,
	status = 'active',
	last_observed = EXCLUDED.last_observed
RETURNING (xmax = 0)`

func (s *PostgresBacklinkStorage) UpsertObserved(ctx context.Context, b *Backlink) (bool, error) {
	var inserted bool
	err := s.pool.QueryRow(ctx, upsertBacklinkQuery,
		b.ID, b.WebsiteID, b.CheckID, b.ReferringURL, b.ReferringDomain,
		b.TargetURL, b.AnchorText, b.IsDofollow, b.Authority, b.DataSource,
		b.LastObserved).Scan(&inserted)
	return inserted, err
}

func (s *PostgresBacklinkStorage) MarkLost(ctx context.Context, websiteID, checkID uuid.UUID) (int, error) {
	query := `UPDATE backlinks SET status = 'lost' WHERE website_id = $1 AND status = 'active' AND check_id <> $2`
	tag, err := s.pool.Exec(ctx, query, websiteID, checkID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresBacklinkStorage) ListActive(ctx context.Context, websiteID uuid.UUID) ([]*Backlink, error) {
	query := `SELECT ` + backlinkColumns + ` FROM backlinks WHERE website_id = $1 AND status = 'active' ORDER BY last_observed DESC`
	rows, err := s.pool.Query(ctx, query, websiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*Backlink
	for rows.Next() {
		var b Backlink
		err := rows.Scan(&b.ID, &b.WebsiteID, &b.CheckID, &b.ReferringURL, &b.ReferringDomain,
			&b.TargetURL, &b.AnchorText, &b.IsDofollow, &b.Authority, &b.Status,
			&b.DataSource, &b.FirstObserved, &b.LastObserved)
		if err != nil {
			return nil, err
		}
		links = append(links, &b)
	}
	return links, rows.Err()
}

func (s *PostgresBacklinkStorage) CreateCheck(ctx context.Context, check *BacklinkCheck) error {
	query := `INSERT INTO backlink_checks (id, website_id, status, started_at) VALUES ($1, $2, $3, $4)`
	_, err := s.pool.Exec(ctx, query, check.ID, check.WebsiteID, check.Status, check.StartedAt)
	return err
}

func (s *PostgresBacklinkStorage) FinalizeCheck(ctx context.Context, check *BacklinkCheck) error {
	query := `UPDATE backlink_checks SET status = 'completed', total_active = $2, new_backlinks = $3, lost_backlinks = $4, referring_domains = $5, dofollow_count = $6, avg_authority = $7, completed_at = $8 WHERE id = $1 AND status = 'in_progress'`
	_, err := s.pool.Exec(ctx, query, check.ID, check.TotalActive, check.NewBacklinks,
		check.LostBacklinks, check.ReferringDomains, check.DofollowCount,
		check.AvgAuthority, check.CompletedAt)
	return err
}

func (s *PostgresBacklinkStorage) FailCheck(ctx context.Context, checkID uuid.UUID, errMsg string) error {
	query := `UPDATE backlink_checks SET status = 'failed', error_message = $2, completed_at = now() WHERE id = $1 AND status = 'in_progress'`
	_, err := s.pool.Exec(ctx, query, checkID, errMsg)
	return err
}

func (s *PostgresBacklinkStorage) ListChecks(ctx context.Context, websiteID uuid.UUID, since time.Time) ([]*BacklinkCheck, error) {
	query := `SELECT id, website_id, status, total_active, new_backlinks, lost_backlinks, referring_domains, dofollow_count, avg_authority, error_message, started_at, completed_at
FROM backlink_checks WHERE website_id = $1 AND started_at >= $2 ORDER BY started_at ASC`
	rows, err := s.pool.Query(ctx, query, websiteID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []*BacklinkCheck
	for rows.Next() {
		var c BacklinkCheck
		err := rows.Scan(&c.ID, &c.WebsiteID, &c.Status, &c.TotalActive, &c.NewBacklinks,
			&c.LostBacklinks, &c.ReferringDomains, &c.DofollowCount, &c.AvgAuthority,
			&c.ErrorMessage, &c.StartedAt, &c.CompletedAt)
		if err != nil {
			return nil, err
		}
		checks = append(checks, &c)
	}
	return checks, rows.Err()
}

type PostgresAcquiredStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresAcquiredStorage(pool *pgxpool.Pool) *PostgresAcquiredStorage {
	return &PostgresAcquiredStorage{pool: pool}
}

const acquiredColumns = `id, website_id, opportunity_id, source_domain, source_url, target_url, anchor_text, authority, is_active, last_verified_at, last_status_code, created_at`

func (s *PostgresAcquiredStorage) Create(ctx context.Context, a *AcquiredBacklink) error {
	query := `INSERT INTO acquired_backlinks (id, website_id, opportunity_id, source_domain, source_url, target_url, anchor_text, authority, is_active) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.pool.Exec(ctx, query, a.ID, a.WebsiteID, a.OpportunityID, a.SourceDomain,
		a.SourceURL, a.TargetURL, a.AnchorText, a.Authority, a.IsActive)
	return err
}

func scanAcquired(row pgx.Row) (*AcquiredBacklink, error) {
	var a AcquiredBacklink
	err := row.Scan(&a.ID, &a.WebsiteID, &a.OpportunityID, &a.SourceDomain, &a.SourceURL,
		&a.TargetURL, &a.AnchorText, &a.Authority, &a.IsActive, &a.LastVerifiedAt,
		&a.LastStatusCode, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *PostgresAcquiredStorage) GetByID(ctx context.Context, id uuid.UUID) (*AcquiredBacklink, error) {
	query := `SELECT ` + acquiredColumns + ` FROM acquired_backlinks WHERE id = $1`
	return scanAcquired(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresAcquiredStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*AcquiredBacklink, error) {
	query := `SELECT ` + acquiredColumns + ` FROM acquired_backlinks WHERE website_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, websiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var acquired []*AcquiredBacklink
	for rows.Next() {
		a, err := scanAcquired(rows)
		if err != nil {
			return nil, err
		}
		acquired = append(acquired, a)
	}
	return acquired, rows.Err()
}

func (s *PostgresAcquiredStorage) RecordVerification(ctx context.Context, id uuid.UUID, isActive bool, statusCode *int, verifiedAt time.Time) error {
	query := `UPDATE acquired_backlinks SET is_active = $2, last_status_code = $3, last_verified_at = $4 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id, isActive, statusCode, verifiedAt)
	return err
}
