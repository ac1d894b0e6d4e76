package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/cache"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

var ErrDomainRequired = errors.New("target domain is required")

// CheckResult summarizes one completed monitoring run.
type CheckResult struct {
	CheckID          uuid.UUID `json:"check_id"`
	NewBacklinks     int       `json:"new_backlinks"`
	LostBacklinks    int       `json:"lost_backlinks"`
	TotalActive      int       `json:"total_active"`
	ReferringDomains int       `json:"referring_domains"`
	DofollowCount    int       `json:"dofollow_count"`
	AvgAuthority     float64   `json:"avg_authority"`
}

// Service owns the monitoring path: snapshot fetch, reconciliation against
// stored state, metrics and health reads.
type Service struct {
	backlinks     storage.BacklinkStorage
	acquired      storage.AcquiredStorage
	opportunities storage.OpportunityStorage
	snapshot      providers.SnapshotSource
	metricsCache  cache.MetricsCacheInterface
	verifier      *http.Client
	logger        *logging.Logger

	// At most one monitoring run per website; a second concurrent caller
	// joins the in-flight run instead of corrupting its check bookkeeping.
	runs singleflight.Group

	now func() time.Time
}

func NewService(backlinks storage.BacklinkStorage, acquired storage.AcquiredStorage, opportunities storage.OpportunityStorage, snapshot providers.SnapshotSource, metricsCache cache.MetricsCacheInterface, verifyTimeout time.Duration, logger *logging.Logger) *Service {
	return &Service{
		backlinks:     backlinks,
		acquired:      acquired,
		opportunities: opportunities,
		snapshot:      snapshot,
		metricsCache:  metricsCache,
		verifier:      &http.Client{Timeout: verifyTimeout},
		logger:        logger,
		now:           time.Now,
	}
}

// RunBacklinkCheck reconciles a fresh snapshot of the domain's inbound links
// against stored state. Any error before the reconciliation pass fails the
// whole check and leaves prior link statuses untouched; a failed check is
// safe to retry.
func (s *Service) RunBacklinkCheck(ctx context.Context, websiteID uuid.UUID, domain string) (*CheckResult, error) {
	if domain == "" {
		return nil, ErrDomainRequired
	}

	v, err, _ := s.runs.Do(websiteID.String(), func() (any, error) {
		return s.runCheck(ctx, websiteID, domain)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CheckResult), nil
}

func (s *Service) runCheck(ctx context.Context, websiteID uuid.UUID, domain string) (*CheckResult, error) {
	check := &storage.BacklinkCheck{
		ID:        uuid.New(),
		WebsiteID: websiteID,
		Status:    storage.CheckInProgress,
		StartedAt: s.now(),
	}
	if err := s.backlinks.CreateCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("create check: %w", err)
	}

	result, err := s.reconcile(ctx, websiteID, check, domain)
	if err != nil {
		if failErr := s.backlinks.FailCheck(ctx, check.ID, err.Error()); failErr != nil {
			s.logger.Error(ctx, "mark check failed", "check_id", check.ID.String(), "error", failErr.Error())
		}
		s.logger.LogCheckRun(ctx, websiteID.String(), string(storage.CheckFailed), 0, 0)
		return nil, err
	}

	s.logger.LogCheckRun(ctx, websiteID.String(), string(storage.CheckCompleted), result.NewBacklinks, result.LostBacklinks)
	return result, nil
}

func (s *Service) reconcile(ctx context.Context, websiteID uuid.UUID, check *storage.BacklinkCheck, domain string) (*CheckResult, error) {
	observed, err := s.snapshot.SnapshotFor(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	now := s.now()
	newCount := 0
	for _, link := range observed {
		authority := link.Authority
		source := storage.SourceReal
		if authority <= 0 {
			authority = providers.HeuristicMetrics(link.ReferringURL).Authority
			source = storage.SourceHeuristic
		}

		inserted, err := s.backlinks.UpsertObserved(ctx, &storage.Backlink{
			ID:              uuid.New(),
			WebsiteID:       websiteID,
			CheckID:         check.ID,
			ReferringURL:    link.ReferringURL,
			ReferringDomain: providers.NormalizeDomain(link.ReferringURL),
			TargetURL:       link.TargetURL,
			AnchorText:      link.AnchorText,
			IsDofollow:      link.IsDofollow,
			Authority:       authority,
			DataSource:      source,
			LastObserved:    now,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert backlink %s: %w", link.ReferringURL, err)
		}
		if inserted {
			newCount++
		}
	}

	// All upserts of this run have committed; anything still active that this
	// run did not touch is gone.
	lostCount, err := s.backlinks.MarkLost(ctx, websiteID, check.ID)
	if err != nil {
		return nil, fmt.Errorf("mark lost: %w", err)
	}

	active, err := s.backlinks.ListActive(ctx, websiteID)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}

	domains := make(map[string]struct{}, len(active))
	dofollow := 0
	authoritySum := 0
	for _, b := range active {
		domains[b.ReferringDomain] = struct{}{}
		if b.IsDofollow {
			dofollow++
		}
		authoritySum += b.Authority
	}
	avgAuthority := 0.0
	if len(active) > 0 {
		avgAuthority = float64(authoritySum) / float64(len(active))
	}

	completedAt := s.now()
	check.Status = storage.CheckCompleted
	check.TotalActive = len(active)
	check.NewBacklinks = newCount
	check.LostBacklinks = lostCount
	check.ReferringDomains = len(domains)
	check.DofollowCount = dofollow
	check.AvgAuthority = avgAuthority
	check.CompletedAt = &completedAt
	if err := s.backlinks.FinalizeCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("finalize check: %w", err)
	}

	if s.metricsCache != nil {
		s.metricsCache.InvalidateSummary(ctx, websiteID.String())
	}

	return &CheckResult{
		CheckID:          check.ID,
		NewBacklinks:     newCount,
		LostBacklinks:    lostCount,
		TotalActive:      len(active),
		ReferringDomains: len(domains),
		DofollowCount:    dofollow,
		AvgAuthority:     avgAuthority,
	}, nil
}
