package monitor

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

const (
	summaryCacheTTL = 5 * time.Minute
	topDomainLimit  = 10
)

// DomainCount is one bucket of the top-referring-domain list.
type DomainCount struct {
	Domain string `json:"domain"`
	Links  int    `json:"links"`
}

// MetricsSummary is the point-in-time read over the active backlink set.
type MetricsSummary struct {
	TotalActive         int           `json:"total_active"`
	ReferringDomains    int           `json:"referring_domains"`
	DofollowPercent     float64       `json:"dofollow_percent"`
	AvgAuthority        float64       `json:"avg_authority"`
	NewThisMonth        int           `json:"new_this_month"`
	TopReferringDomains []DomainCount `json:"top_referring_domains"`
}

// ComputeSummary derives summary statistics from the active backlink set.
// "New this month" means first observed within the current calendar month.
func ComputeSummary(active []*storage.Backlink, now time.Time) *MetricsSummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := make(map[string]int)
	dofollow := 0
	authoritySum := 0
	newThisMonth := 0
	for _, b := range active {
		counts[b.ReferringDomain]++
		if b.IsDofollow {
			dofollow++
		}
		authoritySum += b.Authority
		if !b.FirstObserved.Before(monthStart) {
			newThisMonth++
		}
	}

	summary := &MetricsSummary{
		TotalActive:      len(active),
		ReferringDomains: len(counts),
		NewThisMonth:     newThisMonth,
	}
	if len(active) > 0 {
		summary.DofollowPercent = float64(dofollow) / float64(len(active)) * 100
		summary.AvgAuthority = float64(authoritySum) / float64(len(active))
	}

	top := make([]DomainCount, 0, len(counts))
	for domain, links := range counts {
		top = append(top, DomainCount{Domain: domain, Links: links})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Links != top[j].Links {
			return top[i].Links > top[j].Links
		}
		return top[i].Domain < top[j].Domain
	})
	if len(top) > topDomainLimit {
		top = top[:topDomainLimit]
	}
	summary.TopReferringDomains = top

	return summary
}

// GetMetrics returns the cached summary when fresh, recomputing from storage
// otherwise.
func (s *Service) GetMetrics(ctx context.Context, websiteID uuid.UUID) (*MetricsSummary, error) {
	if s.metricsCache != nil {
		if data, err := s.metricsCache.GetSummary(ctx, websiteID.String()); err == nil && data != nil {
			var cached MetricsSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	active, err := s.backlinks.ListActive(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	summary := ComputeSummary(active, s.now())

	if s.metricsCache != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.metricsCache.SetSummary(ctx, websiteID.String(), data, summaryCacheTTL)
		}
	}
	return summary, nil
}

// HistoryPoint is one completed check in the trend series.
type HistoryPoint struct {
	Date             time.Time `json:"date"`
	TotalActive      int       `json:"total_active"`
	NewBacklinks     int       `json:"new_backlinks"`
	LostBacklinks    int       `json:"lost_backlinks"`
	ReferringDomains int       `json:"referring_domains"`
	AvgAuthority     float64   `json:"avg_authority"`
}

// GetHistory returns the completed-check series for the trailing window.
func (s *Service) GetHistory(ctx context.Context, websiteID uuid.UUID, days int) ([]HistoryPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	checks, err := s.backlinks.ListChecks(ctx, websiteID, since)
	if err != nil {
		return nil, err
	}

	series := make([]HistoryPoint, 0, len(checks))
	for _, c := range checks {
		if c.Status != storage.CheckCompleted {
			continue
		}
		series = append(series, HistoryPoint{
			Date:             c.StartedAt,
			TotalActive:      c.TotalActive,
			NewBacklinks:     c.NewBacklinks,
			LostBacklinks:    c.LostBacklinks,
			ReferringDomains: c.ReferringDomains,
			AvgAuthority:     c.AvgAuthority,
		})
	}
	return series, nil
}
