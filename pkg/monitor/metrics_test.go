package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

func activeLink(domain string, dofollow bool, authority int, firstObserved time.Time) *storage.Backlink {
	return &storage.Backlink{
		ID:              uuid.New(),
		ReferringDomain: domain,
		IsDofollow:      dofollow,
		Authority:       authority,
		Status:          storage.BacklinkActive,
		FirstObserved:   firstObserved,
	}
}

func TestComputeSummary(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.July, 28, 0, 0, 0, 0, time.UTC)

	links := []*storage.Backlink{
		activeLink("a.com", true, 40, thisMonth),
		activeLink("a.com", true, 60, lastMonth),
		activeLink("b.com", false, 20, thisMonth),
		activeLink("c.com", true, 80, lastMonth),
	}

	summary := ComputeSummary(links, now)
	assert.Equal(t, 4, summary.TotalActive)
	assert.Equal(t, 3, summary.ReferringDomains)
	assert.InDelta(t, 75.0, summary.DofollowPercent, 0.001)
	assert.InDelta(t, 50.0, summary.AvgAuthority, 0.001)
	assert.Equal(t, 2, summary.NewThisMonth)

	require.NotEmpty(t, summary.TopReferringDomains)
	assert.Equal(t, "a.com", summary.TopReferringDomains[0].Domain)
	assert.Equal(t, 2, summary.TopReferringDomains[0].Links)
}

func TestComputeSummaryMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	links := []*storage.Backlink{
		activeLink("a.com", true, 40, now),                               // first instant of month
		activeLink("b.com", true, 40, now.Add(-time.Second)),             // July 31st
		activeLink("c.com", true, 40, now.Add(24*time.Hour)),             // later in month
	}

	summary := ComputeSummary(links, now)
	assert.Equal(t, 2, summary.NewThisMonth)
}

func TestComputeSummaryEmpty(t *testing.T) {
	summary := ComputeSummary(nil, time.Now())
	assert.Zero(t, summary.TotalActive)
	assert.Zero(t, summary.DofollowPercent)
	assert.Zero(t, summary.AvgAuthority)
	assert.Empty(t, summary.TopReferringDomains)
}

func TestComputeSummaryTopDomainLimit(t *testing.T) {
	now := time.Now()
	var links []*storage.Backlink
	for i := 0; i < 15; i++ {
		links = append(links, activeLink(string(rune('a'+i))+".com", true, 30, now))
	}

	summary := ComputeSummary(links, now)
	assert.Len(t, summary.TopReferringDomains, 10)
}

func TestGetHistoryFiltersIncomplete(t *testing.T) {
	backlinks := newMockBacklinkStorage()
	svc := newTestMonitor(backlinks, newMockAcquiredStorage(), &mockSnapshot{})
	websiteID := uuid.New()
	now := time.Now()

	completed := &storage.BacklinkCheck{
		ID: uuid.New(), WebsiteID: websiteID, Status: storage.CheckCompleted,
		TotalActive: 10, StartedAt: now.AddDate(0, 0, -5),
	}
	failed := &storage.BacklinkCheck{
		ID: uuid.New(), WebsiteID: websiteID, Status: storage.CheckFailed,
		StartedAt: now.AddDate(0, 0, -3),
	}
	tooOld := &storage.BacklinkCheck{
		ID: uuid.New(), WebsiteID: websiteID, Status: storage.CheckCompleted,
		StartedAt: now.AddDate(0, 0, -60),
	}
	backlinks.checks[completed.ID] = completed
	backlinks.checks[failed.ID] = failed
	backlinks.checks[tooOld.ID] = tooOld

	series, err := svc.GetHistory(context.Background(), websiteID, 30)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 10, series[0].TotalActive)
}

func TestGetMetricsFromStorage(t *testing.T) {
	backlinks := newMockBacklinkStorage()
	svc := newTestMonitor(backlinks, newMockAcquiredStorage(), &mockSnapshot{})
	websiteID := uuid.New()

	link := activeLink("a.com", true, 40, time.Now())
	link.WebsiteID = websiteID
	link.ReferringURL = "https://a.com/post"
	link.TargetURL = "https://mysite.com/"
	_, err := backlinks.UpsertObserved(context.Background(), link)
	require.NoError(t, err)

	summary, err := svc.GetMetrics(context.Background(), websiteID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalActive)
	assert.InDelta(t, 100.0, summary.DofollowPercent, 0.001)
}
