package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/discovery"
	httpHandlers "github.com/Qillen1974/ai-marketing-platform-sub000/pkg/http"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/monitor"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

// Mock implementations for testing

type mockOpportunityStorage struct {
	byID    map[uuid.UUID]*storage.Opportunity
	byKey   map[string]*storage.Opportunity
	upserts int
}

func newMockOpportunityStorage() *mockOpportunityStorage {
	return &mockOpportunityStorage{
		byID:  make(map[uuid.UUID]*storage.Opportunity),
		byKey: make(map[string]*storage.Opportunity),
	}
}

func oppKey(websiteID uuid.UUID, domain string) string {
	return websiteID.String() + "|" + domain
}

func (m *mockOpportunityStorage) Upsert(ctx context.Context, opp *storage.Opportunity) (*storage.Opportunity, error) {
	return m.UpsertTx(ctx, nil, opp)
}

func (m *mockOpportunityStorage) UpsertTx(ctx context.Context, tx pgx.Tx, opp *storage.Opportunity) (*storage.Opportunity, error) {
	m.upserts++
	key := oppKey(opp.WebsiteID, opp.SourceDomain)
	if existing, ok := m.byKey[key]; ok {
		existing.SourceURL = opp.SourceURL
		existing.DomainAuthority = opp.DomainAuthority
		existing.PageAuthority = opp.PageAuthority
		existing.SpamScore = opp.SpamScore
		existing.RelevanceScore = opp.RelevanceScore
		existing.DifficultyScore = opp.DifficultyScore
		existing.Score = opp.Score
		existing.DataSource = opp.DataSource
		if existing.Status == storage.StatusDiscovered {
			existing.Status = opp.Status
		}
		if existing.CampaignID == nil {
			existing.CampaignID = opp.CampaignID
		}
		existing.UpdatedAt = time.Now()
		return existing, nil
	}
	stored := *opp
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.byID[stored.ID] = &stored
	m.byKey[key] = &stored
	return &stored, nil
}

func (m *mockOpportunityStorage) GetByID(ctx context.Context, id uuid.UUID) (*storage.Opportunity, error) {
	return m.byID[id], nil
}

func (m *mockOpportunityStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID, status *storage.OpportunityStatus) ([]*storage.Opportunity, error) {
	var out []*storage.Opportunity
	for _, opp := range m.byID {
		if opp.WebsiteID != websiteID {
			continue
		}
		if status != nil && opp.Status != *status {
			continue
		}
		out = append(out, opp)
	}
	return out, nil
}

func (m *mockOpportunityStorage) UpdateStatus(ctx context.Context, id uuid.UUID, status storage.OpportunityStatus, notes *string) error {
	if opp, ok := m.byID[id]; ok {
		opp.Status = status
		if notes != nil {
			opp.Notes = notes
		}
	}
	return nil
}

func (m *mockOpportunityStorage) CountByWebsite(ctx context.Context, websiteID uuid.UUID) (int, error) {
	opps, _ := m.ListByWebsite(ctx, websiteID, nil)
	return len(opps), nil
}

type mockCampaignStorage struct {
	campaigns map[uuid.UUID]*storage.Campaign
}

func newMockCampaignStorage() *mockCampaignStorage {
	return &mockCampaignStorage{campaigns: make(map[uuid.UUID]*storage.Campaign)}
}

func (m *mockCampaignStorage) Create(ctx context.Context, c *storage.Campaign) error {
	c.CreatedAt = time.Now()
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignStorage) GetByID(ctx context.Context, id uuid.UUID) (*storage.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockCampaignStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*storage.Campaign, error) {
	var out []*storage.Campaign
	for _, c := range m.campaigns {
		if c.WebsiteID == websiteID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockBacklinkStorage struct {
	links  map[string]*storage.Backlink
	checks map[uuid.UUID]*storage.BacklinkCheck
}

func newMockBacklinkStorage() *mockBacklinkStorage {
	return &mockBacklinkStorage{
		links:  make(map[string]*storage.Backlink),
		checks: make(map[uuid.UUID]*storage.BacklinkCheck),
	}
}

func linkKey(b *storage.Backlink) string {
	return b.WebsiteID.String() + "|" + b.ReferringURL + "|" + b.TargetURL
}

func (m *mockBacklinkStorage) UpsertObserved(ctx context.Context, b *storage.Backlink) (bool, error) {
	key := linkKey(b)
	if existing, ok := m.links[key]; ok {
		existing.CheckID = b.CheckID
		existing.Status = storage.BacklinkActive
		existing.Authority = b.Authority
		existing.DataSource = b.DataSource
		existing.LastObserved = b.LastObserved
		return false, nil
	}
	stored := *b
	stored.Status = storage.BacklinkActive
	stored.FirstObserved = b.LastObserved
	m.links[key] = &stored
	return true, nil
}

func (m *mockBacklinkStorage) MarkLost(ctx context.Context, websiteID, checkID uuid.UUID) (int, error) {
	lost := 0
	for _, b := range m.links {
		if b.WebsiteID == websiteID && b.Status == storage.BacklinkActive && b.CheckID != checkID {
			b.Status = storage.BacklinkLost
			lost++
		}
	}
	return lost, nil
}

func (m *mockBacklinkStorage) ListActive(ctx context.Context, websiteID uuid.UUID) ([]*storage.Backlink, error) {
	var out []*storage.Backlink
	for _, b := range m.links {
		if b.WebsiteID == websiteID && b.Status == storage.BacklinkActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBacklinkStorage) CreateCheck(ctx context.Context, check *storage.BacklinkCheck) error {
	stored := *check
	m.checks[check.ID] = &stored
	return nil
}

func (m *mockBacklinkStorage) FinalizeCheck(ctx context.Context, check *storage.BacklinkCheck) error {
	stored := *check
	m.checks[check.ID] = &stored
	return nil
}

func (m *mockBacklinkStorage) FailCheck(ctx context.Context, checkID uuid.UUID, errMsg string) error {
	if check, ok := m.checks[checkID]; ok {
		check.Status = storage.CheckFailed
		check.ErrorMessage = &errMsg
	}
	return nil
}

func (m *mockBacklinkStorage) ListChecks(ctx context.Context, websiteID uuid.UUID, since time.Time) ([]*storage.BacklinkCheck, error) {
	var out []*storage.BacklinkCheck
	for _, c := range m.checks {
		if c.WebsiteID == websiteID && c.StartedAt.After(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockAcquiredStorage struct {
	acquired map[uuid.UUID]*storage.AcquiredBacklink
}

func newMockAcquiredStorage() *mockAcquiredStorage {
	return &mockAcquiredStorage{acquired: make(map[uuid.UUID]*storage.AcquiredBacklink)}
}

func (m *mockAcquiredStorage) Create(ctx context.Context, a *storage.AcquiredBacklink) error {
	a.CreatedAt = time.Now()
	m.acquired[a.ID] = a
	return nil
}

func (m *mockAcquiredStorage) GetByID(ctx context.Context, id uuid.UUID) (*storage.AcquiredBacklink, error) {
	return m.acquired[id], nil
}

func (m *mockAcquiredStorage) ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]*storage.AcquiredBacklink, error) {
	var out []*storage.AcquiredBacklink
	for _, a := range m.acquired {
		if a.WebsiteID == websiteID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAcquiredStorage) RecordVerification(ctx context.Context, id uuid.UUID, isActive bool, statusCode *int, verifiedAt time.Time) error {
	if a, ok := m.acquired[id]; ok {
		a.IsActive = isActive
		a.LastStatusCode = statusCode
		a.LastVerifiedAt = &verifiedAt
	}
	return nil
}

type mockSearchProvider struct {
	results map[string][]providers.SearchResult
}

func (m *mockSearchProvider) Search(ctx context.Context, keyword string) ([]providers.SearchResult, error) {
	if m.results == nil {
		return nil, providers.ErrUnavailable
	}
	return m.results[keyword], nil
}

type mockAuthorityProvider struct {
	referring map[string][]providers.ReferringDomain
}

func (m *mockAuthorityProvider) AuthorityOf(ctx context.Context, domain string) (*providers.DomainMetrics, error) {
	return nil, providers.ErrUnavailable
}

func (m *mockAuthorityProvider) ReferringDomainsOf(ctx context.Context, domain string) ([]providers.ReferringDomain, error) {
	if m.referring == nil {
		return nil, providers.ErrUnavailable
	}
	return m.referring[domain], nil
}

type mockSnapshotSource struct {
	links map[string][]providers.SnapshotLink
}

func (m *mockSnapshotSource) SnapshotFor(ctx context.Context, domain string) ([]providers.SnapshotLink, error) {
	if m.links == nil {
		return nil, providers.ErrUnavailable
	}
	return m.links[domain], nil
}

type noopMetricsCache struct{}

func (noopMetricsCache) GetSummary(ctx context.Context, websiteID string) ([]byte, error) {
	return nil, nil
}

func (noopMetricsCache) SetSummary(ctx context.Context, websiteID string, data []byte, ttl time.Duration) error {
	return nil
}

func (noopMetricsCache) InvalidateSummary(ctx context.Context, websiteID string) error {
	return nil
}

type testEnv struct {
	router        *chi.Mux
	opportunities *mockOpportunityStorage
	campaigns     *mockCampaignStorage
	backlinks     *mockBacklinkStorage
	acquired      *mockAcquiredStorage
}

func setupTestEnv(search *mockSearchProvider, authority *mockAuthorityProvider, snapshot *mockSnapshotSource) *testEnv {
	logger := logging.NewLogger(logging.LevelError)

	opportunities := newMockOpportunityStorage()
	campaigns := newMockCampaignStorage()
	backlinks := newMockBacklinkStorage()
	acquired := newMockAcquiredStorage()

	estimator := providers.NewEstimator(authority, nil, logger)
	aggregator := discovery.NewAggregator(search, authority, estimator, 0, logger)
	discoveryService := discovery.NewService(opportunities, campaigns, aggregator, nil, logger)
	monitorService := monitor.NewService(backlinks, acquired, opportunities, snapshot, noopMetricsCache{}, 5*time.Second, logger)

	handler := httpHandlers.NewHandler(discoveryService, monitorService)
	r := chi.NewRouter()
	httpHandlers.SetupRoutes(r, handler, nil)

	return &testEnv{
		router:        r,
		opportunities: opportunities,
		campaigns:     campaigns,
		backlinks:     backlinks,
		acquired:      acquired,
	}
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestDiscoverEndpoint(t *testing.T) {
	search := &mockSearchProvider{results: map[string][]providers.SearchResult{
		"seo tools": {
			{URL: "https://toprank.com/best-seo-tools", Title: "Best SEO Tools"},
		},
	}}
	authority := &mockAuthorityProvider{referring: map[string][]providers.ReferringDomain{
		"toprank.com": {
			{Domain: "blog-one.com", Authority: 52},
			{Domain: "blog-two.org", Authority: 58},
		},
	}}
	env := setupTestEnv(search, authority, &mockSnapshotSource{})

	websiteID := uuid.New()
	w := doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/discover", map[string]any{
		"target_domain": "mysite.com",
		"keywords":      []string{"seo tools"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var opps []storage.Opportunity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opps))
	require.Len(t, opps, 2)
	for _, opp := range opps {
		assert.Equal(t, websiteID, opp.WebsiteID)
		assert.Equal(t, storage.StatusDiscovered, opp.Status)
		assert.Equal(t, storage.SourceReal, opp.DataSource)
		assert.Greater(t, opp.Score, 0.0)
	}
}

func TestDiscoverRequiresKeywords(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})

	w := doJSON(t, env.router, "POST", "/v1/websites/"+uuid.New().String()+"/discover", map[string]any{
		"target_domain": "mysite.com",
		"keywords":      []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoverProvidersDownFallsBack(t *testing.T) {
	// Search and authority both unavailable: the fallback seed list still
	// yields heuristic-tagged opportunities.
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})

	w := doJSON(t, env.router, "POST", "/v1/websites/"+uuid.New().String()+"/discover", map[string]any{
		"target_domain": "mysite.com",
		"keywords":      []string{"seo tools"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var opps []storage.Opportunity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opps))
	require.NotEmpty(t, opps)
	for _, opp := range opps {
		assert.Equal(t, storage.SourceHeuristic, opp.DataSource)
	}
}

func TestListOpportunitiesEndpoint(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})
	websiteID := uuid.New()

	opp := &storage.Opportunity{
		ID:           uuid.New(),
		WebsiteID:    websiteID,
		SourceURL:    "https://blog-one.com",
		SourceDomain: "blog-one.com",
		Type:         storage.TypeGuestPost,
		Status:       storage.StatusDiscovered,
		DataSource:   storage.SourceReal,
	}
	_, err := env.opportunities.Upsert(context.Background(), opp)
	require.NoError(t, err)

	w := doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/opportunities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var opps []storage.Opportunity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opps))
	require.Len(t, opps, 1)
	assert.Equal(t, "blog-one.com", opps[0].SourceDomain)

	// Status filter excludes non-matching rows.
	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/opportunities?status=secured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	opps = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opps))
	assert.Empty(t, opps)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/opportunities?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOpportunityStatusEndpoint(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})
	websiteID := uuid.New()

	opp := &storage.Opportunity{
		ID:           uuid.New(),
		WebsiteID:    websiteID,
		SourceDomain: "blog-one.com",
		Type:         storage.TypeGuestPost,
		Status:       storage.StatusDiscovered,
		DataSource:   storage.SourceReal,
	}
	stored, err := env.opportunities.Upsert(context.Background(), opp)
	require.NoError(t, err)

	w := doJSON(t, env.router, "PATCH", "/v1/opportunities/"+stored.ID.String()+"/status", map[string]any{
		"status": "contacted",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated storage.Opportunity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, storage.StatusContacted, updated.Status)

	// Terminal states reject further transitions with a conflict.
	w = doJSON(t, env.router, "PATCH", "/v1/opportunities/"+stored.ID.String()+"/status", map[string]any{
		"status": "rejected",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "PATCH", "/v1/opportunities/"+stored.ID.String()+"/status", map[string]any{
		"status": "contacted",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, env.router, "PATCH", "/v1/opportunities/"+uuid.New().String()+"/status", map[string]any{
		"status": "contacted",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignEndpoints(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})
	websiteID := uuid.New()

	w := doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/campaigns", map[string]any{
		"name":         "Q3 guest posts",
		"target_type":  "guest_post",
		"target_count": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var campaign storage.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &campaign))
	assert.Equal(t, "Q3 guest posts", campaign.Name)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/campaigns", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var campaigns []storage.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &campaigns))
	require.Len(t, campaigns, 1)
	assert.Equal(t, campaign.ID, campaigns[0].ID)

	w = doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/campaigns", map[string]any{
		"name":         "bad",
		"target_type":  "bogus",
		"target_count": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunCheckEndpoint(t *testing.T) {
	snapshot := &mockSnapshotSource{links: map[string][]providers.SnapshotLink{
		"mysite.com": {
			{ReferringURL: "https://blog-one.com/review", TargetURL: "https://mysite.com/", IsDofollow: true, Authority: 55},
			{ReferringURL: "https://blog-two.org/links", TargetURL: "https://mysite.com/", IsDofollow: false, Authority: 48},
		},
	}}
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, snapshot)
	websiteID := uuid.New()

	w := doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/checks", map[string]any{
		"domain": "mysite.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result monitor.CheckResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.NewBacklinks)
	assert.Equal(t, 0, result.LostBacklinks)
	assert.Equal(t, 2, result.TotalActive)
	assert.Equal(t, 1, result.DofollowCount)

	// Missing domain is a validation error.
	w = doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/checks", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndHistoryEndpoints(t *testing.T) {
	snapshot := &mockSnapshotSource{links: map[string][]providers.SnapshotLink{
		"mysite.com": {
			{ReferringURL: "https://blog-one.com/review", TargetURL: "https://mysite.com/", IsDofollow: true, Authority: 60},
		},
	}}
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, snapshot)
	websiteID := uuid.New()

	w := doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/checks", map[string]any{
		"domain": "mysite.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary monitor.MetricsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalActive)
	assert.Equal(t, 1, summary.ReferringDomains)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var series []monitor.HistoryPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	require.Len(t, series, 1)
	assert.Equal(t, 1, series[0].TotalActive)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/history?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthSummaryEndpoint(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})
	websiteID := uuid.New()

	now := time.Now()
	err := env.acquired.Create(context.Background(), &storage.AcquiredBacklink{
		ID:             uuid.New(),
		WebsiteID:      websiteID,
		SourceDomain:   "blog-one.com",
		SourceURL:      "https://blog-one.com/review",
		TargetURL:      "https://mysite.com/",
		Authority:      100,
		IsActive:       true,
		LastVerifiedAt: &now,
	})
	require.NoError(t, err)

	w := doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary monitor.HealthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary.Backlinks, 1)
	assert.InDelta(t, 100.0, summary.Backlinks[0].Score, 0.01)
	assert.Equal(t, monitor.HealthExcellent, summary.Classification)
}

func TestRecordAndVerifyAcquired(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})
	websiteID := uuid.New()

	w := doJSON(t, env.router, "POST", "/v1/websites/"+websiteID.String()+"/acquired", map[string]any{
		"source_url": target.URL,
		"target_url": "https://mysite.com/",
		"authority":  45,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var acquired storage.AcquiredBacklink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acquired))

	w = doJSON(t, env.router, "POST", "/v1/acquired/"+acquired.ID.String()+"/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result monitor.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsActive)
	require.NotNil(t, result.StatusCode)
	assert.Equal(t, http.StatusOK, *result.StatusCode)

	w = doJSON(t, env.router, "GET", "/v1/websites/"+websiteID.String()+"/acquired", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []storage.AcquiredBacklink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.True(t, list[0].IsActive)
}

func TestInvalidWebsiteID(t *testing.T) {
	env := setupTestEnv(&mockSearchProvider{}, &mockAuthorityProvider{}, &mockSnapshotSource{})

	for _, path := range []string{
		"/v1/websites/not-a-uuid/opportunities",
		"/v1/websites/not-a-uuid/metrics",
		"/v1/websites/not-a-uuid/health",
	} {
		w := doJSON(t, env.router, "GET", path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("path %s", path))
	}
}
