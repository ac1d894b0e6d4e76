package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

// topRankingSites bounds the per-keyword fan-out to the Authority Provider.
const topRankingSites = 5

// RawOpportunity is an unscored candidate emitted by the aggregator.
type RawOpportunity struct {
	SourceURL     string
	SourceDomain  string
	Authority     int
	PageAuthority int
	Spam          int
	Relevance     int
	Type          storage.OpportunityType
	DataSource    storage.DataSource
}

// Aggregator turns keywords into raw candidate link sources by walking the
// referring domains of top-ranking pages. Every provider failure is recovered
// at the smallest possible scope; an infrastructure failure alone never
// produces an empty result.
type Aggregator struct {
	search    providers.SearchProvider
	estimator *providers.Estimator
	authority providers.AuthorityProvider
	delay     time.Duration
	logger    *logging.Logger
}

func NewAggregator(search providers.SearchProvider, authority providers.AuthorityProvider, estimator *providers.Estimator, delay time.Duration, logger *logging.Logger) *Aggregator {
	return &Aggregator{
		search:    search,
		estimator: estimator,
		authority: authority,
		delay:     delay,
		logger:    logger,
	}
}

// Gather collects raw opportunities for the target domain across all
// keywords. The returned slice may contain duplicate domains; the caller
// deduplicates.
func (a *Aggregator) Gather(ctx context.Context, targetDomain string, keywords []string) ([]RawOpportunity, error) {
	targetDomain = providers.NormalizeDomain(targetDomain)

	var raw []RawOpportunity
	searchFailed := true

	for _, keyword := range keywords {
		if ctx.Err() != nil {
			return raw, ctx.Err()
		}

		results, err := a.search.Search(ctx, keyword)
		if err != nil || len(results) == 0 {
			if err != nil {
				a.logger.LogProviderFallback(ctx, "search", keyword, err)
			}
			continue
		}
		searchFailed = false

		if len(results) > topRankingSites {
			results = results[:topRankingSites]
		}

		for rank, result := range results {
			site := providers.NormalizeDomain(result.URL)
			if site == "" || site == targetDomain {
				continue
			}

			a.pace(ctx)
			raw = append(raw, a.candidatesFromSite(ctx, targetDomain, site, result.URL, rank)...)
		}
	}

	if searchFailed {
		// Both providers down for every keyword: seed with well-known
		// high-authority domains, clearly tagged as heuristic.
		for _, fd := range providers.FallbackDomains() {
			raw = append(raw, RawOpportunity{
				SourceURL:     "https://" + fd.Domain,
				SourceDomain:  fd.Domain,
				Authority:     fd.Authority,
				PageAuthority: pageAuthorityFor(fd.Authority),
				Spam:          providers.HeuristicMetrics(fd.Domain).Spam,
				Relevance:     40,
				Type:          classifyType(fd.Domain, ""),
				DataSource:    storage.SourceHeuristic,
			})
		}
	}

	return raw, nil
}

// candidatesFromSite emits the referring domains of one ranking site, or the
// site itself when the Authority Provider has nothing for it.
func (a *Aggregator) candidatesFromSite(ctx context.Context, targetDomain, site, siteURL string, rank int) []RawOpportunity {
	relevance := relevanceForRank(rank)

	referring, err := a.authority.ReferringDomainsOf(ctx, site)
	if err != nil || len(referring) == 0 {
		if err != nil {
			a.logger.LogProviderFallback(ctx, "authority", site, err)
		}

		metrics, real := a.estimator.Estimate(ctx, site)
		source := storage.SourceHeuristic
		if real {
			source = storage.SourceReal
		}
		return []RawOpportunity{{
			SourceURL:     siteURL,
			SourceDomain:  site,
			Authority:     metrics.Authority,
			PageAuthority: pageAuthorityFor(metrics.Authority),
			Spam:          metrics.Spam,
			Relevance:     relevance,
			Type:          classifyType(site, siteURL),
			DataSource:    source,
		}}
	}

	out := make([]RawOpportunity, 0, len(referring))
	for _, rd := range referring {
		domain := providers.NormalizeDomain(rd.Domain)
		if domain == "" || domain == site || domain == targetDomain {
			continue
		}

		authority := rd.Authority
		spam := providers.HeuristicMetrics(domain).Spam
		source := storage.SourceReal
		if authority <= 0 {
			m := providers.HeuristicMetrics(domain)
			authority = m.Authority
			spam = m.Spam
			source = storage.SourceHeuristic
		}

		out = append(out, RawOpportunity{
			SourceURL:     "https://" + domain,
			SourceDomain:  domain,
			Authority:     authority,
			PageAuthority: pageAuthorityFor(authority),
			Spam:          spam,
			Relevance:     relevanceForReferrer(relevance),
			Type:          classifyType(domain, ""),
			DataSource:    source,
		})
	}
	return out
}

func (a *Aggregator) pace(ctx context.Context) {
	if a.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(a.delay):
	}
}

// relevanceForRank maps a SERP position (0-based) to a relevance estimate.
func relevanceForRank(rank int) int {
	r := 90 - rank*10
	if r < 50 {
		r = 50
	}
	return r
}

// relevanceForReferrer discounts relevance one hop away from the ranking page.
func relevanceForReferrer(siteRelevance int) int {
	r := siteRelevance - 10
	if r < 30 {
		r = 30
	}
	return r
}

func pageAuthorityFor(authority int) int {
	pa := authority - 10
	if pa < 0 {
		pa = 0
	}
	return pa
}

func classifyType(domain, sourceURL string) storage.OpportunityType {
	lower := strings.ToLower(domain + " " + sourceURL)
	switch {
	case strings.Contains(lower, "forum") || strings.Contains(lower, "community") || strings.Contains(lower, "reddit"):
		return storage.TypeForum
	case strings.Contains(lower, "directory") || strings.Contains(lower, "listing"):
		return storage.TypeDirectory
	case strings.Contains(lower, "resource") || strings.Contains(lower, "links"):
		return storage.TypeResourcePage
	default:
		return storage.TypeGuestPost
	}
}
