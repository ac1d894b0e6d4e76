package providers

import (
	"context"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
)

// AuthorityCache is the TTL cache consulted before hitting the Authority
// Provider. A (nil, nil) return means cache miss.
type AuthorityCache interface {
	GetMetrics(ctx context.Context, domain string) (*DomainMetrics, error)
	SetMetrics(ctx context.Context, domain string, m *DomainMetrics, ttl time.Duration) error
}

// Estimator resolves a domain's authority and spam estimate, preferring the
// real provider and falling back to a deterministic heuristic when it is
// unavailable. The second return value reports whether real provider data
// was used.
type Estimator struct {
	provider AuthorityProvider
	cache    AuthorityCache
	cacheTTL time.Duration
	logger   *logging.Logger
}

func NewEstimator(provider AuthorityProvider, cache AuthorityCache, logger *logging.Logger) *Estimator {
	return &Estimator{
		provider: provider,
		cache:    cache,
		cacheTTL: 24 * time.Hour,
		logger:   logger,
	}
}

func (e *Estimator) Estimate(ctx context.Context, domain string) (*DomainMetrics, bool) {
	domain = NormalizeDomain(domain)

	if e.cache != nil {
		if m, err := e.cache.GetMetrics(ctx, domain); err == nil && m != nil {
			return m, true
		}
	}

	if e.provider != nil {
		m, err := e.provider.AuthorityOf(ctx, domain)
		if err == nil && m != nil {
			if e.cache != nil {
				e.cache.SetMetrics(ctx, domain, m, e.cacheTTL)
			}
			return m, true
		}
		if err != nil && e.logger != nil {
			e.logger.LogProviderFallback(ctx, "authority", domain, err)
		}
	}

	m := HeuristicMetrics(domain)
	return &m, false
}

// HeuristicMetrics derives a stable authority/spam estimate from the domain
// name alone. The hash keeps estimates reproducible across runs so dedup and
// scoring order do not jitter when the provider is down.
func HeuristicMetrics(domain string) DomainMetrics {
	domain = NormalizeDomain(domain)

	h := fnv.New32a()
	h.Write([]byte(domain))
	authority := 20 + int(h.Sum32()%46) // [20, 65]

	spam := 5
	switch {
	case strings.HasSuffix(domain, ".gov"), strings.HasSuffix(domain, ".edu"):
		authority += 15
		spam = 1
	case strings.HasSuffix(domain, ".org"):
		authority += 5
		spam = 3
	case strings.HasSuffix(domain, ".info"), strings.HasSuffix(domain, ".biz"):
		spam = 15
	}
	if len(domain) > 25 || strings.Count(domain, "-") > 1 {
		spam += 10
	}
	if authority > 80 {
		authority = 80
	}

	return DomainMetrics{Authority: authority, Spam: spam}
}

// fallbackDomains seeds discovery when both providers are down, so an
// infrastructure failure alone never yields an empty result.
var fallbackDomains = []ReferringDomain{
	{Domain: "medium.com", Authority: 76, LinkCount: 0},
	{Domain: "linkedin.com", Authority: 86, LinkCount: 0},
	{Domain: "reddit.com", Authority: 81, LinkCount: 0},
	{Domain: "quora.com", Authority: 72, LinkCount: 0},
	{Domain: "dev.to", Authority: 60, LinkCount: 0},
	{Domain: "hackernoon.com", Authority: 58, LinkCount: 0},
}

// FallbackDomains returns a copy of the well-known high-authority seed list.
func FallbackDomains() []ReferringDomain {
	out := make([]ReferringDomain, len(fallbackDomains))
	copy(out, fallbackDomains)
	return out
}

// NormalizeDomain lowercases a host or URL down to its bare domain.
func NormalizeDomain(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			raw = u.Host
		}
	}
	raw = strings.TrimPrefix(raw, "www.")
	if i := strings.IndexAny(raw, "/:?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
