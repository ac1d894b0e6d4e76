package providers

import (
	"context"
	"errors"
)

// ErrUnavailable marks a provider that is down, misconfigured or out of
// quota. Callers recover with heuristics at the smallest possible scope.
var ErrUnavailable = errors.New("provider unavailable")

// SearchResult is one ranked page returned by the Search Provider.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DomainMetrics is an authority/spam estimate for a domain.
type DomainMetrics struct {
	Authority int `json:"authority"`
	Spam      int `json:"spam"`
}

// ReferringDomain is one entry of a site's referring-domain list.
type ReferringDomain struct {
	Domain    string `json:"domain"`
	Authority int    `json:"authority"`
	LinkCount int    `json:"link_count"`
}

// SnapshotLink is one inbound link observed in a point-in-time snapshot.
type SnapshotLink struct {
	ReferringURL string `json:"referring_url"`
	TargetURL    string `json:"target_url"`
	AnchorText   string `json:"anchor_text"`
	IsDofollow   bool   `json:"is_dofollow"`
	Authority    int    `json:"authority"`
}

type SearchProvider interface {
	Search(ctx context.Context, keyword string) ([]SearchResult, error)
}

type AuthorityProvider interface {
	AuthorityOf(ctx context.Context, domain string) (*DomainMetrics, error)
	ReferringDomainsOf(ctx context.Context, domain string) ([]ReferringDomain, error)
}

// SnapshotSource fetches the current inbound links of a domain. Used only by
// the monitoring path.
type SnapshotSource interface {
	SnapshotFor(ctx context.Context, domain string) ([]SnapshotLink, error)
}
