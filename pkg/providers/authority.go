package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AuthorityClient queries a link-metrics API for domain authority, spam
// scores and referring-domain lists.
type AuthorityClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAuthorityClient(apiKey, baseURL string, timeout time.Duration) *AuthorityClient {
	return &AuthorityClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type authorityResponse struct {
	Results []struct {
		DomainAuthority int `json:"domain_authority"`
		SpamScore       int `json:"spam_score"`
	} `json:"results"`
}

func (c *AuthorityClient) AuthorityOf(ctx context.Context, domain string) (*DomainMetrics, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(map[string]any{"targets": []string{domain}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/url_metrics", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: authority API returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed authorityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode authority response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, ErrUnavailable
	}

	return &DomainMetrics{
		Authority: parsed.Results[0].DomainAuthority,
		Spam:      parsed.Results[0].SpamScore,
	}, nil
}

type referringResponse struct {
	Results []struct {
		RootDomain      string `json:"root_domain"`
		DomainAuthority int    `json:"domain_authority"`
		LinkCount       int    `json:"link_count"`
	} `json:"results"`
}

func (c *AuthorityClient) ReferringDomainsOf(ctx context.Context, domain string) ([]ReferringDomain, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(map[string]any{"target": domain, "limit": 25})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/linking_root_domains", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: authority API returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed referringResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode referring domains response: %w", err)
	}

	domains := make([]ReferringDomain, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.RootDomain == "" {
			continue
		}
		domains = append(domains, ReferringDomain{
			Domain:    r.RootDomain,
			Authority: r.DomainAuthority,
			LinkCount: r.LinkCount,
		})
	}
	return domains, nil
}
