package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SnapshotClient fetches a domain's current inbound links from the link
// index. One call per monitoring run.
type SnapshotClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSnapshotClient(apiKey, baseURL string, timeout time.Duration) *SnapshotClient {
	return &SnapshotClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type snapshotResponse struct {
	Results []struct {
		SourceURL       string `json:"source_url"`
		TargetURL       string `json:"target_url"`
		AnchorText      string `json:"anchor_text"`
		Nofollow        bool   `json:"nofollow"`
		DomainAuthority int    `json:"domain_authority"`
	} `json:"results"`
}

func (c *SnapshotClient) SnapshotFor(ctx context.Context, domain string) ([]SnapshotLink, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(map[string]any{"target": domain, "limit": 500})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/links", bytes.NewReader(body))
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
		return nil, fmt.Errorf("%w: snapshot API returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode snapshot response: %w", err)
	}

	links := make([]SnapshotLink, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.SourceURL == "" || r.TargetURL == "" {
			continue
		}
		links = append(links, SnapshotLink{
			ReferringURL: r.SourceURL,
			TargetURL:    r.TargetURL,
			AnchorText:   r.AnchorText,
			IsDofollow:   !r.Nofollow,
			Authority:    r.DomainAuthority,
		})
	}
	return links, nil
}
