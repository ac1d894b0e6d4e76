package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SerpClient queries a SERP API for the top ranking pages of a keyword.
type SerpClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerpClient(apiKey, baseURL string, timeout time.Duration) *SerpClient {
	return &SerpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type serpResponse struct {
	OrganicResults []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"organic_results"`
}

func (c *SerpClient) Search(ctx context.Context, keyword string) ([]SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	q := url.Values{}
	q.Set("q", keyword)
	q.Set("num", "10")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		if r.Link == "" {
			continue
		}
		results = append(results, SearchResult{URL: r.Link, Title: r.Title})
	}
	return results, nil
}
