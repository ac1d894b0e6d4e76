package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

// Health classifications for the website-level average.
const (
	HealthExcellent      = "Excellent"
	HealthGood           = "Good"
	HealthNeedsAttention = "Needs Attention"
)

// HealthScore rates one acquired backlink 0-100: liveness dominates,
// authority and verification recency make up the rest.
func HealthScore(a *storage.AcquiredBacklink, now time.Time) float64 {
	score := 0.0
	if a.IsActive {
		score += 50
	}

	authority := float64(a.Authority) / 100.0
	if authority > 1 {
		authority = 1
	}
	score += 30 * authority

	score += recencyTerm(a.LastVerifiedAt, now)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func recencyTerm(lastVerified *time.Time, now time.Time) float64 {
	if lastVerified == nil {
		return 10
	}
	age := now.Sub(*lastVerified)
	switch {
	case age < 24*time.Hour:
		return 20
	case age <= 7*24*time.Hour:
		return 15
	case age <= 30*24*time.Hour:
		return 10
	default:
		return 5
	}
}

// BacklinkHealth pairs one acquired backlink with its score.
type BacklinkHealth struct {
	Backlink *storage.AcquiredBacklink `json:"backlink"`
	Score    float64                   `json:"score"`
}

// HealthSummary is the website-level roll-up.
type HealthSummary struct {
	AverageScore   float64          `json:"average_score"`
	Classification string           `json:"classification"`
	Backlinks      []BacklinkHealth `json:"backlinks"`
}

// GetHealth scores every acquired backlink of the website and classifies the
// average.
func (s *Service) GetHealth(ctx context.Context, websiteID uuid.UUID) (*HealthSummary, error) {
	acquired, err := s.acquired.ListByWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &HealthSummary{Backlinks: make([]BacklinkHealth, 0, len(acquired))}
	total := 0.0
	for _, a := range acquired {
		score := HealthScore(a, now)
		total += score
		summary.Backlinks = append(summary.Backlinks, BacklinkHealth{Backlink: a, Score: score})
	}
	if len(acquired) > 0 {
		summary.AverageScore = total / float64(len(acquired))
	}
	summary.Classification = Classify(summary.AverageScore)
	return summary, nil
}

// Classify maps an average health score to its display bucket.
func Classify(avg float64) string {
	switch {
	case avg >= 80:
		return HealthExcellent
	case avg >= 60:
		return HealthGood
	default:
		return HealthNeedsAttention
	}
}
