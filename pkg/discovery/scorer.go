package discovery

import "sort"

// DifficultyFromAuthority maps domain authority to an outreach difficulty
// estimate. Bounded to [10, 95]: roughly authority with a small achievability
// discount outside the middle range.
func DifficultyFromAuthority(authority int) int {
	switch {
	case authority < 20:
		d := authority - 5
		if d < 10 {
			d = 10
		}
		return d
	case authority < 50:
		return authority
	case authority < 70:
		return authority - 5
	default:
		d := authority - 5
		if d > 95 {
			d = 95
		}
		return d
	}
}

// OpportunityScore computes the composite 0-100 score. Each term is capped so
// no single factor can saturate the result. The difficulty term is itself
// derived from authority, so authority is counted twice; that redundancy is
// part of the ranking contract and left as is.
func OpportunityScore(authority, relevance, difficulty, spam int) float64 {
	authorityTerm := float64(authority) / 60.0 * 30.0
	if authorityTerm > 30 {
		authorityTerm = 30
	}

	easeTerm := 30.0 - float64(difficulty)*0.2
	if easeTerm < 0 {
		easeTerm = 0
	}

	spamTerm := 10.0 - float64(spam)
	if spamTerm < 0 {
		spamTerm = 0
	}

	return 0.30*authorityTerm + 0.40*float64(relevance) + 0.20*easeTerm + 0.10*spamTerm
}

// Scored pairs a raw candidate with its computed scores.
type Scored struct {
	RawOpportunity
	Difficulty int
	Score      float64
}

// ScoreAll computes difficulty and composite score for every candidate and
// returns them sorted descending by score.
func ScoreAll(raw []RawOpportunity) []Scored {
	scored := make([]Scored, 0, len(raw))
	for _, r := range raw {
		difficulty := DifficultyFromAuthority(r.Authority)
		scored = append(scored, Scored{
			RawOpportunity: r,
			Difficulty:     difficulty,
			Score:          OpportunityScore(r.Authority, r.Relevance, difficulty, r.Spam),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
