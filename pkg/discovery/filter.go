package discovery

import (
	"errors"
	"sort"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

// maxSpamScore is the hard spam cutoff. Not configurable.
const maxSpamScore = 30

const (
	maxResults         = 15
	maxFallbackResults = 10
)

var ErrInvalidBand = errors.New("invalid achievability band: max must be greater than min")

// Band is the caller-tunable authority/difficulty window used to bias
// discovery toward realistic targets.
type Band struct {
	MinAuthority  int `json:"min_authority"`
	MaxAuthority  int `json:"max_authority"`
	MinDifficulty int `json:"min_difficulty"`
	MaxDifficulty int `json:"max_difficulty"`
}

// DefaultBand is applied when the caller supplies no band.
func DefaultBand() Band {
	return Band{MinAuthority: 10, MaxAuthority: 60, MinDifficulty: 20, MaxDifficulty: 70}
}

func (b Band) Validate() error {
	if b.MaxAuthority <= b.MinAuthority || b.MaxDifficulty <= b.MinDifficulty {
		return ErrInvalidBand
	}
	return nil
}

// Filter narrows scored candidates to an achievable subset. Spam filtering is
// a hard rule; when the band eliminates everything the band is discarded and
// the spam-filtered set is returned instead, so a too-strict band never turns
// into an error. A type filter, when given, is applied before truncation.
func Filter(scored []Scored, band Band, oppType *storage.OpportunityType) []Scored {
	var clean, inBand []Scored
	for _, s := range scored {
		if s.Spam >= maxSpamScore {
			continue
		}
		if oppType != nil && s.Type != *oppType {
			continue
		}
		clean = append(clean, s)
		if s.Authority < band.MinAuthority || s.Authority > band.MaxAuthority {
			continue
		}
		if s.Difficulty < band.MinDifficulty || s.Difficulty > band.MaxDifficulty {
			continue
		}
		inBand = append(inBand, s)
	}

	if len(inBand) == 0 {
		sortByEase(clean)
		return truncate(clean, maxFallbackResults)
	}

	sortByEase(inBand)
	return truncate(inBand, maxResults)
}

// sortByEase orders by difficulty ascending, ties broken by authority
// descending: prefer easy-and-strong.
func sortByEase(s []Scored) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Difficulty != s[j].Difficulty {
			return s[i].Difficulty < s[j].Difficulty
		}
		return s[i].Authority > s[j].Authority
	})
}

func truncate(s []Scored, n int) []Scored {
	if len(s) > n {
		return s[:n]
	}
	return s
}
