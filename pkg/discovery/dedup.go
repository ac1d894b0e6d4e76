package discovery

// Deduplicate collapses raw candidates to one per source domain,
// first-seen-wins, preserving input order. Running it on its own output is a
// no-op.
func Deduplicate(raw []RawOpportunity) []RawOpportunity {
	seen := make(map[string]struct{}, len(raw))
	out := make([]RawOpportunity, 0, len(raw))
	for _, r := range raw {
		if _, ok := seen[r.SourceDomain]; ok {
			continue
		}
		seen[r.SourceDomain] = struct{}{}
		out = append(out, r)
	}
	return out
}
