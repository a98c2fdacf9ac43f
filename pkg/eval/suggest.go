package eval

import "github.com/lithammer/fuzzysearch/fuzzy"

// fuzzySuggest picks the closest candidate to name by fuzzy-match rank,
// returning "" if candidates is empty or nothing ranks as a plausible match.
func fuzzySuggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}

	return best.Target
}
