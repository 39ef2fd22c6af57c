package analysis

import "github.com/poiesic/trendscout/core"

// Movement places a ranked keyword against the previous snapshot of the same
// selection.
type Movement struct {
	Keyword      string `json:"keyword"`
	Rank         int    `json:"rank"`
	PreviousRank int    `json:"previous_rank,omitempty"`
	IsNew        bool   `json:"is_new,omitempty"`
}

// Change is the number of places gained since the previous snapshot.
// Negative values are places lost; new keywords report 0.
func (m Movement) Change() int {
	if m.PreviousRank == 0 {
		return 0
	}
	return m.PreviousRank - m.Rank
}

// Movements compares candidates with previous. Without a previous snapshot
// there is nothing to compare against and no keyword is marked new.
func Movements(candidates []core.RisingCandidate, previous *core.Snapshot) []Movement {
	out := make([]Movement, len(candidates))
	for i, c := range candidates {
		m := Movement{Keyword: c.Keyword, Rank: i + 1}
		if previous != nil {
			m.PreviousRank = previous.Rank(c.Keyword)
			m.IsNew = m.PreviousRank == 0
		}
		out[i] = m
	}
	return out
}

// Dropped returns the keywords of previous missing from candidates, in their
// previous order.
func Dropped(candidates []core.RisingCandidate, previous *core.Snapshot) []string {
	if previous == nil {
		return nil
	}
	current := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		current[c.Keyword] = struct{}{}
	}
	var out []string
	for _, c := range previous.Candidates {
		if _, ok := current[c.Keyword]; !ok {
			out = append(out, c.Keyword)
		}
	}
	return out
}
