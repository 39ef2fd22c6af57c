package rising

import (
	"cmp"
	"slices"

	"github.com/poiesic/trendscout/core"
)

// Score weights and ranking defaults.
const (
	PctWeight   = 0.5
	AbsWeight   = 0.3
	DefaultTopK = 20
)

// Score computes the rising metrics of one series. First and last are taken by
// position. Fewer than two points yield zero change; a zero first ratio yields
// zero percentage change.
func Score(keyword string, points []core.TrendPoint) core.RisingCandidate {
	c := core.RisingCandidate{Keyword: keyword, Points: len(points)}
	if len(points) == 0 {
		return c
	}

	var sum float64
	for _, p := range points {
		sum += p.Ratio
	}
	c.AvgRatio = sum / float64(len(points))
	c.FirstRatio = points[0].Ratio
	c.LastRatio = points[len(points)-1].Ratio

	if len(points) >= 2 {
		c.AbsChange = c.LastRatio - c.FirstRatio
		if c.FirstRatio > 0 {
			c.PctChange = c.AbsChange / c.FirstRatio * 100
		}
	}

	c.Score = max(0, c.PctChange)*PctWeight + max(0, c.AbsChange)*AbsWeight
	return c
}

// Rank scores every keyword with at least one point and returns the topK best,
// ordered by score, then percentage change, both descending, then keyword.
// A topK <= 0 means DefaultTopK.
func Rank(series map[string][]core.TrendPoint, topK int) []core.RisingCandidate {
	if topK <= 0 {
		topK = DefaultTopK
	}

	candidates := make([]core.RisingCandidate, 0, len(series))
	for k, points := range series {
		if len(points) == 0 {
			continue
		}
		candidates = append(candidates, Score(k, points))
	}

	slices.SortFunc(candidates, Compare)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// Compare orders candidates for ranking.
func Compare(a, b core.RisingCandidate) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.PctChange, a.PctChange); c != 0 {
		return c
	}
	return cmp.Compare(a.Keyword, b.Keyword)
}
