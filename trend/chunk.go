package trend

import "github.com/poiesic/trendscout/core"

// Chunk splits keywords into consecutive groups of at most size, preserving order.
// A size <= 0 yields a single chunk.
func Chunk(keywords []string, size int) [][]string {
	if len(keywords) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(keywords)
	}
	chunks := make([][]string, 0, (len(keywords)+size-1)/size)
	for start := 0; start < len(keywords); start += size {
		end := min(start+size, len(keywords))
		chunks = append(chunks, keywords[start:end:end])
	}
	return chunks
}

// Dedupe normalizes keywords and drops repeats, keeping the first occurrence.
// Keywords that normalize to nothing are dropped.
func Dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = core.NormalizeKeyword(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
