package trend

import "errors"

var (
	// ErrSkipped marks a chunk that was never sent because an earlier chunk
	// hit the provider rate limit or the run was aborted.
	ErrSkipped = errors.New("chunk skipped")
)
