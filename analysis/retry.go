// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package analysis

import (
	"context"
	"log/slog"
	"time"
)

// FetchPending re-fetches keywords and returns the ones still failing.
// A non-nil error ends retrying at once.
type FetchPending func(ctx context.Context, keywords []string) (pending []string, err error)

// RetryPending calls fetch until no keywords are pending or maxAttempts calls
// have been made. The keywords passed in have already failed once, so every
// call is preceded by a delay that starts at baseDelay and doubles each time.
//
// Returns the keywords still pending after the last call. The error is the one
// fetch returned, or the context error when ctx ends during a delay.
func RetryPending(ctx context.Context, keywords []string, fetch FetchPending, maxAttempts int, baseDelay time.Duration) ([]string, error) {
	if maxAttempts <= 0 {
		return keywords, ErrInvalidMaxAttempts
	}

	pending := keywords
	for attempt := 1; attempt <= maxAttempts && len(pending) > 0; attempt++ {
		// baseDelay * 2^(attempt-1)
		delay := baseDelay << (attempt - 1)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return pending, ctx.Err()
		case <-timer.C:
		}

		next, err := fetch(ctx, pending)
		if err != nil {
			return next, err
		}
		slog.Debug("retried pending keywords", "attempt", attempt, "maxAttempts", maxAttempts,
			"sent", len(pending), "pending", len(next))
		pending = next
	}
	return pending, nil
}
