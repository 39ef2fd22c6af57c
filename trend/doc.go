// Package trend fetches relative search volume for keyword lists of any length.
//
// The provider accepts at most five keyword groups per call, so BatchClient
// splits the normalized, deduplicated keyword list into consecutive chunks of
// five and sends them one after another. Each keyword becomes its own group,
// named after the keyword, and results are mapped back by position.
//
// Failures are isolated per chunk and reported in Result.Batches. Credential
// rejection and rate limiting stop the run; see BatchClient.Fetch.
//
// Timeline pivots the resulting series into a period by keyword table.
package trend
