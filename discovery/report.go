package discovery

import (
	"time"

	"github.com/poiesic/trendscout/core"
)

// NodePath addresses one taxonomy node. Sub is empty for a major node.
type NodePath struct {
	Major string
	Sub   string
}

// String returns the selection key of the path.
func (p NodePath) String() string {
	return core.SelectionKey(p.Major, p.Sub)
}

// NodeResult is the outcome of one node.
type NodeResult struct {
	Path     NodePath
	Products int
	Keywords []string
	Err      error
	Elapsed  time.Duration
}

// Report summarizes a discovery run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Nodes      []NodeResult

	// Warnings holds one line per failed node.
	Warnings []string

	// Pending lists nodes not visited because the run stopped early.
	// Pass them to DiscoverNodes to resume.
	Pending []NodePath
}

// Updated returns the nodes whose auto keywords were replaced.
func (r *Report) Updated() []NodeResult {
	var out []NodeResult
	for _, n := range r.Nodes {
		if n.Err == nil {
			out = append(out, n)
		}
	}
	return out
}

// Failed returns the nodes that kept their previous auto keywords.
func (r *Report) Failed() []NodeResult {
	var out []NodeResult
	for _, n := range r.Nodes {
		if n.Err != nil {
			out = append(out, n)
		}
	}
	return out
}

// Complete reports whether every requested node was visited.
func (r *Report) Complete() bool {
	return len(r.Pending) == 0
}
