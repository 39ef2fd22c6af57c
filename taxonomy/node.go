package taxonomy

import (
	"maps"
	"slices"
)

// node is one category in the two-level tree.
//
// flags holds an entry for every keyword in auto ∪ user; false marks an explicit
// disable. enabled is derived from auto, user and flags by recompute and must
// never be written directly.
type node struct {
	name     string
	auto     map[string]struct{}
	user     map[string]struct{}
	flags    map[string]bool
	enabled  map[string]struct{}
	children map[string]*node // nil below the major level
}

func newNode(name string, withChildren bool) *node {
	n := &node{
		name:    name,
		auto:    make(map[string]struct{}),
		user:    make(map[string]struct{}),
		flags:   make(map[string]bool),
		enabled: make(map[string]struct{}),
	}
	if withChildren {
		n.children = make(map[string]*node)
	}
	return n
}

func (n *node) has(keyword string) bool {
	_, inAuto := n.auto[keyword]
	_, inUser := n.user[keyword]
	return inAuto || inUser
}

// recompute drops flags for keywords that left auto ∪ user, enables keywords
// that have no flag yet, and rebuilds the enabled view.
func (n *node) recompute() {
	for k := range n.flags {
		if !n.has(k) {
			delete(n.flags, k)
		}
	}
	clear(n.enabled)
	for _, set := range []map[string]struct{}{n.auto, n.user} {
		for k := range set {
			on, ok := n.flags[k]
			if !ok {
				on = true
				n.flags[k] = true
			}
			if on {
				n.enabled[k] = struct{}{}
			}
		}
	}
}

func (n *node) addUser(keyword string) {
	n.user[keyword] = struct{}{}
	n.flags[keyword] = true
	n.recompute()
}

func (n *node) removeUser(keyword string) {
	delete(n.user, keyword)
	n.recompute()
}

func (n *node) setEnabled(keyword string, on bool) {
	n.flags[keyword] = on
	n.recompute()
}

func (n *node) setAll(on bool) {
	for k := range n.flags {
		n.flags[k] = on
	}
	n.recompute()
}

// replaceAuto discards the previous auto set. Flags of keywords that are still
// present survive; recompute prunes the rest.
func (n *node) replaceAuto(keywords []string) {
	n.auto = make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		n.auto[k] = struct{}{}
	}
	n.recompute()
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func union(dst map[string]struct{}, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}
