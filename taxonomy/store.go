package taxonomy

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/trendscout/core"
)

// KeywordSets is the auto, user and enabled view of a selection.
type KeywordSets struct {
	Auto    []string `json:"auto"`
	User    []string `json:"user"`
	Enabled []string `json:"enabled"`
}

// Stats summarizes the whole taxonomy. Keyword counts sum over every node.
type Stats struct {
	Majors        int `json:"majors"`
	Subcategories int `json:"subcategories"`
	Auto          int `json:"auto_keywords"`
	User          int `json:"user_keywords"`
	Enabled       int `json:"enabled_keywords"`
}

// Store is the two-level category taxonomy with per-node keyword sets.
//
// Every method addresses a node by (major, sub). An empty sub addresses the
// major node itself for mutators; for EnabledKeywords and AllKeywords it
// selects the major together with all of its subcategories.
//
// Store is safe for concurrent use, but a discovery run and an analysis run
// against the same store should still be serialized by the caller.
type Store struct {
	mu     sync.RWMutex
	majors map[string]*node
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore bootstraps a store with one empty node per seed category.
func NewStore(seed Seed, opts ...Option) *Store {
	s := &Store{
		majors: make(map[string]*node),
		logger: slog.Default().With("component", "taxonomy"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mergeSeed(seed)
	return s
}

// Reset discards every node and rebuilds the tree from seed.
func (s *Store) Reset(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.majors = make(map[string]*node)
	s.mergeSeed(seed)
}

// MergeSeed adds seed majors and subcategories that are not in the store yet.
// Existing nodes are left untouched. It returns the number of nodes added.
func (s *Store) MergeSeed(seed Seed) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeSeed(seed)
}

func (s *Store) mergeSeed(seed Seed) int {
	added := 0
	for _, cat := range seed {
		major, ok := s.majors[cat.Name]
		if !ok {
			major = newNode(cat.Name, true)
			s.majors[cat.Name] = major
			added++
			s.logger.Debug("added major category", "major", cat.Name)
		}
		for _, sub := range cat.Subcategories {
			if _, ok := major.children[sub.Name]; ok {
				continue
			}
			major.children[sub.Name] = newNode(sub.Name, false)
			added++
			s.logger.Debug("added subcategory", "major", cat.Name, "sub", sub.Name)
		}
	}
	return added
}

// lookup must be called with mu held.
func (s *Store) lookup(major, sub string) (*node, error) {
	m, ok := s.majors[major]
	if !ok {
		return nil, &core.NotFoundError{Major: major}
	}
	if sub == "" {
		return m, nil
	}
	child, ok := m.children[sub]
	if !ok {
		return nil, &core.NotFoundError{Major: major, Sub: sub}
	}
	return child, nil
}

// selection returns the nodes a read operation covers.
func (s *Store) selection(major, sub string) ([]*node, error) {
	n, err := s.lookup(major, sub)
	if err != nil {
		return nil, err
	}
	if sub != "" {
		return []*node{n}, nil
	}
	nodes := []*node{n}
	for _, name := range sortedKeys(n.children) {
		nodes = append(nodes, n.children[name])
	}
	return nodes, nil
}

// Majors returns the sorted major category names.
func (s *Store) Majors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.majors)
}

// Subcategories returns the sorted subcategory names of major.
func (s *Store) Subcategories(major string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(major, "")
	if err != nil {
		return nil, err
	}
	return sortedKeys(m.children), nil
}

// EnabledKeywords returns the sorted enabled keywords of the selection.
// Without sub it is the union over the major node and every subcategory.
func (s *Store) EnabledKeywords(major, sub string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes, err := s.selection(major, sub)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]struct{})
	for _, n := range nodes {
		union(merged, n.enabled)
	}
	return sortedKeys(merged), nil
}

// AllKeywords returns the auto, user and enabled sets of the selection, each
// merged independently the same way as EnabledKeywords.
func (s *Store) AllKeywords(major, sub string) (KeywordSets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes, err := s.selection(major, sub)
	if err != nil {
		return KeywordSets{}, err
	}
	auto := make(map[string]struct{})
	user := make(map[string]struct{})
	enabled := make(map[string]struct{})
	for _, n := range nodes {
		union(auto, n.auto)
		union(user, n.user)
		union(enabled, n.enabled)
	}
	return KeywordSets{
		Auto:    sortedKeys(auto),
		User:    sortedKeys(user),
		Enabled: sortedKeys(enabled),
	}, nil
}

// AddUserKeyword adds keyword to the user and enabled sets of the addressed node.
// Adding a keyword that is already a user keyword is a no-op.
func (s *Store) AddUserKeyword(major, sub, keyword string) error {
	keyword, err := core.ValidateKeyword(keyword)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.lookup(major, sub)
	if err != nil {
		return err
	}
	if _, ok := n.user[keyword]; ok {
		return nil
	}
	n.addUser(keyword)
	return nil
}

// RemoveUserKeyword drops keyword from the user set of the addressed node.
// A keyword that is also an auto keyword keeps its enabled flag.
func (s *Store) RemoveUserKeyword(major, sub, keyword string) error {
	keyword, err := core.ValidateKeyword(keyword)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.lookup(major, sub)
	if err != nil {
		return err
	}
	n.removeUser(keyword)
	return nil
}

// SetEnabled records an explicit enable or disable for keyword. The flag
// survives later auto keyword replacements while the keyword stays present.
func (s *Store) SetEnabled(major, sub, keyword string, enabled bool) error {
	keyword, err := core.ValidateKeyword(keyword)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.lookup(major, sub)
	if err != nil {
		return err
	}
	if !n.has(keyword) {
		return &core.ValidationError{
			Field:   "keyword",
			Message: fmt.Sprintf("%q is not a keyword of %s", keyword, core.SelectionKey(major, sub)),
		}
	}
	n.setEnabled(keyword, enabled)
	return nil
}

// EnableAll enables every keyword of the addressed node. Without sub it also
// covers every subcategory of major.
func (s *Store) EnableAll(major, sub string) error {
	return s.setAll(major, sub, true)
}

// DisableAll disables every keyword of the addressed node. Without sub it also
// covers every subcategory of major.
func (s *Store) DisableAll(major, sub string) error {
	return s.setAll(major, sub, false)
}

func (s *Store) setAll(major, sub string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes, err := s.selection(major, sub)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		n.setAll(on)
	}
	return nil
}

// UpdateAutoKeywords replaces the auto keywords of the addressed node with the
// deduplicated input. Nothing of the previous auto set is kept. Explicit
// disables survive for keywords that are still present.
//
// Each keyword goes through core.NormalizeKeyword first, so the stored set is
// dedup(normalize(keywords)): " 크림 " and "크림" are one keyword and blank
// entries are dropped.
func (s *Store) UpdateAutoKeywords(major, sub string, keywords []string) error {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = core.NormalizeKeyword(k); k != "" {
			normalized = append(normalized, k)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.lookup(major, sub)
	if err != nil {
		return err
	}
	before := len(n.auto)
	n.replaceAuto(normalized)
	s.logger.Debug("replaced auto keywords", "selection", core.SelectionKey(major, sub), "before", before, "after", len(n.auto))
	return nil
}

// AddSubcategory creates an empty subcategory under major. Adding an existing
// subcategory is a no-op.
func (s *Store) AddSubcategory(major, sub string) error {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return &core.ValidationError{Field: "subcategory", Message: "name cannot be empty"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(major, "")
	if err != nil {
		return err
	}
	if _, ok := m.children[sub]; ok {
		return nil
	}
	m.children[sub] = newNode(sub, false)
	return nil
}

// Stats counts nodes and keywords across the whole taxonomy.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	count := func(n *node) {
		st.Auto += len(n.auto)
		st.User += len(n.user)
		st.Enabled += len(n.enabled)
	}
	for _, m := range s.majors {
		st.Majors++
		count(m)
		for _, c := range m.children {
			st.Subcategories++
			count(c)
		}
	}
	return st
}
