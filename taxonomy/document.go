package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poiesic/trendscout/core"
)

// CurrentVersion is the document schema version written by this package.
// Version 1 is the bare major -> node mapping shared with other tooling.
const CurrentVersion = 1

// ErrUnsupportedVersion indicates a document written by a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported taxonomy document version")

// NodeRecord is the persisted form of a subcategory.
type NodeRecord struct {
	AutoKeywords    []string `json:"auto_keywords"`
	UserKeywords    []string `json:"user_keywords"`
	EnabledKeywords []string `json:"enabled_keywords"`
}

// MajorRecord is the persisted form of a major category.
type MajorRecord struct {
	NodeRecord
	Subcategories map[string]*NodeRecord `json:"subcategories"`
}

// Document is the persisted taxonomy.
type Document struct {
	Version    int
	Categories map[string]*MajorRecord
}

type envelope struct {
	Version    int                     `json:"version"`
	Categories map[string]*MajorRecord `json:"categories"`
}

// MarshalJSON writes version 1 documents in the bare legacy shape and later
// versions inside an envelope carrying the version number.
func (d *Document) MarshalJSON() ([]byte, error) {
	cats := d.Categories
	if cats == nil {
		cats = map[string]*MajorRecord{}
	}
	if d.Version <= 1 {
		return json.Marshal(cats)
	}
	return json.Marshal(envelope{Version: d.Version, Categories: cats})
}

// UnmarshalJSON accepts both the bare shape and the versioned envelope.
func (d *Document) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	_, hasVersion := probe["version"]
	_, hasCategories := probe["categories"]
	if len(probe) == 2 && hasVersion && hasCategories {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		if env.Version < 1 || env.Version > CurrentVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
		d.Version = env.Version
		d.Categories = env.Categories
		return nil
	}

	var cats map[string]*MajorRecord
	if err := json.Unmarshal(data, &cats); err != nil {
		return err
	}
	d.Version = 1
	d.Categories = cats
	return nil
}

func recordOf(n *node) NodeRecord {
	return NodeRecord{
		AutoKeywords:    nonNil(sortedKeys(n.auto)),
		UserKeywords:    nonNil(sortedKeys(n.user)),
		EnabledKeywords: nonNil(sortedKeys(n.enabled)),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Document snapshots the store in its persisted form. Arrays are sorted.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := &Document{
		Version:    CurrentVersion,
		Categories: make(map[string]*MajorRecord, len(s.majors)),
	}
	for name, m := range s.majors {
		rec := &MajorRecord{
			NodeRecord:    recordOf(m),
			Subcategories: make(map[string]*NodeRecord, len(m.children)),
		}
		for subName, c := range m.children {
			r := recordOf(c)
			rec.Subcategories[subName] = &r
		}
		doc.Categories[name] = rec
	}
	return doc
}

// FromDocument rebuilds a store from its persisted form. A keyword listed as
// enabled without being an auto or user keyword is dropped with a warning.
func FromDocument(doc *Document, opts ...Option) (*Store, error) {
	s := NewStore(nil, opts...)
	if doc == nil {
		return s, nil
	}
	for name, rec := range doc.Categories {
		if core.NormalizeKeyword(name) == "" {
			return nil, &core.ValidationError{Field: "major", Message: "category name cannot be empty"}
		}
		if rec == nil {
			rec = &MajorRecord{}
		}
		m := newNode(name, true)
		s.loadRecord(m, name, "", rec.NodeRecord)
		for subName, subRec := range rec.Subcategories {
			if core.NormalizeKeyword(subName) == "" {
				return nil, &core.ValidationError{Field: "subcategory", Message: fmt.Sprintf("empty subcategory name under %q", name)}
			}
			c := newNode(subName, false)
			if subRec != nil {
				s.loadRecord(c, name, subName, *subRec)
			}
			m.children[subName] = c
		}
		s.majors[name] = m
	}
	return s, nil
}

func (s *Store) loadRecord(n *node, major, sub string, rec NodeRecord) {
	for _, k := range rec.AutoKeywords {
		if k = core.NormalizeKeyword(k); k != "" {
			n.auto[k] = struct{}{}
		}
	}
	for _, k := range rec.UserKeywords {
		if k = core.NormalizeKeyword(k); k != "" {
			n.user[k] = struct{}{}
		}
	}
	enabled := make(map[string]struct{}, len(rec.EnabledKeywords))
	for _, k := range rec.EnabledKeywords {
		k = core.NormalizeKeyword(k)
		if k == "" {
			continue
		}
		if !n.has(k) {
			s.logger.Warn("dropping enabled keyword outside auto and user sets",
				"selection", core.SelectionKey(major, sub), "keyword", k)
			continue
		}
		enabled[k] = struct{}{}
	}
	for _, set := range []map[string]struct{}{n.auto, n.user} {
		for k := range set {
			_, on := enabled[k]
			n.flags[k] = on
		}
	}
	n.recompute()
}
