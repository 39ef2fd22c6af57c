package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Product is a single shopping-search listing.
// Only Title and Brand feed keyword extraction; the rest is carried for reporting.
type Product struct {
	Title    string
	Brand    string
	Category string // provider category path joined with ">"
	MallName string
	LowPrice int64
	Link     string
}

// TrendPoint is one period of a provider-normalized relative search volume.
type TrendPoint struct {
	Period time.Time `json:"period"`
	Ratio  float64   `json:"ratio"` // 0-100, relative to the peak inside one request
}

// RisingCandidate is a scored keyword.
type RisingCandidate struct {
	Keyword    string  `json:"keyword"`
	FirstRatio float64 `json:"first_ratio"`
	LastRatio  float64 `json:"last_ratio"`
	AbsChange  float64 `json:"abs_change"`
	PctChange  float64 `json:"pct_change"`
	AvgRatio   float64 `json:"avg_ratio"`
	Points     int     `json:"points"`
	Score      float64 `json:"score"`
}

// TimeUnit is the trend aggregation period.
type TimeUnit string

const (
	TimeUnitDate  TimeUnit = "date"
	TimeUnitWeek  TimeUnit = "week"
	TimeUnitMonth TimeUnit = "month"
)

// Device filters trend data by client platform. Empty means all devices.
type Device string

const (
	DeviceAll    Device = ""
	DevicePC     Device = "pc"
	DeviceMobile Device = "mo"
)

// Gender filters trend data by searcher gender. Empty means all.
type Gender string

const (
	GenderAll    Gender = ""
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// TrendQuery describes one trend fetch over an ordered keyword list.
type TrendQuery struct {
	Keywords []string
	Start    time.Time
	End      time.Time
	TimeUnit TimeUnit
	Device   Device
	Gender   Gender
	Ages     []string // provider age bucket codes "1".."11"
}

// Fingerprint identifies the query filters for a single keyword, used as a cache key.
func (q TrendQuery) Fingerprint(keyword string) ID {
	key := keyword + "|" + q.Start.Format(DateLayout) + "|" + q.End.Format(DateLayout) +
		"|" + string(q.TimeUnit) + "|" + string(q.Device) + "|" + string(q.Gender)
	for _, a := range q.Ages {
		key += "|" + a
	}
	return IDFromContent(key)
}

// DateLayout is the provider's date format.
const DateLayout = "2006-01-02"

// Credentials authenticate against the search and trend providers.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// SelectionKey names a taxonomy selection. An empty sub selects the whole major.
func SelectionKey(major, sub string) string {
	if sub == "" {
		return major
	}
	return major + ">" + sub
}

// Snapshot is a persisted ranking for one selection and date window.
type Snapshot struct {
	Id         ID                `json:"id"`
	RunID      string            `json:"run_id"`
	Selection  string            `json:"selection"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	TimeUnit   TimeUnit          `json:"time_unit"`
	CreatedAt  time.Time         `json:"created_at"`
	Candidates []RisingCandidate `json:"candidates"`
}

// Rank returns the 1-based position of keyword in the snapshot, or 0 when absent.
func (s *Snapshot) Rank(keyword string) int {
	for i, c := range s.Candidates {
		if c.Keyword == keyword {
			return i + 1
		}
	}
	return 0
}
