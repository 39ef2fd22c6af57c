package provider

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/trendscout/core"
)

// Provider-enforced limits.
const (
	// MaxDisplay is the largest page a shopping search returns.
	MaxDisplay = 100

	// MaxKeywordGroups is the largest number of keyword groups per trend call.
	MaxKeywordGroups = 5

	// MaxKeywordsPerGroup is the largest number of keywords inside one group.
	MaxKeywordsPerGroup = 20
)

// Shopping search sort orders.
const (
	SortSimilarity = "sim"
	SortDate       = "date"
	SortPriceAsc   = "asc"
	SortPriceDesc  = "dsc"
)

// SearchRequest is one shopping-search call.
type SearchRequest struct {
	Query   string `validate:"required"`
	Display int    `validate:"min=1,max=100"`
	Start   int    `validate:"omitempty,min=1,max=1000"`
	Sort    string `validate:"omitempty,oneof=sim date asc dsc"`
}

// KeywordGroup is one named series in a trend call.
type KeywordGroup struct {
	GroupName string   `json:"groupName" validate:"required"`
	Keywords  []string `json:"keywords" validate:"required,min=1,max=20,dive,required"`
}

// TrendRequest is the body of one trend call.
type TrendRequest struct {
	StartDate     string         `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string         `json:"endDate" validate:"required,datetime=2006-01-02"`
	TimeUnit      string         `json:"timeUnit" validate:"required,oneof=date week month"`
	KeywordGroups []KeywordGroup `json:"keywordGroups" validate:"required,min=1,max=5,dive"`
	Device        string         `json:"device,omitempty" validate:"omitempty,oneof=pc mo"`
	Gender        string         `json:"gender,omitempty" validate:"omitempty,oneof=m f"`
	Ages          []string       `json:"ages,omitempty" validate:"omitempty,dive,oneof=1 2 3 4 5 6 7 8 9 10 11"`
}

// TrendDatum is one period of a trend series.
type TrendDatum struct {
	Period string  `json:"period"`
	Ratio  float64 `json:"ratio"`
}

// TrendResult is the series for one keyword group.
type TrendResult struct {
	Title    string       `json:"title"`
	Keywords []string     `json:"keywords"`
	Data     []TrendDatum `json:"data"`
}

// TrendResponse is the body of a trend call.
type TrendResponse struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	TimeUnit  string        `json:"timeUnit"`
	Results   []TrendResult `json:"results"`
}

// NewTrendRequest builds the request for one chunk of keywords. Each keyword
// becomes its own group, named after the keyword, in chunk order.
func NewTrendRequest(q core.TrendQuery, chunk []string) TrendRequest {
	groups := make([]KeywordGroup, len(chunk))
	for i, k := range chunk {
		groups[i] = KeywordGroup{GroupName: k, Keywords: []string{k}}
	}
	return TrendRequest{
		StartDate:     q.Start.Format(core.DateLayout),
		EndDate:       q.End.Format(core.DateLayout),
		TimeUnit:      string(q.TimeUnit),
		KeywordGroups: groups,
		Device:        string(q.Device),
		Gender:        string(q.Gender),
		Ages:          q.Ages,
	}
}

// GroupNames returns the group names of the request in order.
func (r TrendRequest) GroupNames() []string {
	names := make([]string, len(r.KeywordGroups))
	for i, g := range r.KeywordGroups {
		names[i] = g.GroupName
	}
	return names
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request against provider limits before it is sent.
func (r SearchRequest) Validate() error {
	return structError(validate.Struct(r))
}

// Validate checks the request against provider limits before it is sent.
func (r TrendRequest) Validate() error {
	return structError(validate.Struct(r))
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		return &core.ValidationError{Field: fe.Namespace(), Message: "failed " + msg}
	}
	return &core.ValidationError{Field: "request", Message: err.Error()}
}
