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


package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// EarliestTrendDate is the first day the trend provider has data for.
var EarliestTrendDate = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

var keywordTokenPattern = regexp.MustCompile(`^(?:[가-힣]{2,}|[A-Za-z]{3,})$`)

// NormalizeKeyword trims surrounding whitespace and composes Hangul jamo into
// syllables. Case is preserved.
func NormalizeKeyword(keyword string) string {
	return norm.NFC.String(strings.TrimSpace(keyword))
}

// ValidateKeyword normalizes keyword and rejects it when nothing is left.
func ValidateKeyword(keyword string) (string, error) {
	normalized := NormalizeKeyword(keyword)
	if normalized == "" {
		return "", &ValidationError{Field: "keyword", Err: ErrEmptyKeyword}
	}
	return normalized, nil
}

// IsKeywordToken reports whether s is a single extractable token:
// two or more Hangul syllables, or three or more Latin letters.
func IsKeywordToken(s string) bool {
	return keywordTokenPattern.MatchString(s)
}

// ValidateCredentials checks that both halves of the credential pair are present.
func ValidateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.ClientID) == "" || strings.TrimSpace(creds.ClientSecret) == "" {
		return &ValidationError{Field: "credentials", Err: ErrMissingCredentials}
	}
	return nil
}

// ValidateTimeUnit accepts date, week and month.
func ValidateTimeUnit(unit TimeUnit) error {
	switch unit {
	case TimeUnitDate, TimeUnitWeek, TimeUnitMonth:
		return nil
	}
	return &ValidationError{Field: "time_unit", Message: fmt.Sprintf("%s: %q", ErrInvalidTimeUnit, unit), Err: ErrInvalidTimeUnit}
}

// ValidateTrendQuery validates a trend query according to provider rules.
//
// Validation rules:
//   - at least one keyword, none empty after normalization
//   - Start and End set, Start not after End, Start not before EarliestTrendDate
//   - TimeUnit is date, week or month
//   - Device, Gender and Ages are empty or one of the provider codes
func ValidateTrendQuery(q TrendQuery) error {
	if len(q.Keywords) == 0 {
		return &ValidationError{Field: "keywords", Message: "at least one keyword is required"}
	}
	for _, k := range q.Keywords {
		if NormalizeKeyword(k) == "" {
			return &ValidationError{Field: "keywords", Err: ErrEmptyKeyword}
		}
	}
	return ValidateTrendWindow(q)
}

// ValidateTrendWindow applies the ValidateTrendQuery rules that do not
// concern keywords.
func ValidateTrendWindow(q TrendQuery) error {
	if q.Start.IsZero() || q.End.IsZero() {
		return &ValidationError{Field: "date_range", Message: "start and end dates are required"}
	}
	if q.Start.After(q.End) {
		return &ValidationError{Field: "date_range", Err: ErrInvalidDateRange}
	}
	if q.Start.Before(EarliestTrendDate) {
		return &ValidationError{Field: "date_range", Message: "start date must be on or after " + EarliestTrendDate.Format(DateLayout)}
	}

	if err := ValidateTimeUnit(q.TimeUnit); err != nil {
		return err
	}

	switch q.Device {
	case DeviceAll, DevicePC, DeviceMobile:
	default:
		return &ValidationError{Field: "device", Message: fmt.Sprintf("unsupported device %q", q.Device)}
	}

	switch q.Gender {
	case GenderAll, GenderMale, GenderFemale:
	default:
		return &ValidationError{Field: "gender", Message: fmt.Sprintf("unsupported gender %q", q.Gender)}
	}

	for _, a := range q.Ages {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > 11 {
			return &ValidationError{Field: "ages", Message: fmt.Sprintf("unsupported age bucket %q", a)}
		}
	}

	return nil
}
