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
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every typed error below matches exactly one of these with errors.Is.
var (
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown major or sub category.
	ErrNotFound = errors.New("category not found")

	// ErrProviderAuth indicates the provider rejected the credentials.
	ErrProviderAuth = errors.New("provider rejected credentials")

	// ErrProviderRateLimit indicates the provider call quota is exhausted.
	ErrProviderRateLimit = errors.New("provider rate limit exceeded")

	// ErrProviderTransient indicates a network, timeout or server-side failure.
	ErrProviderTransient = errors.New("provider temporarily unavailable")

	// ErrDataShape indicates a provider response that does not match the request.
	ErrDataShape = errors.New("unexpected provider response shape")
)

// Domain validation errors
var (
	// ErrEmptyKeyword indicates a keyword that is empty after trimming.
	ErrEmptyKeyword = errors.New("keyword cannot be empty")

	// ErrInvalidDateRange indicates a start date after the end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrInvalidTimeUnit indicates an unsupported trend time unit.
	ErrInvalidTimeUnit = errors.New("invalid time unit")

	// ErrMissingCredentials indicates an empty client id or secret.
	ErrMissingCredentials = errors.New("client id and secret are required")
)

// ValidationError describes malformed input to a mutator or query.
// Err, when set, is the specific cause such as ErrEmptyKeyword.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an unknown category path. Sub is empty when the major itself is unknown.
type NotFoundError struct {
	Major string
	Sub   string
}

func (e *NotFoundError) Error() string {
	if e.Sub == "" {
		return fmt.Sprintf("%s: %q", ErrNotFound, e.Major)
	}
	return fmt.Sprintf("%s: %q > %q", ErrNotFound, e.Major, e.Sub)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ProviderAuthError is returned when the provider answers 401 or 403.
// It is never retried.
type ProviderAuthError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ProviderAuthError) Error() string {
	return fmt.Sprintf("%s: %s (status %d): %s", e.Op, ErrProviderAuth, e.StatusCode, e.Message)
}

func (e *ProviderAuthError) Is(target error) bool {
	return target == ErrProviderAuth
}

// ProviderRateLimitError is returned when the provider answers 429.
// Keywords identifies the unit of work that hit the limit.
type ProviderRateLimitError struct {
	Op       string
	Keywords []string
	Message  string
}

func (e *ProviderRateLimitError) Error() string {
	return fmt.Sprintf("%s: %s for [%s]: %s", e.Op, ErrProviderRateLimit, strings.Join(e.Keywords, ", "), e.Message)
}

func (e *ProviderRateLimitError) Is(target error) bool {
	return target == ErrProviderRateLimit
}

// ProviderTransientError wraps network failures, timeouts and server errors.
type ProviderTransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderTransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, ErrProviderTransient, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrProviderTransient, e.Err)
}

func (e *ProviderTransientError) Is(target error) bool {
	return target == ErrProviderTransient
}

func (e *ProviderTransientError) Unwrap() error {
	return e.Err
}

// DataShapeError reports a response with missing fields or a result count that
// does not line up with the request. Keywords holds the request input for diagnosis.
type DataShapeError struct {
	Op       string
	Keywords []string
	Message  string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("%s: %s for [%s]: %s", e.Op, ErrDataShape, strings.Join(e.Keywords, ", "), e.Message)
}

func (e *DataShapeError) Is(target error) bool {
	return target == ErrDataShape
}

// IsAuth reports whether err is a credential rejection.
func IsAuth(err error) bool {
	return errors.Is(err, ErrProviderAuth)
}

// IsRateLimit reports whether err is a quota rejection.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrProviderRateLimit)
}

// IsTransient reports whether err is worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrProviderTransient)
}
