package domain

import "time"

// Timestamps holds the creation and last-update times shared by mutable entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LocalizedText is a memo rendered in each supported language.
type LocalizedText struct {
	En string `json:"en"`
	Es string `json:"es"`
}

// NewText builds a LocalizedText with the same string for every language.
func NewText(s string) LocalizedText {
	return LocalizedText{En: s, Es: s}
}

// String returns the English rendering.
func (t LocalizedText) String() string {
	return t.En
}

// TimeRange is a half-open interval [Start, End). A zero End means open-ended.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	return r.End.IsZero() || t.Before(r.End)
}

// Validate rejects ranges that end before they start.
func (r TimeRange) Validate() error {
	if !r.End.IsZero() && !r.End.After(r.Start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func StringPtr(s string) *string {
	return &s
}
