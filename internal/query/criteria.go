// ABOUTME: Criteria for filtering a collection and its canonical cache key.
// ABOUTME: Equivalent criteria always serialize to the same key.
package query

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// All is the sentinel that disables the category and status stages.
const All = "all"

// Goal status values.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Criteria is the set of active filter parameters for a view.
type Criteria struct {
	CategoryID string `json:"category"`
	// Status is active/completed for goals and a media type for media.
	Status string `json:"status"`
	Search string `json:"search"`
	// StartDate and EndDate are calendar dates (YYYY-MM-DD), inclusive.
	StartDate string `json:"start"`
	EndDate   string `json:"end"`
	Page      int    `json:"page"`
	PageSize  int    `json:"size"`
}

// Normalize returns c with sentinels filled in, whitespace trimmed and the
// search term case-folded.
func (c Criteria) Normalize() Criteria {
	c.CategoryID = orAll(strings.TrimSpace(c.CategoryID))
	c.Status = orAll(strings.ToLower(strings.TrimSpace(c.Status)))
	c.Search = foldTerm(c.Search)
	c.StartDate = strings.TrimSpace(c.StartDate)
	c.EndDate = strings.TrimSpace(c.EndDate)
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PageSize < 0 {
		c.PageSize = 0
	}
	return c
}

// CacheKey is the canonical serialization of the normalized criteria.
func (c Criteria) CacheKey() string {
	data, _ := json.Marshal(c.Normalize())
	return string(data)
}

// FilterKey is CacheKey without the page fields, for caching a full result
// set that several pages are cut from.
func (c Criteria) FilterKey() string {
	n := c.Normalize()
	n.Page, n.PageSize = 0, 0
	data, _ := json.Marshal(n)
	return string(data)
}

func orAll(s string) string {
	if s == "" || strings.EqualFold(s, All) {
		return All
	}
	return s
}

// foldTerm normalizes text for caseless comparison. A Caser carries state,
// so each call gets its own.
func foldTerm(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
