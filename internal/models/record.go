// ABOUTME: Record base type, Collection names, and the Record interface.
// ABOUTME: Each collection kind is a concrete struct; Record is their tagged union.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collection names a logical set of records of one kind.
type Collection string

const (
	CollectionSessions   Collection = "SESSIONS"
	CollectionGoals      Collection = "GOALS"
	CollectionCategories Collection = "CATEGORIES"
	CollectionMedia      Collection = "MEDIA"
	CollectionSettings   Collection = "SETTINGS"
)

// AllCollections lists every collection in export order.
var AllCollections = []Collection{
	CollectionSettings,
	CollectionCategories,
	CollectionSessions,
	CollectionGoals,
	CollectionMedia,
}

// ParseCollection resolves a collection name case-insensitively.
// Singular forms ("session", "goal") are accepted for CLI convenience.
func ParseCollection(s string) (Collection, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "CATEGORY" {
		return CollectionCategories, nil
	}
	for _, c := range AllCollections {
		if string(c) == name || string(c) == name+"S" {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection: %q", s)
}

// Lower returns the lowercase name used as the export key.
func (c Collection) Lower() string {
	return strings.ToLower(string(c))
}

// Record is implemented by Session, Goal, Category, Media and Settings.
type Record interface {
	RecordID() string
	Collection() Collection
	Meta() *Base
}

// Base holds the fields every record carries.
// Timestamps are kept as ISO-8601 strings so imported values that fail to
// parse survive a round trip untouched.
type Base struct {
	ID        string `json:"id" yaml:"id"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// RecordID returns the record id.
func (b *Base) RecordID() string { return b.ID }

// Meta exposes the base fields for generic code.
func (b *Base) Meta() *Base { return b }

// Touch refreshes UpdatedAt. Every in-place mutation calls it.
func (b *Base) Touch() {
	b.UpdatedAt = FormatTime(time.Now())
}

func newBase() Base {
	now := FormatTime(time.Now())
	return Base{ID: NewID(), CreatedAt: now, UpdatedAt: now}
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// New returns an empty record for the collection.
func New(c Collection) (Record, error) {
	switch c {
	case CollectionSessions:
		return &Session{}, nil
	case CollectionGoals:
		return &Goal{}, nil
	case CollectionCategories:
		return &Category{}, nil
	case CollectionMedia:
		return &Media{}, nil
	case CollectionSettings:
		return &Settings{}, nil
	default:
		return nil, fmt.Errorf("unknown collection: %q", c)
	}
}

// Decode parses one JSON record of the given collection.
func Decode(c Collection, data []byte) (Record, error) {
	r, err := New(c)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c, err)
	}
	return r, nil
}

// Encode serializes a record to JSON.
func Encode(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", r.Collection(), err)
	}
	return data, nil
}

// Clone returns a deep copy of r that shares no memory with it.
func Clone(r Record) (Record, error) {
	data, err := Encode(r)
	if err != nil {
		return nil, err
	}
	return Decode(r.Collection(), data)
}
