// ABOUTME: Concrete record kinds: Session, Goal, Category, Media, Settings.
// ABOUTME: Constructors fill id and timestamps; With* helpers chain like the CLI expects.
package models

import "time"

// Session is one logged practice session.
type Session struct {
	Base       `yaml:",inline"`
	CategoryID string `json:"categoryId,omitempty" yaml:"category_id,omitempty"`
	// Duration is in seconds.
	Duration  int    `json:"duration" yaml:"duration"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
	StartTime string `json:"startTime,omitempty" yaml:"start_time,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Collection implements Record.
func (*Session) Collection() Collection { return CollectionSessions }

// NewSession creates a session starting now.
func NewSession(categoryID string, duration time.Duration) *Session {
	s := &Session{
		Base:       newBase(),
		CategoryID: categoryID,
		Duration:   int(duration / time.Second),
	}
	s.StartTime = s.CreatedAt
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = notes
	return s
}

// WithStartTime sets a custom start timestamp.
func (s *Session) WithStartTime(t time.Time) *Session {
	s.StartTime = FormatTime(t)
	return s
}

// Minutes returns the session length rounded down to whole minutes.
func (s *Session) Minutes() int {
	return s.Duration / 60
}

// Goal is a practice goal that can be toggled complete.
type Goal struct {
	Base        `yaml:",inline"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty" yaml:"category_id,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
	DueDate     string `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	CompletedAt string `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// Collection implements Record.
func (*Goal) Collection() Collection { return CollectionGoals }

// NewGoal creates an active goal.
func NewGoal(title, categoryID string) *Goal {
	return &Goal{Base: newBase(), Title: title, CategoryID: categoryID}
}

// SetCompleted flips completion and stamps CompletedAt.
func (g *Goal) SetCompleted(done bool) {
	g.Completed = done
	if done {
		g.CompletedAt = FormatTime(time.Now())
	} else {
		g.CompletedAt = ""
	}
	g.Touch()
}

// Category groups sessions, goals and media.
type Category struct {
	Base         `yaml:",inline"`
	Name         string `json:"name" yaml:"name"`
	InstrumentID string `json:"instrumentId,omitempty" yaml:"instrument_id,omitempty"`
	IsDefault    bool   `json:"isDefault,omitempty" yaml:"is_default,omitempty"`
	Archived     bool   `json:"archived,omitempty" yaml:"archived,omitempty"`
}

// Collection implements Record.
func (*Category) Collection() Collection { return CollectionCategories }

// NewCategory creates a user category.
func NewCategory(name, instrumentID string) *Category {
	return &Category{Base: newBase(), Name: name, InstrumentID: instrumentID}
}

// MediaType distinguishes captured media.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
	MediaNote  MediaType = "note"
)

// HasBlob reports whether media of this type keeps its payload in the blob store.
func (t MediaType) HasBlob() bool {
	return t == MediaPhoto || t == MediaVideo
}

// IsValid reports whether t is a known media type.
func (t MediaType) IsValid() bool {
	return t == MediaPhoto || t == MediaVideo || t == MediaNote
}

// Media is the metadata of a captured photo, video or text note.
// Binary payloads live in the blob store under the same id.
type Media struct {
	Base       `yaml:",inline"`
	Type       MediaType `json:"type" yaml:"type"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Filename   string    `json:"filename,omitempty" yaml:"filename,omitempty"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CategoryID string    `json:"categoryId,omitempty" yaml:"category_id,omitempty"`
	Date       string    `json:"date,omitempty" yaml:"date,omitempty"`
	MimeType   string    `json:"mimeType,omitempty" yaml:"mime_type,omitempty"`
	Size       int64     `json:"size,omitempty" yaml:"size,omitempty"`
}

// Collection implements Record.
func (*Media) Collection() Collection { return CollectionMedia }

// NewMedia creates a media record dated now.
func NewMedia(mediaType MediaType, name, categoryID string) *Media {
	m := &Media{Base: newBase(), Type: mediaType, Name: name, CategoryID: categoryID}
	m.Date = m.CreatedAt
	return m
}

// Settings holds user preferences. There is normally a single record.
type Settings struct {
	Base             `yaml:",inline"`
	Instrument       string `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	DailyGoalMinutes int    `json:"dailyGoalMinutes,omitempty" yaml:"daily_goal_minutes,omitempty"`
	Theme            string `json:"theme,omitempty" yaml:"theme,omitempty"`
	WeekStart        string `json:"weekStart,omitempty" yaml:"week_start,omitempty"`
}

// Collection implements Record.
func (*Settings) Collection() Collection { return CollectionSettings }

// NewSettings returns default settings.
func NewSettings() *Settings {
	return &Settings{Base: newBase(), DailyGoalMinutes: 30, Theme: "system", WeekStart: "monday"}
}
