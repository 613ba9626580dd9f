// ABOUTME: Tests for the Query Engine filter and sort stages.
// ABOUTME: Includes dangling-reference tolerance and repeatability checks.
package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harperreed/practice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc = &Engine{Location: time.UTC}

func session(id, categoryID, notes, start string) *models.Session {
	return &models.Session{
		Base:       models.Base{ID: id, CreatedAt: "2024-01-01T00:00:00.000Z"},
		CategoryID: categoryID,
		Notes:      notes,
		StartTime:  start,
	}
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}

func scenarioData() ([]models.Record, []*models.Category) {
	sessions := []models.Record{
		session("s1", "c1", "scales", "2024-01-05"),
		session("s2", "c2", "arpeggios", "2024-01-10"),
	}
	categories := []*models.Category{{Base: models.Base{ID: "c1"}, Name: "Technique"}}
	return sessions, categories
}

func TestSearchWithDanglingCategory(t *testing.T) {
	sessions, categories := scenarioData()
	got := Run(sessions, categories, Criteria{CategoryID: "all", Search: "arp"})
	assert.Equal(t, []string{"s2"}, ids(got))
}

func TestCategoryFilter(t *testing.T) {
	sessions, categories := scenarioData()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"known category", Criteria{CategoryID: "c1"}, []string{"s1"}},
		{"dangling category is skipped", Criteria{CategoryID: "c2"}, []string{"s2", "s1"}},
		{"all", Criteria{CategoryID: "all"}, []string{"s2", "s1"}},
		{"empty means all", Criteria{}, []string{"s2", "s1"}},
		{"search category name", Criteria{Search: "TECHN"}, []string{"s1"}},
		{"dangling resolves to unknown", Criteria{Search: "unknown"}, []string{"s2"}},
		{"no match", Criteria{Search: "chopin"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(utc.Run(sessions, categories, tt.criteria)))
		})
	}
}

func TestDanglingRecordStillListed(t *testing.T) {
	sessions, _ := scenarioData()
	// No categories at all: every reference dangles.
	got := utc.Run(sessions, nil, Criteria{CategoryID: "c1", Search: "scales"})
	assert.Equal(t, []string{"s1"}, ids(got))
}

func TestGoalStatusFilter(t *testing.T) {
	active := &models.Goal{Base: models.Base{ID: "g1", CreatedAt: "2024-01-02T00:00:00.000Z"}, Title: "Memorize Fur Elise"}
	done := &models.Goal{Base: models.Base{ID: "g2", CreatedAt: "2024-01-01T00:00:00.000Z"}, Title: "Play C major", Description: "two octaves", Completed: true}
	goals := []models.Record{active, done}

	assert.Equal(t, []string{"g1"}, ids(utc.Run(goals, nil, Criteria{Status: "active"})))
	assert.Equal(t, []string{"g2"}, ids(utc.Run(goals, nil, Criteria{Status: "Completed"})))
	assert.Equal(t, []string{"g1", "g2"}, ids(utc.Run(goals, nil, Criteria{Status: "all"})))
	assert.Equal(t, []string{"g2"}, ids(utc.Run(goals, nil, Criteria{Search: "octaves"})))
}

func TestMediaTypeFilter(t *testing.T) {
	photo := &models.Media{Base: models.Base{ID: "m1"}, Type: models.MediaPhoto, Name: "posture", Date: "2024-02-01T10:00:00Z"}
	note := &models.Media{Base: models.Base{ID: "m2"}, Type: models.MediaNote, Filename: "lesson.txt", Notes: "watch the wrist", Date: "2024-02-02T10:00:00Z"}
	media := []models.Record{photo, note}

	assert.Equal(t, []string{"m1"}, ids(utc.Run(media, nil, Criteria{Status: "photo"})))
	assert.Equal(t, []string{"m2"}, ids(utc.Run(media, nil, Criteria{Status: "note"})))
	assert.Equal(t, []string{"m2"}, ids(utc.Run(media, nil, Criteria{Search: "lesson"})))
	assert.Equal(t, []string{"m2"}, ids(utc.Run(media, nil, Criteria{Search: "WRIST"})))
	assert.Equal(t, []string{"m2", "m1"}, ids(utc.Run(media, nil, Criteria{Status: "bogus"})))
}

func TestSearchFoldsUnicode(t *testing.T) {
	records := []models.Record{session("s1", "", "Etude for the Straße recital", "2024-01-01")}
	assert.Len(t, utc.Run(records, nil, Criteria{Search: "STRASSE"}), 1)
	assert.Len(t, utc.Run(records, nil, Criteria{Search: "straße"}), 1)
}

func TestDateRangeFilter(t *testing.T) {
	records := []models.Record{
		session("before", "", "", "2024-01-04T23:59:59.999Z"),
		session("start", "", "", "2024-01-05T00:00:00Z"),
		session("late", "", "", "2024-01-06T23:59:59.999Z"),
		session("after", "", "", "2024-01-07T00:00:00Z"),
		session("dateonly", "", "", "2024-01-06"),
		session("broken", "", "", "yesterday-ish"),
	}

	got := utc.Run(records, nil, Criteria{StartDate: "2024-01-05", EndDate: "2024-01-06"})
	assert.Equal(t, []string{"late", "dateonly", "start"}, ids(got))

	got = utc.Run(records, nil, Criteria{StartDate: "2024-01-06"})
	assert.Equal(t, []string{"after", "late", "dateonly"}, ids(got))

	got = utc.Run(records, nil, Criteria{})
	assert.Len(t, got, len(records), "unparseable dates are kept when no bound is active")
	assert.Equal(t, "broken", got[len(got)-1].RecordID())

	got = utc.Run(records, nil, Criteria{StartDate: "not a date"})
	assert.Len(t, got, len(records), "an unparseable bound is inactive")
}

func TestDateBoundsUseEngineLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	e := &Engine{Location: tokyo}
	// 2024-01-05T20:00Z is already 2024-01-06 in Tokyo.
	records := []models.Record{session("s", "", "", "2024-01-05T20:00:00Z")}

	assert.Empty(t, e.Run(records, nil, Criteria{EndDate: "2024-01-05"}))
	assert.Len(t, e.Run(records, nil, Criteria{StartDate: "2024-01-06", EndDate: "2024-01-06"}), 1)
}

func TestEffectiveDatePriority(t *testing.T) {
	s := &models.Session{Base: models.Base{CreatedAt: "c"}, StartTime: "a", Date: "b"}
	assert.Equal(t, "a", EffectiveDate(s))
	s.StartTime = ""
	assert.Equal(t, "b", EffectiveDate(s))
	s.Date = ""
	assert.Equal(t, "c", EffectiveDate(s))

	g := &models.Goal{Base: models.Base{CreatedAt: "created"}, DueDate: "due"}
	assert.Equal(t, "created", EffectiveDate(g))
}

func TestSortOrder(t *testing.T) {
	older := session("older", "", "", "2024-01-01T10:00:00Z")
	tieOld := session("tie-old", "", "", "2024-01-02T10:00:00Z")
	tieNew := session("tie-new", "", "", "2024-01-02T10:00:00Z")
	tieNew.CreatedAt = "2024-01-03T00:00:00.000Z"
	badA := session("bad-a", "", "", "???")
	badB := session("bad-b", "", "", "not a date")

	input := []models.Record{badA, older, tieOld, badB, tieNew}
	got := utc.Sort(input)

	assert.Equal(t, []string{"tie-new", "tie-old", "older", "bad-a", "bad-b"}, ids(got))
	assert.Equal(t, []string{"bad-a", "older", "tie-old", "bad-b", "tie-new"}, ids(input), "input is not reordered")
}

func TestRunIsRepeatable(t *testing.T) {
	sessions, categories := scenarioData()
	c := Criteria{Search: "a", StartDate: "2024-01-01"}

	first, err := json.Marshal(utc.Run(sessions, categories, c))
	require.NoError(t, err)
	second, err := json.Marshal(utc.Run(sessions, categories, c))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestNilRecordsAreDropped(t *testing.T) {
	records := []models.Record{nil, session("s1", "", "x", "2024-01-01")}
	assert.Equal(t, []string{"s1"}, ids(utc.Run(records, nil, Criteria{})))
}
