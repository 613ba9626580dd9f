// ABOUTME: Tests for the category dropdown model.
// ABOUTME: Selection survives refresh only while the category stays active.
package viewcache

import (
	"testing"

	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/stretchr/testify/assert"
)

func TestDropdownRefresh(t *testing.T) {
	a := &models.Category{Base: models.Base{ID: "a"}, Name: "Scales"}
	b := &models.Category{Base: models.Base{ID: "b"}, Name: "Pieces"}
	d := NewCategoryDropdown()

	assert.False(t, d.Refresh([]*models.Category{a, b}))
	assert.Equal(t, []Option{{query.All, "All categories"}, {"a", "Scales"}, {"b", "Pieces"}}, d.Options())

	assert.True(t, d.Select("b"))
	assert.False(t, d.Select("zzz"))
	assert.Equal(t, "b", d.Selected())

	assert.False(t, d.Refresh([]*models.Category{b, a}))
	assert.Equal(t, "b", d.Selected())

	b.Archived = true
	assert.True(t, d.Refresh([]*models.Category{a, b}))
	assert.Equal(t, query.All, d.Selected())
	assert.Len(t, d.Options(), 2)

	assert.True(t, d.Select(""))
	assert.Equal(t, query.All, d.Selected())
}
