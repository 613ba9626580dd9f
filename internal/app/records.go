// ABOUTME: In-place record mutations: goal toggling, note edits and the
// ABOUTME: category lifecycle (archive, restore, hard removal).
package app

import (
	"errors"
	"fmt"

	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
)

// ErrDefaultCategory is returned when removing a built-in category.
var ErrDefaultCategory = errors.New("default categories can be archived but not removed")

// ToggleGoal flips a goal's completion.
func (a *App) ToggleGoal(id string) (*models.Goal, error) {
	r, err := a.Records.GetItem(models.CollectionGoals, id)
	if err != nil {
		return nil, err
	}
	goal := r.(*models.Goal)
	goal.SetCompleted(!goal.Completed)
	if err := a.Records.UpdateItem(models.CollectionGoals, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// EditNotes replaces the notes of a session or media record.
func (a *App) EditNotes(c models.Collection, id, notes string) error {
	r, err := a.Records.GetItem(c, id)
	if err != nil {
		return err
	}
	switch v := r.(type) {
	case *models.Session:
		v.Notes = notes
	case *models.Media:
		v.Notes = notes
	default:
		return fmt.Errorf("%s records have no notes", c.Lower())
	}
	r.Meta().Touch()
	return a.Records.UpdateItem(c, r)
}

// ArchiveCategory hides a category from pickers while keeping it resolvable
// from historical records.
func (a *App) ArchiveCategory(id string) (*models.Category, error) {
	return a.setArchived(id, true)
}

// RestoreCategory makes an archived category selectable again.
func (a *App) RestoreCategory(id string) (*models.Category, error) {
	return a.setArchived(id, false)
}

func (a *App) setArchived(id string, archived bool) (*models.Category, error) {
	r, err := a.Records.GetItem(models.CollectionCategories, id)
	if err != nil {
		return nil, err
	}
	cat := r.(*models.Category)
	if cat.Archived == archived {
		return cat, nil
	}
	cat.Archived = archived
	cat.Touch()
	if err := a.Records.UpdateItem(models.CollectionCategories, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// RemoveCategory deletes a user category outright. Records that pointed at
// it keep the id and show as "unknown".
func (a *App) RemoveCategory(id string) error {
	r, err := a.Records.GetItem(models.CollectionCategories, id)
	if err != nil {
		return err
	}
	if r.(*models.Category).IsDefault {
		return ErrDefaultCategory
	}
	return a.Records.DeleteItem(models.CollectionCategories, id)
}

// SeedDefaultCategories adds missing default categories.
func (a *App) SeedDefaultCategories(instrumentID string) (storage.SeedResult, error) {
	return a.Records.SeedDefaultCategories(instrumentID)
}
