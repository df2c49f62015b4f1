// Package catalog manages a user's template: categories and the activities
// that recur every day.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidColor       = errors.New("color must be a hex value like #3b82f6")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrNegativePoints     = errors.New("points cannot be negative")
	ErrAmbiguousReference = errors.New("reference matches more than one item")
)

// Store is the subset of the record store the catalog needs.
type Store interface {
	AddCategory(models.Category) error
	GetCategories(userID string) ([]models.Category, error)
	AddActivity(models.Activity) error
	GetActivity(id string) (models.Activity, error)
	GetActivities(userID string) ([]models.Activity, error)
	UpdateActivity(models.Activity) error
	DeleteActivity(id string) error
}

type Catalog struct {
	store Store
	newID func() string
}

func New(store Store) *Catalog {
	return &Catalog{store: store, newID: uuid.NewString}
}

// Categories lists the built-in categories followed by the user's own.
func (c *Catalog) Categories(userID string) ([]models.Category, error) {
	own, err := c.store.GetCategories(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return append(slices.Clone(constants.DefaultCategories), own...), nil
}

// AddCategory creates a user-owned category. An empty color takes the
// first palette entry.
func (c *Catalog) AddCategory(userID, name, color string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ErrEmptyName
	}
	if color == "" {
		color = constants.Palette[0]
	}
	if !IsHexColor(color) {
		return models.Category{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	cat := models.Category{ID: c.newID(), UserID: userID, Name: name, Color: strings.ToLower(color)}
	if err := c.store.AddCategory(cat); err != nil {
		return models.Category{}, fmt.Errorf("failed to add category: %w", err)
	}
	return cat, nil
}

// FindCategory resolves a category by id or case-insensitive name.
func (c *Catalog) FindCategory(userID, ref string) (models.Category, error) {
	cats, err := c.Categories(userID)
	if err != nil {
		return models.Category{}, err
	}
	for _, cat := range cats {
		if cat.ID == ref {
			return cat, nil
		}
	}

	var matches []models.Category
	for _, cat := range cats {
		if strings.EqualFold(cat.Name, strings.TrimSpace(ref)) {
			matches = append(matches, cat)
		}
	}
	switch len(matches) {
	case 0:
		return models.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Category{}, fmt.Errorf("%w: category %q", ErrAmbiguousReference, ref)
	}
}

func (c *Catalog) Activities(userID string) ([]models.Activity, error) {
	acts, err := c.store.GetActivities(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return acts, nil
}

// AddActivity adds a template entry in a known category.
func (c *Catalog) AddActivity(userID, categoryRef, name string, points int) (models.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Activity{}, ErrEmptyName
	}
	if points < 0 {
		return models.Activity{}, ErrNegativePoints
	}
	cat, err := c.FindCategory(userID, categoryRef)
	if err != nil {
		return models.Activity{}, err
	}

	act := models.Activity{ID: c.newID(), UserID: userID, CategoryID: cat.ID, Name: name, Points: points}
	if err := c.store.AddActivity(act); err != nil {
		return models.Activity{}, fmt.Errorf("failed to add activity: %w", err)
	}
	return act, nil
}

// FindActivity resolves one of the user's activities by id or
// case-insensitive name.
func (c *Catalog) FindActivity(userID, ref string) (models.Activity, error) {
	acts, err := c.Activities(userID)
	if err != nil {
		return models.Activity{}, err
	}
	for _, a := range acts {
		if a.ID == ref {
			return a, nil
		}
	}

	var matches []models.Activity
	for _, a := range acts {
		if strings.EqualFold(a.Name, strings.TrimSpace(ref)) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Activity{}, fmt.Errorf("%w: activity %q", ErrAmbiguousReference, ref)
	}
}

// ActivityEdit holds the fields to change; nil leaves a field alone.
type ActivityEdit struct {
	Name     *string
	Category *string
	Points   *int
}

// UpdateActivity edits a template entry owned by userID. Existing daily
// tasks keep the points they were created with.
func (c *Catalog) UpdateActivity(userID, id string, edit ActivityEdit) (models.Activity, error) {
	act, err := c.owned(userID, id)
	if err != nil {
		return models.Activity{}, err
	}

	if edit.Name != nil {
		name := strings.TrimSpace(*edit.Name)
		if name == "" {
			return models.Activity{}, ErrEmptyName
		}
		act.Name = name
	}
	if edit.Category != nil {
		cat, err := c.FindCategory(userID, *edit.Category)
		if err != nil {
			return models.Activity{}, err
		}
		act.CategoryID = cat.ID
	}
	if edit.Points != nil {
		if *edit.Points < 0 {
			return models.Activity{}, ErrNegativePoints
		}
		act.Points = *edit.Points
	}

	if err := c.store.UpdateActivity(act); err != nil {
		return models.Activity{}, fmt.Errorf("failed to update activity: %w", err)
	}
	return act, nil
}

// DeleteActivity removes a template entry. Its daily tasks stay as history.
func (c *Catalog) DeleteActivity(userID, id string) error {
	if _, err := c.owned(userID, id); err != nil {
		return err
	}
	if err := c.store.DeleteActivity(id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

func (c *Catalog) owned(userID, id string) (models.Activity, error) {
	act, err := c.store.GetActivity(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
		}
		return models.Activity{}, err
	}
	if act.UserID != userID {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	return act, nil
}

// IsHexColor reports whether s looks like #rrggbb.
func IsHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
