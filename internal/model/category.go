package model

import "strings"

// Category groups tasks by area of life
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryShopping  Category = "shopping"
	CategoryOther     Category = "other"
)

// CategoryInfo is the display data for a category
type CategoryInfo struct {
	ID    Category
	Name  string
	Color string
}

// Categories lists every category in display order
var Categories = []CategoryInfo{
	{ID: CategoryWork, Name: "Work", Color: "#3498db"},
	{ID: CategoryPersonal, Name: "Personal", Color: "#e74c3c"},
	{ID: CategoryHealth, Name: "Health", Color: "#2ecc71"},
	{ID: CategoryEducation, Name: "Education", Color: "#f39c12"},
	{ID: CategoryShopping, Name: "Shopping", Color: "#9b59b6"},
	{ID: CategoryOther, Name: "Other", Color: "#95a5a6"},
}

var categoryIndex = func() map[Category]CategoryInfo {
	m := make(map[Category]CategoryInfo, len(Categories))
	for _, c := range Categories {
		m[c.ID] = c
	}
	return m
}()

// LookupCategory returns the display data for c, falling back to "other"
func LookupCategory(c Category) CategoryInfo {
	if info, ok := categoryIndex[c]; ok {
		return info
	}
	return categoryIndex[CategoryOther]
}

// ParseCategory normalizes user input to a known category; unknown
// values become CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryIndex[c]; ok {
		return c
	}
	return CategoryOther
}

// Name returns the display name of the category
func (c Category) Name() string { return LookupCategory(c).Name }

// Color returns the display color of the category
func (c Category) Color() string { return LookupCategory(c).Color }
